package importer

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"flowedit/diagram"
)

// Grid the imported blocks are laid out on, in pixels.
const (
	gridMargin = 50
	gridWidth  = 200
	gridHeight = 150
)

var (
	// arrowPattern splits a line into node tokens. Edge labels are dropped.
	arrowPattern = regexp.MustCompile(`\s*(?:-->|---|-\.->|-\.-|==>|===|--\s+[^-]+?\s+-->)\s*(?:\|[^|]*\|)?\s*`)
	nodePattern  = regexp.MustCompile(`^(\w+)\s*(.*)$`)
	headerFields = regexp.MustCompile(`^(?:flowchart|graph)(?:\s+(TB|TD|BT|LR|RL))?\s*;?$`)
)

// statementKeywords start lines that carry no nodes or edges.
var statementKeywords = []string{"classDef", "class", "style", "linkStyle", "click", "subgraph", "direction"}

// MermaidImporter imports Mermaid flowcharts
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks if the content is a Mermaid flowchart
func (m *MermaidImporter) CanImport(content string) bool {
	_, body := splitFrontMatter(content)
	body = strings.TrimSpace(body)
	return strings.HasPrefix(body, "flowchart") || strings.HasPrefix(body, "graph")
}

// FormatName returns the format name
func (m *MermaidImporter) FormatName() string {
	return "Mermaid"
}

// FileExtensions returns common file extensions
func (m *MermaidImporter) FileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}

// mermaidNode is a node as it appears in the source.
type mermaidNode struct {
	name  string
	text  string
	shape string // opening bracket, empty for a bare reference
}

// Import converts a Mermaid flowchart. Nodes become blocks numbered in the
// order they first appear, and are placed on a grid one row per step away
// from the entry nodes.
func (m *MermaidImporter) Import(content string) (*diagram.Flowchart, error) {
	front, body := splitFrontMatter(content)

	var (
		nodes    []*mermaidNode
		byName   = map[string]*mermaidNode{}
		edges    [][2]string
		header   bool
		vertical = true
	)

	declare := func(token string) (string, error) {
		match := nodePattern.FindStringSubmatch(strings.TrimSpace(token))
		if match == nil {
			return "", fmt.Errorf("invalid node %q", token)
		}
		n, ok := byName[match[1]]
		if !ok {
			n = &mermaidNode{name: match[1], text: match[1]}
			byName[n.name] = n
			nodes = append(nodes, n)
		}
		if shape, text, ok := parseShape(match[2]); ok {
			n.shape, n.text = shape, text
		}
		return n.name, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimSuffix(line, ";")
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		if !header {
			match := headerFields.FindStringSubmatch(line)
			if match == nil {
				return nil, fmt.Errorf("line %d: expected flowchart header, got %q", lineNum, line)
			}
			vertical = match[1] != "LR" && match[1] != "RL"
			header = true
			continue
		}
		if line == "end" || hasKeyword(line) {
			continue
		}

		var chain []string
		for _, token := range arrowPattern.Split(line, -1) {
			if strings.TrimSpace(token) == "" {
				continue
			}
			name, err := declare(token)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			chain = append(chain, name)
		}
		for i := 1; i < len(chain); i++ {
			edges = append(edges, [2]string{chain[i-1], chain[i]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !header {
		return nil, fmt.Errorf("%w: missing flowchart header", ErrInvalidFormat)
	}

	fc := diagram.New(diagram.WithName(front.Title))
	levels := layers(nodes, edges)
	columns := map[int]int{}
	ids := map[string]string{}
	for _, n := range nodes {
		t := blockType(n, edges)
		w, h := t.DefaultSize()
		row := levels[n.name]
		col := columns[row]
		columns[row]++
		if !vertical {
			row, col = col, row
		}
		cx := gridMargin + float64(col)*gridWidth + gridWidth/2
		cy := gridMargin + float64(row)*gridHeight + gridHeight/2
		b, err := fc.AddBlock(t,
			diagram.WithText(n.text),
			diagram.At(diagram.Position{X: cx - w/2, Y: cy - h/2}))
		if err != nil {
			return nil, err
		}
		ids[n.name] = b.ID
	}

	for _, e := range edges {
		// Self loops and repeated edges have no block equivalent and are
		// rejected by Connect.
		_, _ = fc.Connect(ids[e[0]], ids[e[1]])
	}
	return fc, nil
}

func hasKeyword(line string) bool {
	for _, kw := range statementKeywords {
		if line == kw || strings.HasPrefix(line, kw+" ") {
			return true
		}
	}
	return false
}

// shapes lists bracket pairs longest first so "([" wins over "(".
var shapes = [][2]string{
	{"([", "])"},
	{"((", "))"},
	{"[/", "/]"},
	{`[\`, `\]`},
	{"{{", "}}"},
	{"[[", "]]"},
	{"[(", ")]"},
	{"{", "}"},
	{"(", ")"},
	{"[", "]"},
	{">", "]"},
}

// parseShape splits "([Label])" into its opening bracket and label.
func parseShape(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	for _, pair := range shapes {
		if strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) && len(s) >= len(pair[0])+len(pair[1]) {
			return pair[0], unquote(s[len(pair[0]) : len(s)-len(pair[1])]), true
		}
	}
	return "", "", false
}

func unquote(label string) string {
	label = strings.TrimSpace(label)
	if len(label) >= 2 && strings.HasPrefix(label, `"`) && strings.HasSuffix(label, `"`) {
		label = label[1 : len(label)-1]
	}
	label = strings.ReplaceAll(label, "#quot;", `"`)
	label = strings.ReplaceAll(label, "<br/>", "\n")
	return label
}

// blockType maps a node's bracket to a block type. Rounded terminals are
// ends when they only receive connections and starts otherwise.
func blockType(n *mermaidNode, edges [][2]string) diagram.BlockType {
	switch n.shape {
	case "{", "{{":
		return diagram.BlockDecision
	case "[/":
		return diagram.BlockInput
	case `[\`:
		return diagram.BlockOutput
	case "([", "((":
		var in, out bool
		for _, e := range edges {
			out = out || e[0] == n.name
			in = in || e[1] == n.name
		}
		if in && !out {
			return diagram.BlockEnd
		}
		return diagram.BlockStart
	default:
		return diagram.BlockProcess
	}
}

// layers assigns each node the length of the shortest path from an entry
// node. Nodes only reachable through a cycle start a new search of their own.
func layers(nodes []*mermaidNode, edges [][2]string) map[string]int {
	next := map[string][]string{}
	indegree := map[string]int{}
	for _, e := range edges {
		next[e[0]] = append(next[e[0]], e[1])
		if e[0] != e[1] {
			indegree[e[1]]++
		}
	}

	level := make(map[string]int, len(nodes))
	visit := func(root string) {
		level[root] = 0
		queue := []string{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range next[cur] {
				if _, seen := level[nb]; !seen {
					level[nb] = level[cur] + 1
					queue = append(queue, nb)
				}
			}
		}
	}

	for _, n := range nodes {
		if _, seen := level[n.name]; !seen && indegree[n.name] == 0 {
			visit(n.name)
		}
	}
	for _, n := range nodes {
		if _, seen := level[n.name]; !seen {
			visit(n.name)
		}
	}
	return level
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// splitFrontMatter separates a leading "---" YAML block from the diagram.
func splitFrontMatter(content string) (frontMatter, string) {
	var fm frontMatter
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---") {
		return fm, content
	}
	rest := strings.TrimPrefix(trimmed, "---")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, content
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return frontMatter{}, content
	}
	body := rest[end+len("\n---"):]
	return fm, body
}
