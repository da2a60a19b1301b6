// Package markdown finds flowchart code fences in Markdown documents and
// writes updated flowcharts back into them.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrNoFence     = errors.New("no flowchart code fence found")
	ErrFenceMoved  = errors.New("code fence markers have moved")
	ErrFenceEdited = errors.New("code fence content was modified externally")
)

// Fence is one fenced code block whose info string names a flowchart
// language.
type Fence struct {
	Lang      string // mermaid, json or yaml
	Content   string // without the fence lines and indentation
	StartLine int    // 0-based line of the opening fence
	EndLine   int    // 0-based line of the closing fence
	Indent    string
	Hash      string // sha256 of Content
}

// Languages maps fence info strings to import format names.
var Languages = map[string]string{
	"mermaid": "mermaid",
	"json":    "json",
	"yaml":    "yaml",
	"yml":     "yaml",
}

// Find returns every flowchart fence in document order. An unterminated
// fence is ignored.
func Find(doc string) []Fence {
	var (
		fences []Fence
		cur    *Fence
		body   []string
	)
	for i, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if cur == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			lang := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "```")))
			if _, ok := Languages[lang]; ok {
				cur = &Fence{Lang: lang, StartLine: i, Indent: line[:len(line)-len(trimmed)]}
				body = body[:0]
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			cur.EndLine = i
			cur.Content = strings.Join(body, "\n")
			cur.Hash = hash(cur.Content)
			fences = append(fences, *cur)
			cur = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, cur.Indent))
	}
	return fences
}

// Select returns the n-th fence, counting from 1.
func Select(doc string, n int) (Fence, error) {
	fences := Find(doc)
	if len(fences) == 0 {
		return Fence{}, ErrNoFence
	}
	if n < 1 || n > len(fences) {
		return Fence{}, fmt.Errorf("fence %d out of range: document has %d", n, len(fences))
	}
	return fences[n-1], nil
}

// Replace swaps the body of f for content, keeping the fence lines and
// indentation. It fails if the fence no longer sits where Find saw it or its
// body has changed since.
func Replace(doc string, f Fence, content string) (string, error) {
	lines := strings.Split(doc, "\n")
	if f.StartLine < 0 || f.EndLine >= len(lines) || f.StartLine >= f.EndLine {
		return "", fmt.Errorf("%w: lines %d-%d of %d", ErrFenceMoved, f.StartLine+1, f.EndLine+1, len(lines))
	}
	open := strings.TrimLeft(lines[f.StartLine], " \t")
	closing := strings.TrimLeft(lines[f.EndLine], " \t")
	if !strings.HasPrefix(strings.ToLower(open), "```"+f.Lang) || !strings.HasPrefix(closing, "```") {
		return "", fmt.Errorf("%w: lines %d-%d", ErrFenceMoved, f.StartLine+1, f.EndLine+1)
	}

	current := make([]string, 0, f.EndLine-f.StartLine-1)
	for _, line := range lines[f.StartLine+1 : f.EndLine] {
		current = append(current, strings.TrimPrefix(line, f.Indent))
	}
	if hash(strings.Join(current, "\n")) != f.Hash {
		return "", ErrFenceEdited
	}

	body := strings.Split(strings.TrimRight(content, "\n"), "\n")
	out := make([]string, 0, len(lines)-len(current)+len(body))
	out = append(out, lines[:f.StartLine+1]...)
	for _, line := range body {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, f.Indent+line)
	}
	out = append(out, lines[f.EndLine:]...)
	return strings.Join(out, "\n"), nil
}

// Describe returns a one-line summary of the n-th fence for listings.
func Describe(f Fence, n int) string {
	preview := ""
	for _, line := range strings.Split(f.Content, "\n") {
		if t := strings.TrimSpace(line); t != "" && t != "---" {
			preview = t
			break
		}
	}
	preview = runewidth.Truncate(preview, 50, "...")
	return fmt.Sprintf("%d. %s (line %d): %s", n, f.Lang, f.StartLine+1, preview)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
