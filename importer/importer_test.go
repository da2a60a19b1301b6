package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/diagram"
	"flowedit/export"
)

func TestJSONImportRepairsDocument(t *testing.T) {
	content := `{
  "blocks": [
    {"id": "block-9", "type": "process", "text": "A", "position": {"x": 0, "y": 0}, "width": 150, "height": 60},
    {"id": "block-2", "type": "process", "text": "B", "position": {"x": 300, "y": 0}, "width": 150, "height": 60}
  ],
  "connections": [
    {"from": "block-9", "to": "block-2", "fromPosition": {"x": 1, "y": 1}, "toPosition": {"x": 2, "y": 2}}
  ],
  "nextId": 3
}`
	fc, err := NewJSONImporter().Import(content)
	require.NoError(t, err)

	assert.Equal(t, 10, fc.NextID)
	require.Len(t, fc.Connections, 1)
	c := fc.Connections[0]
	assert.Equal(t, "conn-block-9-block-2", c.ID)
	assert.Equal(t, diagram.Position{X: 150, Y: 30}, c.FromPosition)
	assert.Equal(t, diagram.Position{X: 300, Y: 30}, c.ToPosition)
	assert.NotEmpty(t, fc.Metadata.ID)
}

func TestJSONImportKeepsMetadata(t *testing.T) {
	fc, err := NewJSONImporter().Import(`{"blocks": [], "connections": [], "metadata": {"id": "abc", "name": "Plan"}}`)
	require.NoError(t, err)
	assert.Equal(t, "abc", fc.Metadata.ID)
	assert.Equal(t, "Plan", fc.Metadata.Name)
	assert.Equal(t, 1, fc.NextID)
	assert.NotNil(t, fc.Blocks)
}

func TestJSONImportInvalid(t *testing.T) {
	assert.Equal(t, "invalid flowchart data format", ErrInvalidFormat.Error())

	tests := map[string]string{
		"missing connections": `{"blocks": []}`,
		"missing blocks":      `{"connections": []}`,
		"null connections":    `{"blocks": [], "connections": null}`,
		"blocks not array":    `{"blocks": {}, "connections": []}`,
		"not json":            `{`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewJSONImporter().Import(content)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestYAMLImport(t *testing.T) {
	content := `blocks:
  - id: block-1
    type: start
    text: Begin
    position: {x: 0, y: 0}
    width: 120
    height: 50
connections: []
`
	fc, err := NewYAMLImporter().Import(content)
	require.NoError(t, err)
	require.Len(t, fc.Blocks, 1)
	assert.Equal(t, diagram.BlockStart, fc.Blocks[0].Type)
	assert.Equal(t, "Begin", fc.Blocks[0].Text)
	assert.Equal(t, 2, fc.NextID)

	_, err = NewYAMLImporter().Import("blocks: []\n")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestMermaidImport(t *testing.T) {
	content := `flowchart TD
    %% entry point
    A([Start]) --> B{Ok?}
    B -->|yes| C[Do it]
    B -- no --> D([End])
    C --> D;
    classDef hot fill:#f00
`
	fc, err := NewMermaidImporter().Import(content)
	require.NoError(t, err)

	want := []diagram.Block{
		{ID: "block-1", Type: diagram.BlockStart, Text: "Start", Position: diagram.Position{X: 90, Y: 100}, Width: 120, Height: 50},
		{ID: "block-2", Type: diagram.BlockDecision, Text: "Ok?", Position: diagram.Position{X: 90, Y: 215}, Width: 120, Height: 120},
		{ID: "block-3", Type: diagram.BlockProcess, Text: "Do it", Position: diagram.Position{X: 75, Y: 395}, Width: 150, Height: 60},
		{ID: "block-4", Type: diagram.BlockEnd, Text: "End", Position: diagram.Position{X: 290, Y: 400}, Width: 120, Height: 50},
	}
	assert.Equal(t, want, fc.Blocks)

	var ids []string
	for _, c := range fc.Connections {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{
		"conn-block-1-block-2",
		"conn-block-2-block-3",
		"conn-block-2-block-4",
		"conn-block-3-block-4",
	}, ids)
	assert.Equal(t, 5, fc.NextID)
}

func TestMermaidImportHorizontal(t *testing.T) {
	fc, err := NewMermaidImporter().Import("graph LR\n  a --> b\n")
	require.NoError(t, err)
	require.Len(t, fc.Blocks, 2)

	assert.Equal(t, "a", fc.Blocks[0].Text)
	assert.Equal(t, diagram.BlockProcess, fc.Blocks[0].Type)
	assert.Equal(t, diagram.Position{X: 75, Y: 95}, fc.Blocks[0].Position)
	assert.Equal(t, diagram.Position{X: 275, Y: 95}, fc.Blocks[1].Position)
}

func TestMermaidImportSkipsLoopsAndRepeats(t *testing.T) {
	fc, err := NewMermaidImporter().Import("flowchart TD\n a --> a\n a --> b\n a --> b\n")
	require.NoError(t, err)
	assert.Len(t, fc.Connections, 1)
}

func TestMermaidImportErrors(t *testing.T) {
	_, err := NewMermaidImporter().Import("graph XY\n a --> b\n")
	assert.Error(t, err)

	_, err = NewMermaidImporter().Import("%% only a comment\n")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestMermaidRoundTrip(t *testing.T) {
	src := diagram.New(diagram.WithName("Plan"))
	a, _ := src.AddBlock(diagram.BlockStart)
	b, _ := src.AddBlock(diagram.BlockDecision, diagram.WithText("Ok?"))
	c, _ := src.AddBlock(diagram.BlockInput, diagram.WithText(`say "hi"`))
	d, _ := src.AddBlock(diagram.BlockOutput)
	for _, pair := range [][2]string{{a.ID, b.ID}, {b.ID, c.ID}, {c.ID, d.ID}} {
		_, err := src.Connect(pair[0], pair[1])
		require.NoError(t, err)
	}

	text, err := export.NewMermaidExporter().Export(src)
	require.NoError(t, err)

	fc, err := NewRegistry().Import(text)
	require.NoError(t, err)
	assert.Equal(t, "Plan", fc.Metadata.Name)
	require.Len(t, fc.Blocks, 4)
	for i, blk := range fc.Blocks {
		assert.Equal(t, src.Blocks[i].Type, blk.Type)
		assert.Equal(t, src.Blocks[i].Text, blk.Text)
	}
	assert.Len(t, fc.Connections, 3)
}

func TestRegistryDetect(t *testing.T) {
	r := NewRegistry()
	tests := map[string]string{
		`{"blocks": [], "connections": []}`: "JSON",
		"flowchart TD\n a --> b":             "Mermaid",
		"---\ntitle: x\n---\ngraph TD\n":     "Mermaid",
		"blocks: []\nconnections: []\n":      "YAML",
	}
	for content, want := range tests {
		imp, err := r.Detect(content)
		require.NoError(t, err, content)
		assert.Equal(t, want, imp.FormatName())
	}

	_, err := r.Detect("hello")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	for format, want := range map[string]string{"json": "JSON", "yml": "YAML", ".mmd": "Mermaid", "Mermaid": "Mermaid"} {
		imp, err := r.Lookup(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, imp.FormatName())
	}
	_, err := r.ImportWithFormat("", "d2")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Equal(t, []string{"JSON", "Mermaid", "YAML"}, r.AvailableFormats())
}
