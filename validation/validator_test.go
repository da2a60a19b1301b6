package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/diagram"
)

func codes(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func validChart(t *testing.T) *diagram.Flowchart {
	t.Helper()
	fc := diagram.New()
	a, err := fc.AddBlock(diagram.BlockStart, diagram.At(diagram.Position{X: 0, Y: 0}))
	require.NoError(t, err)
	b, err := fc.AddBlock(diagram.BlockDecision, diagram.At(diagram.Position{X: 200, Y: 150}))
	require.NoError(t, err)
	c, err := fc.AddBlock(diagram.BlockOutput, diagram.At(diagram.Position{X: 0, Y: 400}))
	require.NoError(t, err)
	_, err = fc.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = fc.Connect(b.ID, c.ID)
	require.NoError(t, err)
	return fc
}

func TestValidFlowchart(t *testing.T) {
	issues := Validate(validChart(t))
	assert.Empty(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestValidateNil(t *testing.T) {
	issues := Validate(nil)
	require.Len(t, issues, 1)
	assert.True(t, HasErrors(issues))
}

func TestBlockIssues(t *testing.T) {
	fc := validChart(t)
	fc.Blocks = append(fc.Blocks, fc.Blocks[0])
	fc.Blocks[1].Type = "cloud"
	fc.Blocks[2].Width = 0

	issues := Validate(fc)
	assert.Equal(t, []string{CodeUnknownType, CodeInvalidSize, CodeDuplicateBlock}, codes(issues))
	assert.True(t, HasErrors(issues))
	assert.Equal(t, "block-2", issues[0].Subject)
}

func TestNextIDIssue(t *testing.T) {
	fc := validChart(t)
	fc.NextID = 3

	issues := Validate(fc)
	require.Len(t, issues, 1)
	assert.Equal(t, CodeNextID, issues[0].Code)
	assert.Equal(t, "error [next-id] next ID 3 would reuse block-3", issues[0].String())
}

func TestConnectionIssues(t *testing.T) {
	fc := validChart(t)
	fc.Connections = append(fc.Connections,
		diagram.Connection{ID: "conn-block-1-block-9", From: "block-1", To: "block-9"},
		diagram.Connection{ID: "conn-block-2-block-2", From: "block-2", To: "block-2"},
		fc.Connections[0],
	)
	fc.Connections[1].ID = "edge"

	issues := Validate(fc)
	assert.Equal(t, []string{
		CodeConnectionID,
		CodeDanglingEndpoint,
		CodeSelfConnection,
		CodeDuplicateConnection,
	}, codes(issues))

	assert.Equal(t, Warning, issues[0].Severity)
	assert.Equal(t, "expected ID conn-block-2-block-3", issues[0].Message)
	assert.Equal(t, `target "block-9" does not exist`, issues[1].Message)
	assert.Equal(t, "repeats connection conn-block-1-block-2", issues[3].Message)
}

func TestStaleGeometry(t *testing.T) {
	fc := validChart(t)
	// Move a block without rerouting its connectors.
	fc.Blocks[1].Position.X += 40

	issues := Validate(fc)
	assert.Equal(t, []string{CodeStaleGeometry, CodeStaleGeometry}, codes(issues))
	assert.False(t, HasErrors(issues))

	fc.Reroute()
	assert.Empty(t, Validate(fc))
}

func TestTolerance(t *testing.T) {
	fc := validChart(t)
	fc.Connections[0].FromPosition.Y += 0.4
	assert.Empty(t, Validate(fc))

	strict := &Validator{Tolerance: 0.1}
	assert.Equal(t, []string{CodeStaleGeometry}, codes(strict.Validate(fc)))
}

func TestSeverityText(t *testing.T) {
	b, err := Error.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(b))
	assert.Equal(t, "warning", Warning.String())
}
