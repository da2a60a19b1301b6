// Package diagram contains the flowchart model: typed blocks, the
// connections between them, and the operations that keep connector
// geometry in step with block positions.
package diagram

import (
	"fmt"
	"math"
	"strings"

	"flowedit/geometry"
)

// BlockType is the role of a block in a flowchart.
type BlockType string

// Block type constants
const (
	BlockStart    BlockType = "start"
	BlockProcess  BlockType = "process"
	BlockDecision BlockType = "decision"
	BlockEnd      BlockType = "end"
	BlockInput    BlockType = "input"
	BlockOutput   BlockType = "output"
)

// BlockTypes lists every block type in toolbar order.
var BlockTypes = []BlockType{BlockStart, BlockProcess, BlockDecision, BlockInput, BlockOutput, BlockEnd}

// ParseBlockType converts a string to a BlockType.
func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBlockType, s)
	}
	return t, nil
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	for _, known := range BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultSize returns the width and height a new block of this type gets.
func (t BlockType) DefaultSize() (width, height float64) {
	switch t {
	case BlockDecision:
		return 120, 120
	case BlockStart, BlockEnd:
		return 120, 50
	default:
		return 150, 60
	}
}

// DefaultText returns the label a new block of this type gets.
func (t BlockType) DefaultText() string {
	switch t {
	case BlockStart:
		return "Start"
	case BlockEnd:
		return "End"
	case BlockDecision:
		return "Decision?"
	case BlockProcess:
		return "Process"
	case BlockInput:
		return "Input"
	case BlockOutput:
		return "Output"
	default:
		return "New Block"
	}
}

// skewAngle is the slant of input/output blocks.
const skewAngle = 20 * math.Pi / 180

// Position is a top-left corner or a connector endpoint in canvas pixels.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Point converts the position to a geometry point.
func (p Position) Point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// PositionOf converts a geometry point to a position.
func PositionOf(p geometry.Point) Position {
	return Position{X: p.X, Y: p.Y}
}

// Block is a box in the flowchart.
type Block struct {
	ID       string    `json:"id" yaml:"id"`
	Type     BlockType `json:"type" yaml:"type"`
	Text     string    `json:"text" yaml:"text"`
	Position Position  `json:"position" yaml:"position"`
	Width    float64   `json:"width" yaml:"width"`
	Height   float64   `json:"height" yaml:"height"`
}

// Center returns the center point of the block.
func (b Block) Center() geometry.Point {
	return geometry.Point{X: b.Position.X + b.Width/2, Y: b.Position.Y + b.Height/2}
}

// Shape returns the outline connectors attach to. Decisions are diamonds,
// inputs and outputs are parallelograms slanted opposite ways, and every
// other block is a rectangle.
func (b Block) Shape() geometry.Shape {
	c := b.Center()
	hw, hh := b.Width/2, b.Height/2
	switch b.Type {
	case BlockDecision:
		return geometry.NewDiamond(c.X, c.Y, hw, hh)
	case BlockInput:
		return geometry.NewParallelogram(c.X, c.Y, hw, hh, hh*math.Tan(skewAngle))
	case BlockOutput:
		return geometry.NewParallelogram(c.X, c.Y, hw, hh, -hh*math.Tan(skewAngle))
	default:
		return geometry.NewRect(c.X, c.Y, hw, hh)
	}
}

// Connection is a directed edge between two blocks. The endpoint positions
// are cached so renderers do not need the blocks to draw the line.
type Connection struct {
	ID           string   `json:"id" yaml:"id"`
	From         string   `json:"from" yaml:"from"`
	To           string   `json:"to" yaml:"to"`
	FromPosition Position `json:"fromPosition" yaml:"fromPosition"`
	ToPosition   Position `json:"toPosition" yaml:"toPosition"`
}

// ConnectionID returns the identifier a connection between two blocks gets.
func ConnectionID(from, to string) string {
	return fmt.Sprintf("conn-%s-%s", from, to)
}

// Metadata contains optional flowchart metadata.
type Metadata struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Created string `json:"created,omitempty" yaml:"created,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Flowchart is a complete flowchart document.
type Flowchart struct {
	Blocks      []Block      `json:"blocks" yaml:"blocks"`
	Connections []Connection `json:"connections" yaml:"connections"`
	NextID      int          `json:"nextId,omitempty" yaml:"nextId,omitempty"`
	Metadata    Metadata     `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	canvasWidth, canvasHeight float64
}

// Clone creates a deep copy of the flowchart.
func (f *Flowchart) Clone() *Flowchart {
	if f == nil {
		return nil
	}
	clone := *f
	clone.Blocks = make([]Block, len(f.Blocks))
	copy(clone.Blocks, f.Blocks)
	clone.Connections = make([]Connection, len(f.Connections))
	copy(clone.Connections, f.Connections)
	return &clone
}
