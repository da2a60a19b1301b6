package diagram

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"flowedit/geometry"
)

// Default canvas size new blocks are centered in.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// Option configures a new Flowchart.
type Option func(*Flowchart)

// WithCanvas sets the canvas size used to place new blocks.
func WithCanvas(width, height float64) Option {
	return func(f *Flowchart) {
		f.canvasWidth, f.canvasHeight = width, height
	}
}

// WithName sets the flowchart name.
func WithName(name string) Option {
	return func(f *Flowchart) {
		f.Metadata.Name = name
	}
}

// New creates an empty flowchart.
func New(opts ...Option) *Flowchart {
	f := &Flowchart{
		Blocks:      []Block{},
		Connections: []Connection{},
		NextID:      1,
		Metadata: Metadata{
			ID:      uuid.NewString(),
			Created: time.Now().UTC().Format(time.RFC3339),
			Version: "1",
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetCanvas changes the canvas size used to place new blocks.
func (f *Flowchart) SetCanvas(width, height float64) {
	f.canvasWidth, f.canvasHeight = width, height
}

func (f *Flowchart) canvas() (width, height float64) {
	if f.canvasWidth <= 0 || f.canvasHeight <= 0 {
		return DefaultCanvasWidth, DefaultCanvasHeight
	}
	return f.canvasWidth, f.canvasHeight
}

// BlockOption adjusts a block before it is added.
type BlockOption func(*Block)

// At places the block's top-left corner at pos instead of centering it.
func At(pos Position) BlockOption {
	return func(b *Block) {
		b.Position = pos
	}
}

// WithText overrides the default label.
func WithText(text string) BlockOption {
	return func(b *Block) {
		b.Text = text
	}
}

// WithSize overrides the default size.
func WithSize(width, height float64) BlockOption {
	return func(b *Block) {
		b.Width, b.Height = width, height
	}
}

// AddBlock adds a block of the given type and returns it. By default the
// block gets its type's size and label and is centered in the canvas.
func (f *Flowchart) AddBlock(t BlockType, opts ...BlockOption) (Block, error) {
	if !t.Valid() {
		return Block{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, t)
	}
	if f.NextID < 1 {
		f.NextID = 1
	}

	w, h := t.DefaultSize()
	cw, ch := f.canvas()
	b := Block{
		ID:       fmt.Sprintf("%s%d", blockPrefix, f.NextID),
		Type:     t,
		Text:     t.DefaultText(),
		Position: Position{X: cw/2 - w/2, Y: ch/2 - h/2},
		Width:    w,
		Height:   h,
	}
	for _, opt := range opts {
		opt(&b)
	}

	f.NextID++
	f.Blocks = append(f.Blocks, b)
	return b, nil
}

func (f *Flowchart) blockIndex(id string) int {
	for i := range f.Blocks {
		if f.Blocks[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Flowchart) connectionIndex(id string) int {
	for i := range f.Connections {
		if f.Connections[i].ID == id {
			return i
		}
	}
	return -1
}

// Block returns the block with the given ID.
func (f *Flowchart) Block(id string) (Block, bool) {
	if i := f.blockIndex(id); i >= 0 {
		return f.Blocks[i], true
	}
	return Block{}, false
}

// Connection returns the connection with the given ID.
func (f *Flowchart) Connection(id string) (Connection, bool) {
	if i := f.connectionIndex(id); i >= 0 {
		return f.Connections[i], true
	}
	return Connection{}, false
}

// ConnectionsOf returns the connections that start or end at the block.
func (f *Flowchart) ConnectionsOf(id string) []Connection {
	var conns []Connection
	for _, c := range f.Connections {
		if c.From == id || c.To == id {
			conns = append(conns, c)
		}
	}
	return conns
}

// MoveBlock moves a block's top-left corner and reroutes every connection
// attached to it.
func (f *Flowchart) MoveBlock(id string, pos Position) error {
	i := f.blockIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	f.Blocks[i].Position = pos
	for j := range f.Connections {
		c := &f.Connections[j]
		if c.From == id || c.To == id {
			f.route(c)
		}
	}
	return nil
}

// SetText replaces a block's label.
func (f *Flowchart) SetText(id, text string) error {
	i := f.blockIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	f.Blocks[i].Text = text
	return nil
}

// DeleteBlock removes a block together with its connections.
func (f *Flowchart) DeleteBlock(id string) error {
	i := f.blockIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)

	kept := f.Connections[:0]
	for _, c := range f.Connections {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	f.Connections = kept
	return nil
}

// Connect adds a connection from one block to another. A block cannot be
// connected to itself and each ordered pair is connected at most once.
func (f *Flowchart) Connect(from, to string) (Connection, error) {
	if from == to {
		return Connection{}, fmt.Errorf("%w: %s", ErrSelfConnection, from)
	}
	for _, id := range []string{from, to} {
		if f.blockIndex(id) < 0 {
			return Connection{}, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
		}
	}
	for _, c := range f.Connections {
		if c.From == from && c.To == to {
			return Connection{}, fmt.Errorf("%w: %s", ErrDuplicateConnection, c.ID)
		}
	}

	c := Connection{ID: ConnectionID(from, to), From: from, To: to}
	f.route(&c)
	f.Connections = append(f.Connections, c)
	return c, nil
}

// Disconnect removes a connection.
func (f *Flowchart) Disconnect(id string) error {
	i := f.connectionIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
	}
	f.Connections = append(f.Connections[:i], f.Connections[i+1:]...)
	return nil
}

// Clear removes every block and connection. NextID keeps counting so IDs
// are never reused within a document.
func (f *Flowchart) Clear() {
	f.Blocks = []Block{}
	f.Connections = []Connection{}
}

// Reroute recomputes the endpoints of every connection.
func (f *Flowchart) Reroute() {
	for i := range f.Connections {
		f.route(&f.Connections[i])
	}
}

// ConnectionPoints returns where a connector between two blocks meets
// each of their outlines.
func ConnectionPoints(from, to Block) (Position, Position) {
	a, b := geometry.Connect(from.Shape(), to.Shape())
	return PositionOf(a), PositionOf(b)
}

// route updates a connection's cached endpoints. Endpoints of a connection
// whose blocks are missing are left untouched.
func (f *Flowchart) route(c *Connection) {
	from, ok := f.Block(c.From)
	if !ok {
		return
	}
	to, ok := f.Block(c.To)
	if !ok {
		return
	}
	c.FromPosition, c.ToPosition = ConnectionPoints(from, to)
}
