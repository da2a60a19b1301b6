// Package validation checks a flowchart for structural problems that the
// editing operations would never produce but imported or hand-edited
// documents can contain.
package validation

import (
	"fmt"

	"flowedit/diagram"
	"flowedit/geometry"
)

// Severity ranks an issue.
type Severity int

const (
	// Warning marks an issue the editor can repair on its own.
	Warning Severity = iota
	// Error marks an issue that makes the document unsafe to edit.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue codes
const (
	CodeDuplicateBlock      = "duplicate-block-id"
	CodeUnknownType         = "unknown-block-type"
	CodeInvalidSize         = "invalid-size"
	CodeDanglingEndpoint    = "dangling-endpoint"
	CodeSelfConnection      = "self-connection"
	CodeDuplicateConnection = "duplicate-connection"
	CodeConnectionID        = "connection-id-mismatch"
	CodeStaleGeometry       = "stale-geometry"
	CodeNextID              = "next-id"
)

// DefaultTolerance is how far, in pixels, a cached connector endpoint may
// sit from its block outline.
const DefaultTolerance = 0.5

// Issue is a single validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Subject == "" {
		return fmt.Sprintf("%s [%s] %s", i.Severity, i.Code, i.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Code, i.Subject, i.Message)
}

// Validator checks flowcharts.
type Validator struct {
	// Tolerance for the connector geometry check, in pixels.
	Tolerance float64

	issues []Issue
}

// NewValidator creates a validator with the default tolerance.
func NewValidator() *Validator {
	return &Validator{Tolerance: DefaultTolerance}
}

// Validate checks fc with the default settings.
func Validate(fc *diagram.Flowchart) []Issue {
	return NewValidator().Validate(fc)
}

// Validate returns every issue found in fc, blocks first and then
// connections, each in document order.
func (v *Validator) Validate(fc *diagram.Flowchart) []Issue {
	v.issues = nil
	if fc == nil {
		v.add(Error, "", "", "flowchart is nil")
		return v.issues
	}

	blocks := make(map[string]diagram.Block, len(fc.Blocks))
	for _, b := range fc.Blocks {
		if _, dup := blocks[b.ID]; dup {
			v.add(Error, CodeDuplicateBlock, b.ID, "block ID is used more than once")
			continue
		}
		blocks[b.ID] = b
		if !b.Type.Valid() {
			v.add(Error, CodeUnknownType, b.ID, "unknown block type %q", b.Type)
		}
		if b.Width <= 0 || b.Height <= 0 {
			v.add(Error, CodeInvalidSize, b.ID, "size %gx%g is not positive", b.Width, b.Height)
		}
	}

	if max := fc.MaxBlockNumber(); fc.NextID <= max {
		v.add(Error, CodeNextID, "", "next ID %d would reuse block-%d", fc.NextID, max)
	}

	pairs := make(map[[2]string]string, len(fc.Connections))
	for _, c := range fc.Connections {
		from, okFrom := blocks[c.From]
		to, okTo := blocks[c.To]
		if !okFrom {
			v.add(Error, CodeDanglingEndpoint, c.ID, "source %q does not exist", c.From)
		}
		if !okTo {
			v.add(Error, CodeDanglingEndpoint, c.ID, "target %q does not exist", c.To)
		}
		if c.From == c.To {
			v.add(Error, CodeSelfConnection, c.ID, "block is connected to itself")
		}

		key := [2]string{c.From, c.To}
		if first, dup := pairs[key]; dup {
			v.add(Error, CodeDuplicateConnection, c.ID, "repeats connection %s", first)
		} else {
			pairs[key] = c.ID
		}
		if want := diagram.ConnectionID(c.From, c.To); c.ID != want {
			v.add(Warning, CodeConnectionID, c.ID, "expected ID %s", want)
		}

		if okFrom && okTo && c.From != c.To {
			v.checkGeometry(c, from, to)
		}
	}
	return v.issues
}

// checkGeometry reports cached endpoints that no longer sit on the outline
// of their block.
func (v *Validator) checkGeometry(c diagram.Connection, from, to diagram.Block) {
	tol := v.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	// Blocks already reported as malformed have no reliable outline.
	for _, b := range []diagram.Block{from, to} {
		if !b.Type.Valid() || b.Width <= 0 || b.Height <= 0 {
			return
		}
	}
	if !geometry.OnBoundary(from.Shape(), c.FromPosition.Point(), tol) {
		v.add(Warning, CodeStaleGeometry, c.ID, "start (%g, %g) is off the outline of %s",
			c.FromPosition.X, c.FromPosition.Y, from.ID)
	}
	if !geometry.OnBoundary(to.Shape(), c.ToPosition.Point(), tol) {
		v.add(Warning, CodeStaleGeometry, c.ID, "end (%g, %g) is off the outline of %s",
			c.ToPosition.X, c.ToPosition.Y, to.ID)
	}
}

func (v *Validator) add(sev Severity, code, subject, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}
