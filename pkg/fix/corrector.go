package fix

import (
	"errors"
	"fmt"
)

// ErrCorrectorApplied is returned when edits are added after Apply.
var ErrCorrectorApplied = errors.New("corrector already applied")

// Corrector accumulates edits against one immutable source buffer and
// applies them all at once.
//
// Identical edits recorded by different diagnostics collapse into one.
// Distinct overlapping edits fail the whole batch: Apply returns a
// *ConflictError and no edit is applied.
type Corrector struct {
	content []byte
	edits   []TextEdit
	applied bool
}

// NewCorrector creates a Corrector for content.
func NewCorrector(content []byte) *Corrector {
	return &Corrector{content: content}
}

// Source returns the original, unmodified content.
func (c *Corrector) Source() []byte {
	return c.content
}

// Replace records replacing bytes [start, end) with text.
func (c *Corrector) Replace(start, end int, text string) {
	c.edits = append(c.edits, TextEdit{StartOffset: start, EndOffset: end, NewText: text})
}

// InsertBefore records inserting text at offset.
func (c *Corrector) InsertBefore(offset int, text string) {
	c.Replace(offset, offset, text)
}

// Remove records deleting bytes [start, end).
func (c *Corrector) Remove(start, end int) {
	c.Replace(start, end, "")
}

// Edits returns a copy of the recorded edits in recording order.
func (c *Corrector) Edits() []TextEdit {
	return append([]TextEdit(nil), c.edits...)
}

// Len returns the number of recorded edits.
func (c *Corrector) Len() int {
	return len(c.edits)
}

// Prepared returns the validated, sorted, deduplicated edits without
// applying them.
func (c *Corrector) Prepared() ([]TextEdit, error) {
	prepared, err := PrepareEdits(c.edits, len(c.content))
	if err != nil {
		return nil, fmt.Errorf("prepare corrections: %w", err)
	}
	return prepared, nil
}

// Apply validates and applies every recorded edit. On any validation or
// conflict error the original content is returned unchanged along with the
// error. Apply may only be called once.
func (c *Corrector) Apply() ([]byte, error) {
	if c.applied {
		return c.content, ErrCorrectorApplied
	}
	c.applied = true

	prepared, err := c.Prepared()
	if err != nil {
		return c.content, err
	}

	return ApplyEdits(c.content, prepared), nil
}
