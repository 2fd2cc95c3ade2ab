// Package fix provides text edits, conflict detection, and the Corrector used
// by rules to rewrite Ruby source.
package fix

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsInsert reports whether the edit only inserts text.
func (e TextEdit) IsInsert() bool {
	return e.StartOffset == e.EndOffset
}

// Overlaps reports whether two edits touch the same bytes. Two insertions
// at the same offset overlap since their relative order is undefined.
func (e TextEdit) Overlaps(other TextEdit) bool {
	if e.IsInsert() && other.IsInsert() {
		return e.StartOffset == other.StartOffset
	}
	return e.StartOffset < other.EndOffset && other.StartOffset < e.EndOffset
}

// IsNoop reports whether applying the edit to content changes nothing.
func (e TextEdit) IsNoop(content []byte) bool {
	if e.StartOffset < 0 || e.EndOffset > len(content) || e.StartOffset > e.EndOffset {
		return false
	}
	return string(content[e.StartOffset:e.EndOffset]) == e.NewText
}
