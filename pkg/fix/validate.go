package fix

import (
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes two distinct edits that touch the same bytes.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits checks every edit range against contentLen and returns the
// first invalid one.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits orders edits by start offset, then end offset, then text, so
// identical edits end up adjacent.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		if a.EndOffset != b.EndOffset {
			return a.EndOffset - b.EndOffset
		}
		switch {
		case a.NewText < b.NewText:
			return -1
		case a.NewText > b.NewText:
			return 1
		default:
			return 0
		}
	})
}

// Dedupe collapses byte-identical adjacent edits in a sorted slice.
func Dedupe(edits []TextEdit) []TextEdit {
	return slices.Compact(edits)
}

// DetectConflicts returns the first pair of overlapping edits in a sorted,
// deduplicated slice, or nil.
func DetectConflicts(edits []TextEdit) error {
	if len(edits) == 0 {
		return nil
	}
	// widest is the edit reaching furthest right so far.
	widest := edits[0]
	for _, edit := range edits[1:] {
		if widest.Overlaps(edit) {
			return &ConflictError{Edit1: widest, Edit2: edit}
		}
		if edit.EndOffset >= widest.EndOffset {
			widest = edit
		}
	}
	return nil
}

// PrepareEdits validates, sorts, deduplicates, and conflict-checks edits.
// The input slice is not modified. Any conflict fails the whole set.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := slices.Clone(edits)
	SortEdits(result)
	result = Dedupe(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
