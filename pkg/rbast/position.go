package rbast

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Overlaps returns true if both ranges share at least one byte.
func (r SourceRange) Overlaps(other SourceRange) bool {
	return r.StartOffset < other.EndOffset && other.StartOffset < r.EndOffset
}

// SourcePosition represents a range in terms of 1-based line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 &&
		sp.EndLine > 0 && sp.EndColumn > 0
}

// PositionOf converts a byte range to line/column positions in the file.
func (f *FileSnapshot) PositionOf(r SourceRange) SourcePosition {
	startLine, startCol := f.LineAt(r.StartOffset)
	endLine, endCol := f.LineAt(r.EndOffset)
	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// SourcePosition returns the line/column range for this node.
// Returns an invalid position if the node has no associated file.
func (n *Node) SourcePosition() SourcePosition {
	if n.File == nil {
		return SourcePosition{}
	}
	return n.File.PositionOf(n.Range())
}
