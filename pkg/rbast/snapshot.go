// Package rbast provides the Ruby syntax tree representation for gorblint.
// It defines a lossless view of a Ruby source file:
// - FileSnapshot: the complete file representation
// - Node: typed tree nodes with byte ranges and parent/child navigation
// - Walk helpers for pre-order traversal
package rbast

import (
	"fmt"
	"sort"
)

// FileSnapshot is an immutable view of a Ruby file at a specific time.
type FileSnapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Root is the AST root node (program).
	Root *Node

	// SyntaxErrors is true when the parser recovered from malformed input.
	// The tree is still complete; damaged regions become NodeOther.
	SyntaxErrors bool
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline, this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewFileSnapshot creates a snapshot with a line index but no tree.
func NewFileSnapshot(path string, content []byte) *FileSnapshot {
	return &FileSnapshot{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
	}
}

// BuildLines constructs line metadata from file content.
// It handles both LF and CRLF line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	if lineStart < len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Returns (0, 0) if the offset is out of range.
func (f *FileSnapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 || offset > len(f.Content) {
		return 0, 0
	}

	if offset == len(f.Content) {
		last := f.Lines[len(f.Lines)-1]
		if last.EndOffset > last.NewlineStart {
			// Content ends with a newline; the offset starts a new, empty line.
			return len(f.Lines) + 1, 1
		}
		return len(f.Lines), offset - last.StartOffset + 1
	}

	lineIdx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})
	if lineIdx >= len(f.Lines) {
		return 0, 0
	}

	return lineIdx + 1, offset - f.Lines[lineIdx].StartOffset + 1
}

// Line returns the content of the 1-based line without its newline.
func (f *FileSnapshot) Line(lineNum int) []byte {
	if lineNum < 1 || lineNum > len(f.Lines) {
		return nil
	}
	info := f.Lines[lineNum-1]
	return f.Content[info.StartOffset:info.NewlineStart]
}

// Validate checks that every node lies inside its parent and that siblings
// are ordered and do not overlap.
func (f *FileSnapshot) Validate() error {
	if f.Root == nil {
		return fmt.Errorf("snapshot %s has no root", f.Path)
	}
	return Walk(f.Root, func(n *Node) error {
		if n.Start < 0 || n.End < n.Start || n.End > len(f.Content) {
			return fmt.Errorf("%s node [%d:%d] outside content of length %d",
				n.Kind, n.Start, n.End, len(f.Content))
		}
		prevEnd := n.Start
		for _, child := range n.Children {
			if child.Start < prevEnd || child.End > n.End {
				return fmt.Errorf("%s child [%d:%d] escapes %s parent [%d:%d] or overlaps a sibling",
					child.Kind, child.Start, child.End, n.Kind, n.Start, n.End)
			}
			prevEnd = child.End
		}
		return nil
	})
}
