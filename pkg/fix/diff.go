package fix

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff represents a unified diff between original and modified content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// Hunks contains the diff hunks.
	Hunks []DiffHunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// DiffHunk represents a single hunk in a unified diff.
type DiffHunk struct {
	// OriginalStart is the 1-based line number where the hunk starts in the original.
	OriginalStart int

	// OriginalCount is the number of lines from the original in this hunk.
	OriginalCount int

	// ModifiedStart is the 1-based line number where the hunk starts in the modified.
	ModifiedStart int

	// ModifiedCount is the number of lines from the modified in this hunk.
	ModifiedCount int

	// Lines contains the diff lines in this hunk.
	Lines []DiffLine
}

// DiffLine represents a single line in a diff hunk.
type DiffLine struct {
	// Kind indicates whether this is a context, add, or remove line.
	Kind DiffLineKind

	// Content is the line content (without the diff prefix).
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if string(original) == string(modified) {
		return nil
	}

	ops := lineOps(string(original), string(modified))
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    hunks,
	}
	for _, op := range ops {
		switch op.kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		case DiffLineContext:
		}
	}

	return diff
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)

		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineContext:
				fmt.Fprintf(&builder, " %s\n", line.Content)
			case DiffLineAdd:
				fmt.Fprintf(&builder, "+%s\n", line.Content)
			case DiffLineRemove:
				fmt.Fprintf(&builder, "-%s\n", line.Content)
			}
		}
	}

	return builder.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if d == nil || len(d.Hunks) == 0 {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// diffOp is one line of the full line-level edit script.
type diffOp struct {
	kind    DiffLineKind
	content string
}

// lineOps computes a line-level edit script with diffmatchpatch in line mode.
func lineOps(original, modified string) []diffOp {
	dmp := diffmatchpatch.New()
	origRunes, modRunes, lineArray := dmp.DiffLinesToRunes(original, modified)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(origRunes, modRunes, false), lineArray)

	var ops []diffOp
	for _, d := range diffs {
		kind := DiffLineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = DiffLineAdd
		case diffmatchpatch.DiffDelete:
			kind = DiffLineRemove
		case diffmatchpatch.DiffEqual:
		}
		for _, line := range splitLines(d.Text) {
			ops = append(ops, diffOp{kind: kind, content: line})
		}
	}
	return ops
}

// splitLines splits text into lines without their newline characters.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// groupHunks splits the edit script into hunks, keeping contextLines of
// unchanged lines around each change and merging changes whose context
// would touch.
func groupHunks(ops []diffOp) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(ops) {
		if ops[idx].kind == DiffLineContext {
			idx++
			continue
		}

		first := idx
		last := idx
		for scan := idx + 1; scan < len(ops) && scan-last <= 2*contextLines; scan++ {
			if ops[scan].kind != DiffLineContext {
				last = scan
			}
		}

		start := max(first-contextLines, 0)
		end := min(last+contextLines+1, len(ops))
		hunks = append(hunks, buildHunk(ops, start, end))
		idx = end
	}

	return hunks
}

// buildHunk builds the hunk covering ops[start:end].
func buildHunk(ops []diffOp, start, end int) DiffHunk {
	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}

	for _, op := range ops[start:end] {
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
		if op.kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}

	// Unified diff reports an empty side as starting one line earlier.
	if hunk.OriginalCount == 0 {
		hunk.OriginalStart--
	}
	if hunk.ModifiedCount == 0 {
		hunk.ModifiedStart--
	}

	return hunk
}
