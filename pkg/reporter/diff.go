package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/yaklabco/gorblint/internal/ui/pretty"
	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/runner"
)

// DiffReporter prints the corrections of a dry run as unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. It returns the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(r.opts.displayPath(file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		filesWithDiffs++
		additions += diff.Additions
		deletions += diff.Deletions
		r.writeDiff(r.opts.displayPath(file.Path), diff)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, additions, deletions)
	}

	return filesWithDiffs, nil
}

// writeDiff outputs a single file's diff in git style.
func (r *DiffReporter) writeDiff(displayPath string, diff *fix.Diff) {
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+displayPath))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+displayPath))

	// String() repeats the file headers; only its hunks are kept.
	for _, line := range strings.Split(diff.String(), "\n") {
		if line == "" || strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		r.writeDiffLine(line)
	}

	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) writeDiffLine(line string) {
	var styled string
	switch {
	case strings.HasPrefix(line, "@@"):
		styled = r.styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		styled = r.styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		styled = r.styles.DiffRemove.Render(line)
	default:
		styled = r.styles.DiffContext.Render(line)
	}
	fmt.Fprintln(r.bw, styled)
}

// writeSummary writes a git-style stat line.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{english.Plural(files, "file", "") + " changed"}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(english.Plural(additions, "insertion", "")+"(+)"))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(english.Plural(deletions, "deletion", "")+"(-)"))
	}
	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}
