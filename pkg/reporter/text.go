package reporter

import (
	"bufio"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/gorblint/internal/ui/pretty"
	"github.com/yaklabco/gorblint/pkg/analysis"
	"github.com/yaklabco/gorblint/pkg/runner"
)

// TextReporter formats results as styled terminal output grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	switch {
	case r.opts.Statistics:
		breakdown := analysis.Analyze(result, r.opts.WorkingDir, r.opts.SortBy)
		fmt.Fprint(r.bw, r.styles.FormatRuleBreakdown(breakdown.ByRule, r.opts.RuleFormat))
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	case r.opts.ShowSummary:
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's problems and returns its diagnostic count.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	pr := file.Result
	if pr == nil || pr.FileResult == nil {
		return 0
	}

	if pr.Skipped {
		fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Warning.Render(pr.Summary()))
	}
	for _, ruleID := range slices.Sorted(maps.Keys(pr.RuleErrors)) {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("rule %s failed: %v", ruleID, pr.RuleErrors[ruleID])),
		)
	}
	if pr.EditConflicts {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Warning.Render(fmt.Sprintf("corrections skipped: %v", pr.CorrectionErr)),
		)
	}

	if len(pr.Diagnostics) == 0 {
		return 0
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(pr.Diagnostics)))
	for i := range pr.Diagnostics {
		diag := pr.Diagnostics[i]
		diag.FilePath = path

		var sourceLine string
		if r.opts.ShowContext && pr.Snapshot != nil {
			sourceLine = string(pr.Snapshot.Line(diag.StartLine))
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag, sourceLine, r.opts.RuleFormat))
	}
	fmt.Fprintln(r.bw)

	return len(pr.Diagnostics)
}
