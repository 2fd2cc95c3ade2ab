package pretty

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line, e.g.
// "3 issues (1 error, 2 warnings) in 2 files, 2 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(" ("+english.Plural(stats.FilesProcessed, "file", "")+" checked)")
		if stats.EditsApplied > 0 && stats.FilesModified > 0 {
			msg += ", " + s.Success.Render(s.fixedPhrase(stats))
		}
		return msg + "\n"
	}

	var severityParts []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		severityParts = append(severityParts, s.Error.Render(english.Plural(n, "error", "")))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		severityParts = append(severityParts, s.Warning.Render(english.Plural(n, "warning", "")))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}

	head := english.Plural(stats.DiagnosticsTotal, "issue", "")
	if len(severityParts) > 0 {
		head += " (" + strings.Join(severityParts, ", ") + ")"
	}

	parts := []string{head + " in " + english.Plural(stats.FilesWithIssues, "file", "")}
	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(humanize.Comma(int64(stats.DiagnosticsFixable))+" fixable"))
	}
	if stats.EditsApplied > 0 && stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(s.fixedPhrase(stats)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(english.Plural(stats.FilesErrored, "file", "")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) fixedPhrase(stats runner.Stats) string {
	return fmt.Sprintf("%s applied in %s",
		english.Plural(stats.EditsApplied, "correction", ""),
		english.Plural(stats.FilesModified, "file", ""))
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value int, style func(...string) string) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label, style(humanize.Comma(int64(value))))
	}

	builder.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked:", stats.FilesProcessed, s.SummaryValue.Render)
	if stats.FilesWithIssues > 0 {
		row("Files with issues:", stats.FilesWithIssues, s.Failure.Render)
	}
	if stats.FilesModified > 0 {
		row("Files modified:", stats.FilesModified, s.Success.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed:", stats.FilesErrored, s.Failure.Render)
	}
	builder.WriteString("\n")

	row("Total issues:", stats.DiagnosticsTotal, s.SummaryValue.Render)
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		row("  Errors:", n, s.Error.Render)
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		row("  Warnings:", n, s.Warning.Render)
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		row("  Info:", n, s.Info.Render)
	}
	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.DiagnosticsBySeverity[config.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
