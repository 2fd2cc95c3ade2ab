package pretty

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	path:line:col  severity  message  (rule)
//
// followed by the source line with a caret when sourceLine is given, and the
// suggestion if any.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, sourceLine string, ruleFormat config.RuleFormat) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	rule := s.RuleID.Render("(" + config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName) + ")")

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		rule,
	)

	if sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret under column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	// Tabs would shift the caret.
	line = strings.ReplaceAll(line, "\t", " ")

	var builder strings.Builder
	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		builder.WriteString(contextIndent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(" (" + english.Plural(issueCount, "issue", "") + ")")
	}
	return header
}
