package pretty

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/yaklabco/gorblint/pkg/analysis"
	"github.com/yaklabco/gorblint/pkg/config"
)

// FormatRuleBreakdown renders one line per rule with its issue count, the
// number of files it fired in, and how many offenses are fixable.
func (s *Styles) FormatRuleBreakdown(rows []analysis.RuleStats, ruleFormat config.RuleFormat) string {
	if len(rows) == 0 {
		return ""
	}

	labels := make([]string, len(rows))
	width := 0
	for i, row := range rows {
		labels[i] = config.FormatRuleID(ruleFormat, row.RuleID, row.RuleName)
		width = max(width, len(labels[i]))
	}

	var builder strings.Builder
	builder.WriteString("\n" + s.SummaryTitle.Render("Rules") + "\n")
	for i, row := range rows {
		style := s.Warning
		switch {
		case row.Errors > 0:
			style = s.Error
		case row.Warnings == 0:
			style = s.Info
		}

		line := fmt.Sprintf("%s in %s",
			english.Plural(row.Issues, "issue", ""),
			english.Plural(len(row.Files), "file", ""))
		if row.Fixable > 0 {
			line += s.Dim.Render(fmt.Sprintf(" (%d fixable)", row.Fixable))
		}
		fmt.Fprintf(&builder, "  %s  %s\n",
			s.RuleID.Render(fmt.Sprintf("%-*s", width, labels[i])),
			style.Render(line))
	}
	return builder.String()
}
