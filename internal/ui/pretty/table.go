package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	fixableSymbol    = "yes"
	columnGap        = "  "
	defaultTermWidth = 100
	minDescWidth     = 20
)

// RuleRow is one line of the rule listing.
type RuleRow struct {
	Rule        string
	Severity    string
	Fixable     bool
	Enabled     bool
	Description string
}

// FormatRuleTable lays out rules in aligned columns. Descriptions are
// truncated to fit termWidth; 0 means a default width.
func (s *Styles) FormatRuleTable(rows []RuleRow, termWidth int) string {
	if len(rows) == 0 {
		return ""
	}
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}

	headers := [4]string{"RULE", "SEVERITY", "FIX", "DESCRIPTION"}
	widths := [3]int{len(headers[0]), len(headers[1]), len(headers[2])}
	for _, row := range rows {
		widths[0] = max(widths[0], lipgloss.Width(row.Rule))
		widths[1] = max(widths[1], lipgloss.Width(row.Severity))
	}

	used := widths[0] + widths[1] + widths[2] + 3*len(columnGap)
	descWidth := max(termWidth-used, minDescWidth)

	var builder strings.Builder
	line := func(cells [4]string, styles [4]lipgloss.Style) {
		for i := range 3 {
			builder.WriteString(styles[i].Width(widths[i]).Render(cells[i]))
			builder.WriteString(columnGap)
		}
		builder.WriteString(styles[3].Render(truncate(cells[3], descWidth)))
		builder.WriteString("\n")
	}

	header := s.TableHeader
	line(headers, [4]lipgloss.Style{header, header, header, header})

	for _, row := range rows {
		fixable := "-"
		fixStyle := s.Dim
		if row.Fixable {
			fixable, fixStyle = fixableSymbol, s.TableFixable
		}
		ruleStyle := s.Bold
		if !row.Enabled {
			ruleStyle = s.Dim
		}
		line([4]string{row.Rule, row.Severity, fixable, row.Description},
			[4]lipgloss.Style{ruleStyle, s.severityStyle(row.Severity), fixStyle, s.Message})
	}

	return builder.String()
}

func (s *Styles) severityStyle(severity string) lipgloss.Style {
	switch severity {
	case "error":
		return s.Error
	case "warning":
		return s.Warning
	case "info":
		return s.Info
	default:
		return s.Message
	}
}

func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}
