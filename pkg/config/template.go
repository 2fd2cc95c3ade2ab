package config

import (
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool

	// Options holds the rule's default option values.
	Options map[string]any
}

// RuleInfoProvider returns information about the registered rules.
// It decouples templates from the lint package.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// TemplateHeader is written at the top of generated config files.
const TemplateHeader = `# gorblint configuration
# See: https://github.com/yaklabco/gorblint
`

// GenerateTemplate renders a commented starter configuration listing every
// registered rule with its defaults.
func GenerateTemplate() []byte {
	var buf strings.Builder

	buf.WriteString(TemplateHeader)
	buf.WriteString(`
# Default severity for rules that don't set one: error, warning, or info
severity_default: warning

# Glob patterns for files to skip
ignore:
  - "vendor/**"
  - "tmp/**"
  - "node_modules/**"

# Backups written next to a file before --fix rewrites it
backups:
  enabled: true
  mode: sidecar

# Per-rule configuration, keyed by rule ID, name, or alias
rules:
`)

	var rules []RuleInfo
	if DefaultRuleInfoProvider != nil {
		rules = DefaultRuleInfoProvider()
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
		buf.WriteString("    # include: []\n")
		buf.WriteString("    # exclude: []\n")
		writeOptions(&buf, rule.Options)
	}

	return []byte(buf.String())
}

func writeOptions(buf *strings.Builder, options map[string]any) {
	if len(options) == 0 {
		return
	}
	buf.WriteString("    options:\n")

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		switch value := options[key].(type) {
		case []string:
			if len(value) == 0 {
				fmt.Fprintf(buf, "      %s: []\n", key)
				continue
			}
			fmt.Fprintf(buf, "      %s:\n", key)
			for _, item := range value {
				fmt.Fprintf(buf, "        - %q\n", item)
			}
		case string:
			fmt.Fprintf(buf, "      %s: %q\n", key, value)
		default:
			fmt.Fprintf(buf, "      %s: %v\n", key, value)
		}
	}
}

// wrapComment wraps text to maxWidth, continuing lines as YAML comments.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	return strings.Join(lines, "\n  # ")
}
