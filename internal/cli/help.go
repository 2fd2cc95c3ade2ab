package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gorblint/internal/ui/pretty"
)

// helpStyles colors the parts of command help.
type helpStyles struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return helpStyles{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders cobra help and usage with lipgloss styles.
type HelpFormatter struct {
	styles helpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{command (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":   h.styles.heading.Render,
		"command":   h.styles.command.Render,
		"dim":       h.styles.dim.Render,
		"flags":     h.renderFlags,
		"rpad":      rpad,
		"trimRight": func(s string) string { return strings.TrimRight(s, " \t\n") },
	}
}

// renderFlags styles pflag usage lines: flag names in color, value types
// dimmed, descriptions plain.
func (h *HelpFormatter) renderFlags(flags interface{ FlagUsages() string }) string {
	lines := strings.Split(strings.TrimRight(flags.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = h.renderFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) renderFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	// pflag separates the flag spec from its description with at least two spaces.
	spec, desc, found := strings.Cut(trimmed, "  ")
	if !found {
		return line
	}

	tokens := strings.Fields(spec)
	for i, token := range tokens {
		if strings.HasPrefix(token, "-") {
			name, comma := strings.CutSuffix(token, ",")
			tokens[i] = h.styles.flag.Render(name)
			if comma {
				tokens[i] += ","
			}
			continue
		}
		tokens[i] = h.styles.dim.Render(token)
	}
	return indent + strings.Join(tokens, " ") + "   " + strings.TrimLeft(desc, " ")
}

// ApplyToCommand installs the styled templates on cmd; subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStdout(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}
