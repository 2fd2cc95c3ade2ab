package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gorblint/internal/configloader"
	"github.com/yaklabco/gorblint/internal/ui/pretty"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Fixable     bool     `json:"fixable"`
	Tags        []string `json:"tags"`
	Aliases     []string `json:"aliases,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, descriptions,
severity, and whether they support auto-fixing. Severity and enablement
reflect the configuration found for the current directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: id, name, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runRules(cmd *cobra.Command, flags *rulesFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}
	loadResult, err := configloader.Load(cmd.Context(), configloader.LoadOptions{ExplicitPath: configPath})
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	infos, err := collectRuleInfos(lint.DefaultRegistry, loadResult.Config)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	out := cmd.OutOrStdout()
	if flags.format == formatJSON {
		return outputRulesJSON(out, infos)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	rows := make([]pretty.RuleRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, pretty.RuleRow{
			Rule:        config.FormatRuleID(config.RuleFormat(flags.ruleFormat), info.ID, info.Name),
			Severity:    info.Severity,
			Fixable:     info.Fixable,
			Enabled:     info.Enabled,
			Description: info.Description,
		})
	}

	if _, err := io.WriteString(out, styles.FormatRuleTable(rows, terminalWidth(out))); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write rules: %w", err))
	}
	return nil
}

// collectRuleInfos describes every registered rule as configured by cfg.
func collectRuleInfos(registry *lint.Registry, cfg *config.Config) ([]ruleInfo, error) {
	rules := registry.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		resolved, err := lint.ResolveRule(rule, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve rule %s: %w", rule.ID(), err)
		}
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(resolved.Severity),
			Enabled:     resolved.Enabled,
			Fixable:     rule.CanFix(),
			Tags:        rule.Tags(),
			Aliases:     registry.Aliases(rule.ID()),
		})
	}
	return infos, nil
}

// terminalWidth returns the width of out when it is a terminal, or 0.
func terminalWidth(out io.Writer) int {
	file, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// outputRulesJSON writes rules as a JSON array.
func outputRulesJSON(out io.Writer, infos []ruleInfo) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("encoding rules: %w", err))
	}
	return nil
}
