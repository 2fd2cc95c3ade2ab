package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorblint/internal/configloader"
	"github.com/yaklabco/gorblint/internal/logging"
	"github.com/yaklabco/gorblint/pkg/analysis"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	_ "github.com/yaklabco/gorblint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/gorblint/pkg/parser/treesitter"
	"github.com/yaklabco/gorblint/pkg/reporter"
	"github.com/yaklabco/gorblint/pkg/runner"
)

type lintFlags struct {
	format          string
	ruleFormat      string
	include         []string
	ignore          []string
	enable          []string
	disable         []string
	fixRules        []string
	strict          bool
	noContext       bool
	noSummary       bool
	compact         bool
	statistics      bool
	sortBy          string
	includeVendored bool
	followSymlinks  bool
}

func newLintCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint Ruby files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, info, &cfg, flags)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint Ruby files for FactoryBot and service object conventions.

By default, lints every Ruby file under the current directory: .rb, .rake,
.gemspec and .ru files, plus Gemfile, Rakefile and scripts with a Ruby
shebang. Hidden and vendored directories are skipped.

Examples:
  gorblint lint                          # Lint current directory
  gorblint lint spec/factories           # Lint one directory
  gorblint lint app/services/pay.rb      # Lint a single file
  gorblint lint --fix                    # Lint and auto-fix offenses
  gorblint lint --dry-run                # Show fixes as a diff without writing
  gorblint lint --format sarif > out.sarif
  gorblint lint --disable services       # Turn off every rule tagged "services"
  gorblint lint --strict                 # Warnings fail the run
  gorblint lint --statistics --sort severity`

func runLint(cmd *cobra.Command, args []string, info BuildInfo, cli *config.Config, flags *lintFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return withExitCode(ExitInvalidUsage,
			fmt.Errorf("invalid sort %q: valid values are count, alpha, severity", flags.sortBy))
	}

	// Only explicitly provided flags override the config files.
	if cmd.Flags().Changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return withExitCode(ExitInvalidUsage, err)
		}
		cli.Format = config.OutputFormat(format)
	}
	if cmd.Flags().Changed("rule-format") {
		cli.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	cli.EnableRules = flags.enable
	cli.DisableRules = flags.disable
	cli.FixRules = flags.fixRules

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	cfg := loadResult.Config
	cfg.Ignore = append(cfg.Ignore, flags.ignore...)
	// A dry run without an explicit format shows the pending edits.
	if cfg.DryRun && !cmd.Flags().Changed("format") && cfg.Format == config.FormatText {
		cfg.Format = config.FormatDiff
	}

	logger.Debug("configuration loaded",
		logging.FieldFiles, loadResult.LoadedFrom,
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
		logging.FieldFormat, cfg.Format,
	)

	engine := lint.NewEngine(treesitter.New(), lint.DefaultRegistry)
	engine.WorkingDir = workDir
	lintRunner := runner.New(lint.NewPipeline(engine))

	runOpts := runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		IncludeGlobs:    flags.include,
		ExcludeGlobs:    cfg.Ignore,
		IncludeVendored: flags.includeVendored,
		FollowSymlinks:  flags.followSymlinks,
		Jobs:            cfg.Jobs,
		Config:          cfg,
	}
	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := lintRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	logger.Debug("lint run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.Format(cfg.Format),
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		Statistics:  flags.statistics,
		SortBy:      sortBy,
		RuleFormat:  cfg.RuleFormat,
		WorkingDir:  workDir,
		Version:     info.Version,
		Registry:    lint.DefaultRegistry,
	})
	if err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if code := ExitCodeFromResult(result, flags.strict); code != ExitSuccess {
		return withExitCode(code, ErrLintIssuesFound)
	}
	return nil
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix offenses")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "id",
		"rule identifier format in output: id, name, or combined")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only lint files matching these globs")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rules or tags to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rules or tags to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to these rules or tags")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the summary line")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify json and sarif output")
	cmd.Flags().BoolVar(&flags.statistics, "statistics", false, "show a per-rule breakdown and summary block")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"breakdown order: count, alpha, or severity")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "lint vendored directories too")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
}
