package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gorblint/pkg/config"
)

// envVarPrefix is the prefix for all gorblint environment variables.
const envVarPrefix = "GORBLINT_"

// envVar binds one environment variable (without prefix) to a config field.
type envVar struct {
	suffix      string
	description string
	apply       func(cfg *config.Config, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"SEVERITY_DEFAULT", "Default severity: error, warning, or info", func(cfg *config.Config, v string) error {
		cfg.SeverityDefault = v
		return nil
	}},
	{"FIX", "Enable auto-fix: true or false", boolSetter(func(cfg *config.Config, b bool) { cfg.Fix = b })},
	{"DRY_RUN", "Dry-run mode: true or false", boolSetter(func(cfg *config.Config, b bool) { cfg.DryRun = b })},
	{"JOBS", "Number of parallel workers (0 = auto)", func(cfg *config.Config, v string) error {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		cfg.Jobs = jobs
		return nil
	}},
	{"FORMAT", "Output format: text, json, sarif, or diff", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	{"RULE_FORMAT", "Rule identifiers in output: id, name, or combined", func(cfg *config.Config, v string) error {
		cfg.RuleFormat = config.RuleFormat(v)
		return nil
	}},
	{"BACKUPS_ENABLED", "Enable backups when fixing: true or false",
		boolSetter(func(cfg *config.Config, b bool) { cfg.Backups.Enabled = b })},
	{"BACKUPS_MODE", "Backup mode: sidecar or none", func(cfg *config.Config, v string) error {
		cfg.Backups.Mode = v
		return nil
	}},
	{"NO_BACKUPS", "Disable backups: true or false", boolSetter(func(cfg *config.Config, b bool) { cfg.NoBackups = b })},
	{"IGNORE", "Comma-separated list of ignore globs", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
	{"ENABLE", "Comma-separated rules to force on", func(cfg *config.Config, v string) error {
		cfg.EnableRules = parseSliceValue(v)
		return nil
	}},
	{"DISABLE", "Comma-separated rules to force off", func(cfg *config.Config, v string) error {
		cfg.DisableRules = parseSliceValue(v)
		return nil
	}},
}

func boolSetter(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

// LoadFromEnv applies GORBLINT_* environment variable overrides to cfg.
// Empty variables are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// parseSliceValue splits a comma-separated list, trimming each element and
// dropping empty ones.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns every supported environment variable with its
// description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		vars[envVarPrefix+ev.suffix] = ev.description
	}
	return vars
}
