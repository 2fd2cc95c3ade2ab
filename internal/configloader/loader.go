// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation.
package configloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// ErrInvalidConfig is returned when the merged configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config

	// Registry resolves rule names, aliases, and tags. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GORBLINT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gorblint.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gorblint/config.yaml)
//  6. System config (/etc/gorblint/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	sources := []struct {
		label  string
		path   string
		ignore bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}

	for _, src := range sources {
		if src.ignore || src.path == "" {
			continue
		}
		fileCfg, warnings, err := loadConfigFile(src.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", src.label, err)
		}
		// Rule keys are normalized per file so that "RB001" in one file and
		// "factory-trait-order" in another merge into the same entry.
		normalizeRuleKeys(fileCfg, registry, result)
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, src.path)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	if err := normalizeRuleLists(cfg, registry); err != nil {
		return nil, err
	}

	validation := Validate(cfg, registry)
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, &validation.Errors[0])
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// normalizeRuleLists resolves the --enable, --disable and --fix-rules lists.
func normalizeRuleLists(cfg *config.Config, registry *lint.Registry) error {
	lists := []struct {
		flag string
		ids  *[]string
	}{
		{"enable", &cfg.EnableRules},
		{"disable", &cfg.DisableRules},
		{"fix-rules", &cfg.FixRules},
	}

	for _, list := range lists {
		ids, err := normalizeRuleList(registry, *list.ids)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, list.flag, err)
		}
		*list.ids = ids
	}
	return nil
}

// loadConfigFile loads a configuration from a YAML or TOML file. Unknown keys
// are returned as warnings.
func loadConfigFile(path string) (*config.Config, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	if IsTOMLConfig(path) {
		return parseTOML(path, content)
	}
	return parseYAML(path, content)
}

func parseTOML(path string, content []byte) (*config.Config, []string, error) {
	cfg := &config.Config{}
	meta, err := toml.Decode(string(content), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parse TOML: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]config.RuleConfig)
	}

	var warnings []string
	for _, key := range meta.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %q", path, key.String()))
	}
	return cfg, warnings, nil
}

func parseYAML(path string, content []byte) (*config.Config, []string, error) {
	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // FromYAML already names the format.
	}

	// A second strict pass only reports unknown fields.
	var warnings []string
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	var strict config.Config
	if err := decoder.Decode(&strict); err != nil && !errors.Is(err, io.EOF) {
		for _, line := range strings.Split(err.Error(), "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "yaml: unmarshal errors:"))
			if line != "" {
				warnings = append(warnings, fmt.Sprintf("%s: %s", path, line))
			}
		}
	}
	return cfg, warnings, nil
}

// WriteConfig writes a configuration to a YAML file, refusing to overwrite an
// existing file unless force is set.
func WriteConfig(path string, content []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, configFilePermissions)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
