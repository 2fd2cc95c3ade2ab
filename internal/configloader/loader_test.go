package configloader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/internal/configloader"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/lint/rules"
)

func testRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	rules.RegisterLegacyAliases(registry)
	return registry
}

// projectDir returns a temp dir that stops the upward config search.
func projectDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func load(t *testing.T, dir string, mutate func(*configloader.LoadOptions)) (*configloader.LoadResult, error) {
	t.Helper()

	opts := configloader.LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		Registry:           testRegistry(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return configloader.Load(context.Background(), opts)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := load(t, projectDir(t, nil), nil)
	require.NoError(t, err)

	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, config.NewConfig(), result.Config)
}

func TestLoad_ProjectYAML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.yml": `
severity_default: error
ignore:
  - "vendor/**"
rules:
  factory-trait-order:
    enabled: false
  Services/CallShape:
    severity: info
    options:
      services_directory: app/services
`,
	})

	result, err := load(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, ".gorblint.yml")}, result.LoadedFrom)
	cfg := result.Config
	assert.Equal(t, "error", cfg.SeverityDefault)
	assert.Equal(t, []string{"vendor/**"}, cfg.Ignore)

	require.Contains(t, cfg.Rules, "RB001")
	require.NotNil(t, cfg.Rules["RB001"].Enabled)
	assert.False(t, *cfg.Rules["RB001"].Enabled)

	require.Contains(t, cfg.Rules, "RB002")
	assert.Equal(t, "info", *cfg.Rules["RB002"].Severity)
	assert.Equal(t, "app/services", cfg.Rules["RB002"].Options["services_directory"])
}

func TestLoad_FoundFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.yaml":     "severity_default: info\n",
		"app/models/user.rb": "class User; end\n",
	})

	result, err := load(t, filepath.Join(dir, "app", "models"), nil)
	require.NoError(t, err)
	assert.Equal(t, "info", result.Config.SeverityDefault)
}

func TestLoad_ProjectTOML(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.toml": `
severity_default = "error"
colour = "always"

[rules.RB002]
include = ["app/**"]

[rules.RB002.options]
services_directory = "app/services"
`,
	})

	result, err := load(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "error", result.Config.SeverityDefault)
	assert.Equal(t, []string{"app/**"}, result.Config.Rules["RB002"].Include)
	assert.Equal(t, "app/services", result.Config.Rules["RB002"].Options["services_directory"])

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown key "colour"`)
}

func TestLoad_UnknownYAMLFieldWarns(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{".gorblint.yml": "severity_default: info\nflavour: gfm\n"})

	result, err := load(t, dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "info", result.Config.SeverityDefault)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "flavour")
}

func TestLoad_TagKeys(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.yml": `
rules:
  services:
    severity: error
    exclude: ["app/services/legacy/**"]
  RB002:
    severity: info
  ordering:
    enabled: false
`,
	})

	result, err := load(t, dir, nil)
	require.NoError(t, err)

	rb002 := result.Config.Rules["RB002"]
	assert.Equal(t, "info", *rb002.Severity, "rule key wins over tag")
	assert.Equal(t, []string{"app/services/legacy/**"}, rb002.Exclude)

	rb001 := result.Config.Rules["RB001"]
	require.NotNil(t, rb001.Enabled)
	assert.False(t, *rb001.Enabled)

	assert.NotContains(t, result.Config.Rules, "services")
	assert.NotContains(t, result.Config.Rules, "ordering")
}

func TestLoad_DuplicateRuleKeysWarn(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.yml": "rules:\n  RB001:\n    severity: info\n  factory-trait-order:\n    severity: error\n",
	})

	result, err := load(t, dir, nil)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "duplicate rule configuration")
	// Keys are processed in sorted order, so the name wins over the ID.
	assert.Equal(t, "error", *result.Config.Rules["RB001"].Severity)
}

func TestLoad_UnknownRuleWarns(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{".gorblint.yml": "rules:\n  RB999:\n    enabled: false\n"})

	result, err := load(t, dir, nil)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown rule "RB999"`)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"severity_default", "severity_default: fatal\n", "severity_default"},
		{"rule severity", "rules:\n  RB001:\n    severity: loud\n", "rules.RB001.severity"},
		{"backup mode", "backups:\n  mode: cloud\n", "backups.mode"},
		{"ignore glob", "ignore:\n  - \"app/[unclosed\"\n", "ignore[0]"},
		{"rule glob", "rules:\n  RB002:\n    include: [\"app/[unclosed\"]\n", "rules.RB002.include[0]"},
		{"malformed yaml", "rules: [\n", "parse yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t, map[string]string{".gorblint.yml": tt.content})
			_, err := load(t, dir, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.yml":    "severity_default: info\nignore: [\"tmp/**\"]\n",
		"ci/gorblint.toml": "severity_default = \"error\"\n",
	})
	explicit := filepath.Join(dir, "ci", "gorblint.toml")

	result, err := load(t, dir, func(opts *configloader.LoadOptions) {
		opts.ExplicitPath = explicit
	})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, ".gorblint.yml"), explicit}, result.LoadedFrom)
	assert.Equal(t, "error", result.Config.SeverityDefault)
	assert.Equal(t, []string{"tmp/**"}, result.Config.Ignore)
}

func TestLoad_MissingExplicit(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, nil)
	_, err := load(t, dir, func(opts *configloader.LoadOptions) {
		opts.ExplicitPath = filepath.Join(dir, "missing.yml")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load explicit config")
}

func TestLoad_IgnoreProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{".gorblint.yml": "severity_default: info\n"})

	result, err := load(t, dir, func(opts *configloader.LoadOptions) {
		opts.IgnoreProjectConfig = true
	})
	require.NoError(t, err)
	assert.Equal(t, "warning", result.Config.SeverityDefault)
	assert.NotEmpty(t, result.Paths.Project)
}

func TestLoad_RuleLists(t *testing.T) {
	t.Parallel()

	cli := &config.Config{
		EnableRules:  []string{"services", "RB002"},
		DisableRules: []string{"FactoryBot/TraitOrder"},
		FixRules:     []string{"factory-trait-order"},
	}

	result, err := load(t, projectDir(t, nil), func(opts *configloader.LoadOptions) {
		opts.CLIConfig = cli
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"RB002"}, result.Config.EnableRules)
	assert.Equal(t, []string{"RB001"}, result.Config.DisableRules)
	assert.Equal(t, []string{"RB001"}, result.Config.FixRules)
}

func TestLoad_UnknownRuleInList(t *testing.T) {
	t.Parallel()

	_, err := load(t, projectDir(t, nil), func(opts *configloader.LoadOptions) {
		opts.CLIConfig = &config.Config{DisableRules: []string{"RB999"}}
	})
	require.ErrorIs(t, err, configloader.ErrInvalidConfig)
	assert.Contains(t, err.Error(), `unknown rule "RB999"`)
}

// Environment tests cannot run in parallel.
func TestLoad_EnvAndCLIPrecedence(t *testing.T) {
	t.Setenv("GORBLINT_SEVERITY_DEFAULT", "error")
	t.Setenv("GORBLINT_JOBS", "3")
	t.Setenv("GORBLINT_FORMAT", "json")

	dir := projectDir(t, map[string]string{".gorblint.yml": "severity_default: info\n"})

	result, err := load(t, dir, func(opts *configloader.LoadOptions) {
		opts.IgnoreEnv = false
		opts.CLIConfig = &config.Config{Format: config.FormatSARIF}
	})
	require.NoError(t, err)

	assert.Equal(t, "error", result.Config.SeverityDefault, "env beats project")
	assert.Equal(t, 3, result.Config.Jobs)
	assert.Equal(t, config.FormatSARIF, result.Config.Format, "CLI beats env")
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("GORBLINT_JOBS", "many")

	_, err := load(t, projectDir(t, nil), func(opts *configloader.LoadOptions) {
		opts.IgnoreEnv = false
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GORBLINT_JOBS")
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	require.NoError(t, os.MkdirAll(filepath.Join(configHome, "gorblint"), 0o755))
	userPath := filepath.Join(configHome, "gorblint", "config.yaml")
	require.NoError(t, os.WriteFile(userPath, []byte("severity_default: info\nignore: [\"tmp/**\"]\n"), 0o644))

	dir := projectDir(t, map[string]string{".gorblint.yml": "severity_default: error\n"})

	result, err := load(t, dir, func(opts *configloader.LoadOptions) {
		opts.IgnoreUserConfig = false
	})
	require.NoError(t, err)

	assert.Equal(t, userPath, result.Paths.User)
	assert.Equal(t, []string{userPath, filepath.Join(dir, ".gorblint.yml")}, result.LoadedFrom)
	assert.Equal(t, "error", result.Config.SeverityDefault)
	assert.Equal(t, []string{"tmp/**"}, result.Config.Ignore)
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	enabled, disabled := true, false
	info := "info"

	base := config.NewConfig()
	base.Rules["RB002"] = config.RuleConfig{
		Enabled: &enabled,
		Options: map[string]any{"services_directory": "app/services", "spec_paths": []any{"spec/**"}},
	}
	project := &config.Config{
		Rules: map[string]config.RuleConfig{
			"RB002": {Severity: &info, Options: map[string]any{"services_directory": "lib/services"}},
			"RB001": {Enabled: &disabled},
		},
		Ignore: []string{"tmp/**"},
	}
	cli := &config.Config{Fix: true, Jobs: 2}

	merged := configloader.MergeAll(base, project, cli)

	assert.True(t, merged.Fix)
	assert.Equal(t, 2, merged.Jobs)
	assert.Equal(t, "warning", merged.SeverityDefault)
	assert.Equal(t, []string{"tmp/**"}, merged.Ignore)

	rb002 := merged.Rules["RB002"]
	assert.True(t, *rb002.Enabled)
	assert.Equal(t, "info", *rb002.Severity)
	assert.Equal(t, "lib/services", rb002.Options["services_directory"])
	assert.Equal(t, []any{"spec/**"}, rb002.Options["spec_paths"])
	assert.False(t, *merged.Rules["RB001"].Enabled)

	// The base is left untouched.
	assert.Equal(t, "app/services", base.Rules["RB002"].Options["services_directory"])
	assert.Nil(t, configloader.MergeAll())
}

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t, map[string]string{
		".gorblint.toml":  "",
		".gorblint.yml":   "",
		"lib/tasks/.keep": "",
	})

	path, err := configloader.FindProjectConfig(context.Background(), filepath.Join(dir, "lib", "tasks"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".gorblint.yml"), path, "yml is preferred")

	empty := projectDir(t, nil)
	path, err = configloader.FindProjectConfig(context.Background(), empty)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gorblint.yml")

	require.NoError(t, configloader.WriteConfig(path, []byte("a: 1\n"), false))
	require.Error(t, configloader.WriteConfig(path, []byte("a: 2\n"), false))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(content))

	require.NoError(t, configloader.WriteConfig(path, []byte("a: 2\n"), true))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(content))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Jobs = -1
	cfg.RuleFormat = "short"
	cfg.Format = "table"

	result := configloader.ValidateWithFile(cfg, testRegistry(), ".gorblint.yml")
	require.False(t, result.Valid())
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "format", result.Errors[0].Field)
	assert.Equal(t, "rule_format", result.Errors[1].Field)
	assert.Equal(t, "jobs", result.Errors[2].Field)
	assert.Contains(t, result.AllMessages()[0], "error: .gorblint.yml: format")

	assert.True(t, configloader.Validate(config.NewConfig(), testRegistry()).Valid())
	assert.True(t, configloader.Validate(nil, nil).Valid())
}
