// Package config defines the configuration types for gorblint.
// They are plain data: loading, merging, and validation live in
// internal/configloader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration.
type RuleConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty" toml:"severity,omitempty"`
	AutoFix  *bool   `yaml:"auto_fix,omitempty" toml:"auto_fix,omitempty"`

	// Include limits the rule to files matching these globs.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`

	// Exclude skips the rule for files matching these globs.
	Exclude []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`

	// Options holds rule-specific settings such as services_directory.
	Options map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Mode    string `yaml:"mode" toml:"mode"` // "sidecar"
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
	FormatDiff  OutputFormat = "diff"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatDiff:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "factory-trait-order"
	RuleFormatID       RuleFormat = "id"       // "RB001"
	RuleFormatCombined RuleFormat = "combined" // "RB001/factory-trait-order"
)

// Config is the root configuration structure.
type Config struct {
	// SeverityDefault is the severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default" toml:"severity_default"`

	// Rules holds per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules" toml:"rules"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore" toml:"ignore"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-correction.
	Fix bool `yaml:"-" toml:"-"`

	// DryRun shows what would be fixed without writing.
	DryRun bool `yaml:"-" toml:"-"`

	// Format selects the output format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-" toml:"-"`

	// Jobs is the number of parallel workers (0 means GOMAXPROCS).
	Jobs int `yaml:"-" toml:"-"`

	// EnableRules lists rule IDs to force on.
	EnableRules []string `yaml:"-" toml:"-"`

	// DisableRules lists rule IDs to force off.
	DisableRules []string `yaml:"-" toml:"-"`

	// FixRules limits auto-correction to these rule IDs.
	FixRules []string `yaml:"-" toml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatID,
	}
}
