package lint

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/globs"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// RuleContext carries everything one rule needs while the engine walks one
// file. The engine creates one per (file, rule) pair; it is not shared
// between goroutines.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the parsed FileSnapshot.
	File *rbast.FileSnapshot

	// Root is the program node (convenience alias for File.Root).
	Root *rbast.Node

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	// WorkingDir is the directory relative paths and option paths are
	// resolved against. Empty means File.Path is already relative.
	WorkingDir string

	rule        Rule
	severity    config.Severity
	diagnostics []Diagnostic
	globCache   map[string]globs.Set
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *rbast.FileSnapshot,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	var root *rbast.Node
	if file != nil {
		root = file.Root
	}

	return &RuleContext{
		Ctx:        ctx,
		File:       file,
		Root:       root,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx != nil && rc.Ctx.Err() != nil
}

// Report records a diagnostic. Rule identity, severity, and file path are
// filled in when left empty.
func (rc *RuleContext) Report(diag Diagnostic) {
	if rc.rule != nil {
		if diag.RuleID == "" {
			diag.RuleID = rc.rule.ID()
		}
		if diag.RuleName == "" {
			diag.RuleName = rc.rule.Name()
		}
	}
	if diag.Severity == "" {
		diag.Severity = rc.severity
	}
	if diag.FilePath == "" && rc.File != nil {
		diag.FilePath = rc.File.Path
	}
	rc.diagnostics = append(rc.diagnostics, diag)
}

// Diagnostics returns the diagnostics reported so far, in report order.
func (rc *RuleContext) Diagnostics() []Diagnostic {
	return rc.diagnostics
}

// RelPath returns the file path relative to WorkingDir with '/' separators.
func (rc *RuleContext) RelPath() string {
	if rc.File == nil {
		return ""
	}
	return relativePath(rc.WorkingDir, rc.File.Path)
}

// ResolvePath resolves a path option against WorkingDir.
func (rc *RuleContext) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || rc.WorkingDir == "" {
		return path
	}
	return filepath.Join(rc.WorkingDir, path)
}

// PathMatches reports whether the file matches the glob list stored in the
// given option (or defaults when unset). Invalid globs are returned as errors.
func (rc *RuleContext) PathMatches(key string, defaults []string) (bool, error) {
	set, ok := rc.globCache[key]
	if !ok {
		var err error
		set, err = globs.Compile(rc.OptionStringSlice(key, defaults))
		if err != nil {
			return false, err
		}
		if rc.globCache == nil {
			rc.globCache = make(map[string]globs.Set)
		}
		rc.globCache[key] = set
	}
	return set.Match(rc.RelPath()), nil
}

// Option returns a rule-specific option value, or the default if not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionString returns a rule-specific string option, or the default.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	if s, ok := rc.Option(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	if b, ok := rc.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a rule-specific string list option, or the
// default. A single string is treated as a one-element list.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	switch val := rc.Option(key, defaultValue).(type) {
	case []string:
		return val
	case string:
		return []string{val}
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return defaultValue
	}
}

// relativePath returns path relative to base in slash form, or path itself
// when it cannot be made relative.
func relativePath(base, path string) string {
	if base == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
