package lint

import (
	"fmt"
	"slices"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/globs"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// AutoFix indicates whether corrections from this rule are applied.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig

	// Include and Exclude restrict the files the rule runs on.
	Include globs.Set
	Exclude globs.Set
}

// AppliesTo reports whether the rule runs on the slash-separated relative
// path. An empty Include set means every file.
func (rr *ResolvedRule) AppliesTo(relPath string) bool {
	if rr.Exclude.Match(relPath) {
		return false
	}
	return rr.Include.Empty() || rr.Include.Match(relPath)
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules, sorted by ID.
func ResolveRules(registry *Registry, cfg *config.Config) ([]ResolvedRule, error) {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		rr, err := ResolveRule(rule, cfg)
		if err != nil {
			return nil, err
		}
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved, nil
}

// ResolveRule applies cfg to a single rule, whether or not it ends up enabled.
func ResolveRule(rule Rule, cfg *config.Config) (ResolvedRule, error) {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}

	if cfg == nil {
		return rr, nil
	}

	if cfg.SeverityDefault != "" {
		rr.Severity = config.Severity(cfg.SeverityDefault)
	}

	if ruleCfg, ok := cfg.Rules[rule.ID()]; ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}

		var err error
		if rr.Include, err = globs.Compile(ruleCfg.Include); err != nil {
			return rr, fmt.Errorf("rule %s include: %w", rule.ID(), err)
		}
		if rr.Exclude, err = globs.Compile(ruleCfg.Exclude); err != nil {
			return rr, fmt.Errorf("rule %s exclude: %w", rule.ID(), err)
		}
	}

	// CLI enable/disable wins over file configuration.
	if slices.Contains(cfg.EnableRules, rule.ID()) {
		rr.Enabled = true
	}
	if slices.Contains(cfg.DisableRules, rule.ID()) {
		rr.Enabled = false
	}

	if len(cfg.FixRules) > 0 {
		rr.AutoFix = rule.CanFix() && slices.Contains(cfg.FixRules, rule.ID())
	}

	if !cfg.Fix && !cfg.DryRun {
		rr.AutoFix = false
	}

	return rr, nil
}
