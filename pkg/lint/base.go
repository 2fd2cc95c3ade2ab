package lint

import (
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// BaseRule provides the metadata half of the Rule interface.
// Embed it in rule implementations and override methods as needed.
//
// Fields are unexported to avoid collisions with the interface methods.
type BaseRule struct {
	id      string   // Unique identifier (e.g., "RB001")
	name    string   // Human-readable name
	desc    string   // Detailed description
	tags    []string // Categorization tags
	fixable bool     // Whether the rule attaches corrections
	kinds   []rbast.NodeKind
}

// NewBaseRule creates a BaseRule visiting the given node kinds.
func NewBaseRule(id, name, desc string, tags []string, fixable bool, kinds ...rbast.NodeKind) BaseRule {
	return BaseRule{
		id:      id,
		name:    name,
		desc:    desc,
		tags:    tags,
		fixable: fixable,
		kinds:   kinds,
	}
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule checks.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns whether the rule is enabled by default.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// DefaultSeverity returns the default severity for this rule.
func (r *BaseRule) DefaultSeverity() config.Severity {
	return config.SeverityWarning
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// CanFix returns whether this rule attaches corrections.
func (r *BaseRule) CanFix() bool {
	return r.fixable
}

// Kinds returns the node kinds this rule visits.
func (r *BaseRule) Kinds() []rbast.NodeKind {
	return r.kinds
}

// Check must be overridden by concrete rules. The default reports nothing.
func (r *BaseRule) Check(_ *RuleContext, _ *rbast.Node) error {
	return nil
}
