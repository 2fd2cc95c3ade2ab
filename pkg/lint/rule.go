// Package lint provides the rule engine, diagnostics, and registry for gorblint.
package lint

import (
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// Correction records the edits that fix one diagnostic. It runs after the
// whole tree has been analyzed, against the original source.
type Correction func(c *fix.Corrector)

// Diagnostic represents a single lint issue found in a file.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string `json:"rule_id"`

	// RuleName is the human-readable name of the rule (e.g., "factory-trait-order").
	RuleName string `json:"rule_name"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity `json:"severity"`

	// FilePath is the path to the file containing the issue.
	FilePath string `json:"file_path"`

	// StartOffset and EndOffset are the byte range of the offense.
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`

	// 1-based line and column of the range.
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`

	// Suggestion is an optional human-readable fix suggestion.
	Suggestion string `json:"suggestion,omitempty"`

	// Correction is nil when the offense cannot be auto-corrected.
	Correction Correction `json:"-"`
}

// HasFix returns true if the diagnostic carries a correction.
func (d *Diagnostic) HasFix() bool {
	return d.Correction != nil
}

// FixEdits returns the edits the correction would make against content, the
// source the diagnostic was produced from. Nil when there is no correction or
// it fails.
func (d *Diagnostic) FixEdits(content []byte) []fix.TextEdit {
	if d.Correction == nil {
		return nil
	}
	corrector := fix.NewCorrector(content)
	if err := safeCorrect(d.Correction, corrector); err != nil {
		return nil
	}
	edits, err := corrector.Prepared()
	if err != nil {
		return nil
	}
	return edits
}

// Range returns the byte range of the diagnostic.
func (d *Diagnostic) Range() rbast.SourceRange {
	return rbast.SourceRange{StartOffset: d.StartOffset, EndOffset: d.EndOffset}
}

// SourcePosition returns the diagnostic position as a SourcePosition.
func (d *Diagnostic) SourcePosition() rbast.SourcePosition {
	return rbast.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "RB001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule.
	Tags() []string

	// CanFix returns whether this rule attaches corrections.
	CanFix() bool

	// Kinds returns the node kinds the engine dispatches to Check.
	Kinds() []rbast.NodeKind

	// Check inspects one node and reports violations through ctx.Report.
	//
	// Rules must:
	//   - Treat a node that doesn't have the expected shape as "no match".
	//   - Not mutate the tree.
	//   - Return an error only for internal failures, not violations.
	Check(ctx *RuleContext, node *rbast.Node) error
}

// OptionDefaulter is implemented by rules with configurable options.
// The defaults appear in generated config templates.
type OptionDefaulter interface {
	DefaultOptions() map[string]any
}
