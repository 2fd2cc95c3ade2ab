package lint

import (
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts a diagnostic located at node.
func NewDiagnostic(ruleID string, node *rbast.Node, message string) *DiagnosticBuilder {
	if node == nil {
		return &DiagnosticBuilder{diag: Diagnostic{RuleID: ruleID, Message: message}}
	}
	return NewDiagnosticAt(ruleID, node.File, node.Range(), message)
}

// NewDiagnosticAt starts a diagnostic covering r in file.
func NewDiagnosticAt(ruleID string, file *rbast.FileSnapshot, r rbast.SourceRange, message string) *DiagnosticBuilder {
	diag := Diagnostic{
		RuleID:      ruleID,
		Message:     message,
		StartOffset: r.StartOffset,
		EndOffset:   r.EndOffset,
	}
	if file != nil {
		pos := file.PositionOf(r)
		diag.FilePath = file.Path
		diag.StartLine = pos.StartLine
		diag.StartColumn = pos.StartColumn
		diag.EndLine = pos.EndLine
		diag.EndColumn = pos.EndColumn
	}
	return &DiagnosticBuilder{diag: diag}
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithCorrection attaches a correction callback.
func (b *DiagnosticBuilder) WithCorrection(fn Correction) *DiagnosticBuilder {
	b.diag.Correction = fn
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
