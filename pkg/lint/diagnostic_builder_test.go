package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

func TestDiagnosticBuilder(t *testing.T) {
	t.Parallel()

	content := []byte("first\n  second\n")
	file := rbast.NewFileSnapshot("a.rb", content)
	root := rbast.NewNode(rbast.NodeProgram, "", 0, len(content))
	node := rbast.NewNode(rbast.NodeSend, "second", 8, 14)
	root.AppendChild(node)
	rbast.Attach(file, root)

	called := false
	diag := lint.NewDiagnostic("RB001", node, "bad order").
		WithSeverity(config.SeverityError).
		WithSuggestion("swap them").
		WithCorrection(func(*fix.Corrector) { called = true }).
		Build()

	assert.Equal(t, "RB001", diag.RuleID)
	assert.Equal(t, "a.rb", diag.FilePath)
	assert.Equal(t, "bad order", diag.Message)
	assert.Equal(t, config.SeverityError, diag.Severity)
	assert.Equal(t, "swap them", diag.Suggestion)
	assert.Equal(t, rbast.SourceRange{StartOffset: 8, EndOffset: 14}, diag.Range())
	assert.Equal(t, 2, diag.StartLine)
	assert.Equal(t, 3, diag.StartColumn)
	assert.Equal(t, 2, diag.SourcePosition().EndLine)

	require.True(t, diag.HasFix())
	diag.Correction(fix.NewCorrector(content))
	assert.True(t, called)
}

func TestDiagnosticBuilder_NilNode(t *testing.T) {
	t.Parallel()

	diag := lint.NewDiagnostic("RB002", nil, "msg").Build()
	assert.Equal(t, "RB002", diag.RuleID)
	assert.Zero(t, diag.StartLine)
	assert.False(t, diag.HasFix())
}

func TestDiagnostic_FixEdits(t *testing.T) {
	t.Parallel()

	content := []byte("x1\n")

	plain := lint.Diagnostic{}
	assert.Nil(t, plain.FixEdits(content))

	fixable := lint.Diagnostic{Correction: func(c *fix.Corrector) { c.Replace(0, 2, "y") }}
	assert.Equal(t, []fix.TextEdit{{StartOffset: 0, EndOffset: 2, NewText: "y"}}, fixable.FixEdits(content))

	broken := lint.Diagnostic{Correction: func(*fix.Corrector) { panic("boom") }}
	assert.Nil(t, broken.FixEdits(content))
}
