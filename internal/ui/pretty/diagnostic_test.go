package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gorblint/internal/ui/pretty"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	diag := &lint.Diagnostic{
		RuleID:      "RB001",
		RuleName:    "factory-trait-order",
		Message:     "Traits should be defined in alphabetical order.",
		Severity:    config.SeverityWarning,
		FilePath:    "spec/factories/users.rb",
		StartLine:   6,
		StartColumn: 5,
		Suggestion:  "Move trait `alpha` above `zeta`",
	}

	tests := []struct {
		name       string
		sourceLine string
		format     config.RuleFormat
		want       string
	}{
		{
			name:   "id without context",
			format: config.RuleFormatID,
			want: "  spec/factories/users.rb:6:5  warning  Traits should be defined in alphabetical order.  (RB001)\n" +
				"    Suggestion: Move trait `alpha` above `zeta`\n",
		},
		{
			name:       "combined with context",
			sourceLine: "\ttrait :alpha do",
			format:     config.RuleFormatCombined,
			want: "  spec/factories/users.rb:6:5  warning  Traits should be defined in alphabetical order.  (RB001/factory-trait-order)\n" +
				"         trait :alpha do\n" +
				"            ^\n" +
				"    Suggestion: Move trait `alpha` above `zeta`\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatDiagnostic(diag, tt.sourceLine, tt.format))
		})
	}
}

func TestFormatSeverity(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "error", styles.FormatSeverity(config.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(config.SeverityWarning))
	assert.Equal(t, "info", styles.FormatSeverity(config.SeverityInfo))
	assert.Equal(t, "custom", styles.FormatSeverity("custom"))
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "a.rb", styles.FormatFileHeader("a.rb", 0))
	assert.Equal(t, "a.rb (1 issue)", styles.FormatFileHeader("a.rb", 1))
	assert.Equal(t, "a.rb (3 issues)", styles.FormatFileHeader("a.rb", 3))
}
