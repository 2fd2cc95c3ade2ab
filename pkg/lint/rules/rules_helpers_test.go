package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/parser/treesitter"
)

// runRule lints src as path with only rule enabled. With fix set, the
// corrected content is returned in ModifiedContent.
func runRule(t *testing.T, rule lint.Rule, path, src string, options map[string]any, fix bool) *lint.PipelineResult {
	t.Helper()

	registry := lint.NewRegistry()
	registry.Register(rule)

	cfg := config.NewConfig()
	cfg.Fix = fix
	if options != nil {
		cfg.Rules[rule.ID()] = config.RuleConfig{Options: options}
	}

	pipeline := lint.NewPipeline(lint.NewEngine(treesitter.New(), registry))
	result, err := pipeline.ProcessContent(context.Background(), path, []byte(src), cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)
	require.Empty(t, result.RuleErrors)
	return result
}

func messages(diags []lint.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

// textAt returns the source covered by the diagnostic.
func textAt(src string, diag lint.Diagnostic) string {
	return src[diag.StartOffset:diag.EndOffset]
}

// ruby joins lines with newlines and adds a trailing one.
func ruby(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// runRules lints and fixes src with every rule in registry.
func runRules(t *testing.T, registry *lint.Registry, path, src string) *lint.PipelineResult {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Fix = true

	pipeline := lint.NewPipeline(lint.NewEngine(treesitter.New(), registry))
	result, err := pipeline.ProcessContent(context.Background(), path, []byte(src), cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)
	return result
}
