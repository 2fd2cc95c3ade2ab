package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

func newTestContext(path string, options map[string]any) *lint.RuleContext {
	file := rbast.NewFileSnapshot(path, []byte("x\n"))
	rbast.Attach(file, rbast.NewNode(rbast.NodeProgram, "", 0, 2))
	return lint.NewRuleContext(context.Background(), file, config.NewConfig(),
		&config.RuleConfig{Options: options})
}

func TestRuleContext_Options(t *testing.T) {
	t.Parallel()

	ctx := newTestContext("a.rb", map[string]any{
		"name":    "value",
		"flag":    true,
		"single":  "app/services/**",
		"list":    []any{"a/**", 3, "b/**"},
		"strings": []string{"c/**"},
		"wrong":   42,
	})

	assert.Equal(t, "value", ctx.OptionString("name", "def"))
	assert.Equal(t, "def", ctx.OptionString("missing", "def"))
	assert.Equal(t, "def", ctx.OptionString("wrong", "def"))
	assert.True(t, ctx.OptionBool("flag", false))
	assert.True(t, ctx.OptionBool("missing", true))

	assert.Equal(t, []string{"app/services/**"}, ctx.OptionStringSlice("single", nil))
	assert.Equal(t, []string{"a/**", "b/**"}, ctx.OptionStringSlice("list", nil))
	assert.Equal(t, []string{"c/**"}, ctx.OptionStringSlice("strings", nil))
	assert.Equal(t, []string{"d"}, ctx.OptionStringSlice("wrong", []string{"d"}))
	assert.Equal(t, 42, ctx.Option("wrong", 0))
}

func TestRuleContext_NilRuleConfig(t *testing.T) {
	t.Parallel()

	ctx := lint.NewRuleContext(context.Background(), nil, nil, nil)
	assert.Equal(t, "d", ctx.OptionString("k", "d"))
	assert.Empty(t, ctx.RelPath())
	assert.Nil(t, ctx.Root)
	assert.False(t, ctx.Cancelled())
}

func TestRuleContext_Paths(t *testing.T) {
	t.Parallel()

	ctx := newTestContext("/repo/app/services/billing/charge.rb", nil)
	ctx.WorkingDir = "/repo"

	assert.Equal(t, "app/services/billing/charge.rb", ctx.RelPath())
	assert.Equal(t, "/repo/app/services", ctx.ResolvePath("app/services"))
	assert.Equal(t, "/abs", ctx.ResolvePath("/abs"))

	outside := newTestContext("/elsewhere/a.rb", nil)
	outside.WorkingDir = "/repo"
	assert.Equal(t, "/elsewhere/a.rb", outside.RelPath())
}

func TestRuleContext_PathMatches(t *testing.T) {
	t.Parallel()

	ctx := newTestContext("app/services/billing/charge.rb", map[string]any{
		"only": []any{"lib/**"},
		"bad":  "app/[unclosed",
	})

	matched, err := ctx.PathMatches("services", []string{"app/services/**"})
	require.NoError(t, err)
	assert.True(t, matched)

	// Cached per key.
	matched, err = ctx.PathMatches("services", nil)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = ctx.PathMatches("only", []string{"app/**"})
	require.NoError(t, err)
	assert.False(t, matched)

	_, err = ctx.PathMatches("bad", nil)
	require.Error(t, err)
}

func TestRuleContext_Cancelled(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	ctx := lint.NewRuleContext(parent, nil, nil, nil)
	assert.False(t, ctx.Cancelled())
	cancel()
	assert.True(t, ctx.Cancelled())
}
