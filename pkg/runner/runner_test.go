package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/runner"
)

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	result, err := newRunner(root).Run(context.Background(), runner.Options{
		WorkingDir: root,
		Config:     config.NewConfig(),
	})

	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.False(t, result.HasIssues())
}

func TestRunner_Run_Lint(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"spec/factories/users.rb":  unsortedFactory,
		"spec/factories/posts.rb":  sortedFactory,
		"spec/factories/syntax.rb": "def oops(\n",
	})

	for _, jobs := range []int{1, 4} {
		result, err := newRunner(root).Run(context.Background(), runner.Options{
			WorkingDir: root,
			Jobs:       jobs,
			Config:     config.NewConfig(),
		})
		require.NoError(t, err)

		require.Len(t, result.Files, 3)
		assert.Equal(t, []string{
			"spec/factories/posts.rb",
			"spec/factories/syntax.rb",
			"spec/factories/users.rb",
		}, relPaths(t, root, outcomePaths(result)))

		// Syntax errors do not fail a file; nothing matches the error nodes.
		stats := result.Stats
		assert.Equal(t, 3, stats.FilesDiscovered)
		assert.Equal(t, 3, stats.FilesProcessed)
		assert.Zero(t, stats.FilesErrored)
		assert.Equal(t, 1, stats.FilesWithIssues)
		assert.Equal(t, 1, stats.DiagnosticsTotal)
		assert.Equal(t, 1, stats.DiagnosticsFixable)
		assert.Equal(t, 1, stats.DiagnosticsBySeverity[config.SeverityWarning])
		assert.Zero(t, stats.FilesModified)
		assert.True(t, result.HasWarnings())
		assert.False(t, result.HasErrors())
	}
}

func TestRunner_Run_Fix(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"spec/factories/users.rb": unsortedFactory})
	cfg := config.NewConfig()
	cfg.Fix = true

	result, err := newRunner(root).Run(context.Background(), runner.Options{WorkingDir: root, Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 2, result.Stats.EditsApplied)

	path := filepath.Join(root, "spec", "factories", "users.rb")
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sortedFactory, string(got))

	backup, err := os.ReadFile(path + ".gorblint.bak")
	require.NoError(t, err)
	assert.Equal(t, unsortedFactory, string(backup))
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"spec/factories/users.rb": unsortedFactory})
	cfg := config.NewConfig()
	cfg.DryRun = true

	result, err := newRunner(root).Run(context.Background(), runner.Options{WorkingDir: root, Config: cfg})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	pr := result.Files[0].Result
	require.NotNil(t, pr)
	require.NotNil(t, pr.Diff)
	assert.True(t, pr.Diff.HasChanges())
	assert.Zero(t, result.Stats.FilesModified)

	got, err := os.ReadFile(filepath.Join(root, "spec", "factories", "users.rb"))
	require.NoError(t, err)
	assert.Equal(t, unsortedFactory, string(got))
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"a.rb": "x = 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(root).Run(ctx, runner.Options{WorkingDir: root, Config: config.NewConfig()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func outcomePaths(result *runner.Result) []string {
	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	return paths
}
