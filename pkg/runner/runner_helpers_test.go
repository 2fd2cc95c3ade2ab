package runner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/lint/rules"
	"github.com/yaklabco/gorblint/pkg/parser/treesitter"
	"github.com/yaklabco/gorblint/pkg/runner"
)

const unsortedFactory = `FactoryBot.define do
  factory :user do
    trait :zeta do
      label { "z" }
    end
    trait :alpha do
      label { "a" }
    end
  end
end
`

const sortedFactory = `FactoryBot.define do
  factory :user do
    trait :alpha do
      label { "a" }
    end
    trait :zeta do
      label { "z" }
    end
  end
end
`

// writeTree creates files (relative path -> content) under a fresh temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newRunner(workDir string) *runner.Runner {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)

	engine := lint.NewEngine(treesitter.New(), registry)
	engine.WorkingDir = workDir
	return runner.New(lint.NewPipeline(engine))
}

// relPaths maps absolute discovery results back to slash paths under root.
func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
