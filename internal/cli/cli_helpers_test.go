package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/internal/cli"
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

const factoryPath = "spec/factories/users.rb"

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

// project creates a repository root in a temp dir and makes it the working
// directory. User and system config are kept out of the way.
func project(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	return dir
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand(testInfo())
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
