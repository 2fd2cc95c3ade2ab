package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/runner"
)

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"app/models/user.rb":            "class User; end\n",
		"app/services/create_user.rb":   "class CreateUser; end\n",
		"lib/tasks/db.rake":             "task :db\n",
		"gorblint.gemspec":              "Gem::Specification.new\n",
		"config.ru":                     "run App\n",
		"Gemfile":                       "source 'https://rubygems.org'\n",
		"bin/console":                   "#!/usr/bin/env ruby\nrequire 'irb'\n",
		"bin/deploy":                    "#!/bin/sh\necho hi\n",
		"README.md":                     "# readme\n",
		".hidden/secret.rb":             "x = 1\n",
		"app/.scratch.rb":               "x = 1\n",
		"vendor/bundle/gems/a/lib/a.rb": "module A; end\n",
		"node_modules/pkg/index.rb":     "x = 1\n",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "default",
			opts: runner.Options{},
			want: []string{
				"Gemfile",
				"app/models/user.rb",
				"app/services/create_user.rb",
				"bin/console",
				"config.ru",
				"gorblint.gemspec",
				"lib/tasks/db.rake",
			},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"app/**"}},
			want: []string{"app/models/user.rb", "app/services/create_user.rb"},
		},
		{
			name: "exclude globs prune directories and files",
			opts: runner.Options{ExcludeGlobs: []string{"app/models/**", "*.rake"}},
			want: []string{
				"Gemfile",
				"app/services/create_user.rb",
				"bin/console",
				"config.ru",
				"gorblint.gemspec",
			},
		},
		{
			name: "explicit paths",
			opts: runner.Options{Paths: []string{"lib", "app/models/user.rb", "README.md"}},
			want: []string{"app/models/user.rb", "lib/tasks/db.rake"},
		},
		{
			name: "overlapping paths are deduplicated",
			opts: runner.Options{Paths: []string{"app", "app/models", "app/models/user.rb"}},
			want: []string{"app/models/user.rb", "app/services/create_user.rb"},
		},
		{
			name: "vendored code on request",
			opts: runner.Options{Paths: []string{"vendor"}, IncludeVendored: true},
			want: []string{"vendor/bundle/gems/a/lib/a.rb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.WorkingDir = root
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, root, files))

			for _, f := range files {
				assert.True(t, filepath.IsAbs(f))
			}
		})
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"does-not-exist"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   t.TempDir(),
		ExcludeGlobs: []string{"[unclosed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude patterns")
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"real/a.rb": "x = 1\n"})
	outside := writeTree(t, map[string]string{"lib/b.rb": "y = 2\n"})
	require.NoError(t, os.Symlink(filepath.Join(outside, "lib"), filepath.Join(root, "linked")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"real/a.rb"}, relPaths(t, root, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.ElementsMatch(t, []string{"a.rb", "b.rb"}, []string{filepath.Base(files[0]), filepath.Base(files[1])})
}
