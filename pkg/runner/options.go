// Package runner provides multi-file linting orchestration.
package runner

import "github.com/yaklabco/gorblint/pkg/config"

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// IncludeGlobs restrict discovery to matching relative paths.
	// Empty means every Ruby file.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files or directories. They merge the
	// config's ignore list and the CLI's --ignore flags.
	ExcludeGlobs []string

	// IncludeVendored disables the built-in skip of vendored directories
	// such as vendor/bundle and node_modules.
	IncludeVendored bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.GOMAXPROCS(0).
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
