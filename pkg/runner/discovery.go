package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gorblint/pkg/globs"
	"github.com/yaklabco/gorblint/pkg/langdetect"
)

// filter holds the compiled discovery criteria.
type filter struct {
	workDir  string
	include  globs.Set
	exclude  globs.Set
	vendored bool
}

// Discover finds Ruby files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	flt := filter{workDir: workDir, vendored: opts.IncludeVendored}
	if flt.include, err = globs.Compile(opts.IncludeGlobs); err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}
	if flt.exclude, err = globs.Compile(opts.ExcludeGlobs); err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if flt.matchFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := flt.walk(ctx, absPath, opts.FollowSymlinks)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func (f filter) rel(path string) string {
	relPath, err := filepath.Rel(f.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relPath)
}

// walk recursively walks root and returns the Ruby files under it.
func (f filter) walk(ctx context.Context, root string, followSymlinks bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		relPath := f.rel(path)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || f.skipDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			if info.IsDir() {
				if !followSymlinks {
					return nil
				}
				realPath, evalErr := filepath.EvalSymlinks(path)
				if evalErr != nil {
					return nil //nolint:nilerr // Unresolvable targets are skipped.
				}
				// Walk the target, not the link: WalkDir does not descend
				// through a symlinked root.
				sub, err := f.walk(ctx, realPath, followSymlinks)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if f.matchFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (f filter) skipDir(relPath string) bool {
	if f.exclude.MatchDir(relPath) {
		return true
	}
	return !f.vendored && langdetect.IsVendored(relPath+"/")
}

// matchFile applies the include and exclude globs and Ruby detection.
func (f filter) matchFile(path string) bool {
	relPath := f.rel(path)
	if f.exclude.Match(relPath) {
		return false
	}
	if !f.include.Empty() && !f.include.Match(relPath) {
		return false
	}
	if langdetect.ByPath(path) {
		return true
	}
	if !langdetect.NeedsContent(path) {
		return false
	}
	return langdetect.Detect(path, readHead(path))
}

// readHead returns the start of the file. Errors yield nil, which no
// detector accepts.
func readHead(path string) []byte {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	buf := make([]byte, langdetect.ShebangProbeSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return buf[:n]
}
