// Package globs compiles path glob sets shared by file discovery and rule
// location filters.
//
// Patterns use '/' as the separator: "*" stays within one path segment and
// "**" crosses segments. A pattern without a '/' also matches against the
// base name, so "*.rake" matches "lib/tasks/db.rake".
package globs

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Set is an immutable compiled set of glob patterns.
// The zero Set matches nothing.
type Set struct {
	patterns []string
	compiled [][]glob.Glob
	baseOnly []bool
}

// Compile compiles patterns into a Set. Empty patterns are skipped.
func Compile(patterns []string) (Set, error) {
	var set Set
	for _, raw := range patterns {
		pattern := strings.TrimSpace(filepath.ToSlash(raw))
		if pattern == "" {
			continue
		}
		pattern = strings.TrimPrefix(pattern, "./")

		variants := []string{pattern}
		// "a/**/b" also matches "a/b".
		if collapsed := strings.ReplaceAll(pattern, "/**/", "/"); collapsed != pattern {
			variants = append(variants, collapsed)
		}

		compiled := make([]glob.Glob, 0, len(variants))
		for _, variant := range variants {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return Set{}, fmt.Errorf("invalid glob %q: %w", raw, err)
			}
			compiled = append(compiled, g)
		}
		set.patterns = append(set.patterns, pattern)
		set.compiled = append(set.compiled, compiled)
		set.baseOnly = append(set.baseOnly, !strings.Contains(pattern, "/"))
	}
	return set, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(patterns ...string) Set {
	set, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return set
}

// Empty reports whether the set has no patterns.
func (s Set) Empty() bool {
	return len(s.compiled) == 0
}

// Patterns returns the normalized source patterns.
func (s Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Match reports whether the slash-separated relative path matches any pattern.
func (s Set) Match(rel string) bool {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if rel == "" {
		return false
	}
	base := path.Base(rel)

	for i, variants := range s.compiled {
		for _, g := range variants {
			// A leading "**/" must also match at the root.
			if g.Match(rel) || g.Match("/"+rel) {
				return true
			}
			if s.baseOnly[i] && g.Match(base) {
				return true
			}
		}
	}
	return false
}

// MatchDir reports whether a directory path is matched, either directly or
// as the root of a "dir/**" pattern.
func (s Set) MatchDir(rel string) bool {
	rel = strings.TrimSuffix(filepath.ToSlash(rel), "/")
	return s.Match(rel) || s.Match(rel+"/")
}
