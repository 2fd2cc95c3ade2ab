// Package analysis aggregates lint results per rule and per file.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/runner"
)

// Counts tallies diagnostics by severity.
type Counts struct {
	Issues   int `json:"issues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Fixable  int `json:"fixable"`
}

func (c *Counts) add(severity config.Severity, fixable bool) {
	c.Issues++
	switch severity {
	case config.SeverityError:
		c.Errors++
	case config.SeverityInfo:
		c.Infos++
	default:
		c.Warnings++
	}
	if fixable {
		c.Fixable++
	}
}

// RuleStats is the breakdown row for one rule.
type RuleStats struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Files    []string `json:"files"`
	Counts
}

// FileStats is the breakdown row for one file.
type FileStats struct {
	Path  string   `json:"path"`
	Rules []string `json:"rules"`
	Counts
}

// Breakdown groups the diagnostics of a run by rule and by file.
type Breakdown struct {
	ByRule []RuleStats `json:"byRule"`
	ByFile []FileStats `json:"byFile"`
}

// Analyze walks every diagnostic of result once. Paths are made relative to
// workDir when they lie beneath it. Files without diagnostics are omitted.
func Analyze(result *runner.Result, workDir string, sortBy SortField) *Breakdown {
	breakdown := &Breakdown{}
	if result == nil {
		return breakdown
	}

	rules := make(map[string]*RuleStats)
	ruleFiles := make(map[string]map[string]struct{})

	for _, file := range result.Files {
		if file.Result == nil || file.Result.FileResult == nil || len(file.Result.Diagnostics) == 0 {
			continue
		}

		path := relativePath(file.Path, workDir)
		fileStats := FileStats{Path: path}
		fileRules := make(map[string]struct{})

		for i := range file.Result.Diagnostics {
			diag := &file.Result.Diagnostics[i]
			fixable := diag.HasFix()
			fileStats.add(diag.Severity, fixable)
			fileRules[diag.RuleID] = struct{}{}

			stats, ok := rules[diag.RuleID]
			if !ok {
				stats = &RuleStats{RuleID: diag.RuleID, RuleName: diag.RuleName}
				rules[diag.RuleID] = stats
				ruleFiles[diag.RuleID] = make(map[string]struct{})
			}
			stats.add(diag.Severity, fixable)
			ruleFiles[diag.RuleID][path] = struct{}{}
		}

		fileStats.Rules = slices.Sorted(maps.Keys(fileRules))
		breakdown.ByFile = append(breakdown.ByFile, fileStats)
	}

	for id, stats := range rules {
		stats.Files = slices.Sorted(maps.Keys(ruleFiles[id]))
		breakdown.ByRule = append(breakdown.ByRule, *stats)
	}

	slices.SortFunc(breakdown.ByRule, func(a, b RuleStats) int {
		return compareRows(a.Counts, b.Counts, a.RuleID, b.RuleID, sortBy)
	})
	slices.SortFunc(breakdown.ByFile, func(a, b FileStats) int {
		return compareRows(a.Counts, b.Counts, a.Path, b.Path, sortBy)
	})

	return breakdown
}

// compareRows orders by sortBy and breaks ties by key so output is stable.
func compareRows(a, b Counts, keyA, keyB string, sortBy SortField) int {
	var result int
	switch sortBy {
	case SortByAlpha:
	case SortBySeverity:
		result = cmp.Or(
			cmp.Compare(b.Errors, a.Errors),
			cmp.Compare(b.Warnings, a.Warnings),
			cmp.Compare(b.Issues, a.Issues),
		)
	default:
		result = cmp.Compare(b.Issues, a.Issues)
	}
	return cmp.Or(result, cmp.Compare(keyA, keyB))
}

func relativePath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
