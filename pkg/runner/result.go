package runner

import (
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// FileOutcome wraps PipelineResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file could not be processed.
	Result *lint.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int
	FilesWithIssues int
	FilesModified   int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[config.Severity]int

	// EditsApplied is the number of correction edits applied, in memory for
	// dry runs.
	EditsApplied int

	// RuleErrors counts rules detached after failing on a file.
	RuleErrors int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasErrors reports whether any error-severity diagnostic occurred.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasWarnings reports whether any warning-severity diagnostic occurred.
func (r *Result) HasWarnings() bool {
	return r != nil && r.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[config.Severity]int)}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	pr := outcome.Result
	r.Stats.FilesProcessed++
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}
	r.Stats.EditsApplied += pr.TotalEditsApplied

	if pr.FileResult == nil {
		return
	}
	r.Stats.RuleErrors += len(pr.RuleErrors)
	r.Stats.DiagnosticsTotal += len(pr.Diagnostics)
	r.Stats.DiagnosticsFixable += pr.FixableCount()
	if pr.HasIssues() {
		r.Stats.FilesWithIssues++
	}
	for _, diag := range pr.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
