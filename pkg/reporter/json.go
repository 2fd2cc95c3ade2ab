package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/gorblint/pkg/analysis"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/runner"
)

// jsonSchemaVersion versions the JSON document layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string           `json:"version"`
	ToolVersion string           `json:"toolVersion"`
	Files       []JSONFileResult `json:"files"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string            `json:"path"`
	Diagnostics []JSONDiagnostic  `json:"diagnostics"`
	Modified    bool              `json:"modified,omitempty"`
	Skipped     string            `json:"skipped,omitempty"`
	Error       string            `json:"error,omitempty"`
	RuleErrors  map[string]string `json:"ruleErrors,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID      string    `json:"ruleId"`
	RuleName    string    `json:"ruleName"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	StartLine   int       `json:"startLine"`
	StartColumn int       `json:"startColumn"`
	EndLine     int       `json:"endLine"`
	EndColumn   int       `json:"endColumn"`
	Suggestion  string    `json:"suggestion,omitempty"`
	Fixable     bool      `json:"fixable"`
	Fixes       []JSONFix `json:"fixes,omitempty"`
}

// JSONFix represents one edit of a proposed fix.
type JSONFix struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesModified   int            `json:"filesModified"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	Fixable         int            `json:"fixable"`
	BySeverity      map[string]int `json:"bySeverity"`

	ByRule []analysis.RuleStats `json:"byRule"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:     jsonSchemaVersion,
		ToolVersion: r.opts.Version,
		Files:       make([]JSONFileResult, 0),
		Summary: JSONSummary{
			BySeverity: make(map[string]int),
			ByRule:     make([]analysis.RuleStats, 0),
		},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Diagnostics: make([]JSONDiagnostic, 0),
		}
		output.Summary.FilesChecked++

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
			output.Files = append(output.Files, fileResult)
			continue
		}

		if pr := file.Result; pr != nil {
			fileResult.Modified = pr.Written
			if pr.Skipped {
				fileResult.Skipped = pr.SkipReason
			}

			if pr.FileResult != nil {
				for _, ruleID := range slices.Sorted(maps.Keys(pr.RuleErrors)) {
					if fileResult.RuleErrors == nil {
						fileResult.RuleErrors = make(map[string]string)
					}
					fileResult.RuleErrors[ruleID] = pr.RuleErrors[ruleID].Error()
				}

				var content []byte
				if pr.Snapshot != nil {
					content = pr.Snapshot.Content
				}

				for _, diag := range pr.Diagnostics {
					jsonDiag := JSONDiagnostic{
						RuleID:      diag.RuleID,
						RuleName:    diag.RuleName,
						Severity:    string(diag.Severity),
						Message:     diag.Message,
						StartLine:   diag.StartLine,
						StartColumn: diag.StartColumn,
						EndLine:     diag.EndLine,
						EndColumn:   diag.EndColumn,
						Suggestion:  diag.Suggestion,
						Fixable:     diag.HasFix(),
					}
					for _, edit := range diag.FixEdits(content) {
						jsonDiag.Fixes = append(jsonDiag.Fixes, JSONFix{
							StartOffset: edit.StartOffset,
							EndOffset:   edit.EndOffset,
							NewText:     edit.NewText,
						})
					}

					fileResult.Diagnostics = append(fileResult.Diagnostics, jsonDiag)
					output.Summary.TotalIssues++
					if jsonDiag.Fixable {
						output.Summary.Fixable++
					}

					severity := string(diag.Severity)
					if severity == "" {
						severity = string(config.SeverityWarning)
					}
					output.Summary.BySeverity[severity]++
				}
			}
		}

		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}
		if fileResult.Modified {
			output.Summary.FilesModified++
		}
		output.Files = append(output.Files, fileResult)
	}

	if byRule := analysis.Analyze(result, r.opts.WorkingDir, r.opts.SortBy).ByRule; byRule != nil {
		output.Summary.ByRule = byRule
	}

	return output
}
