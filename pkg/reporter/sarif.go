package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/runner"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule (linter check).
type SARIFRule struct {
	ID               string                `json:"id"`
	Name             string                `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText  `json:"shortDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig      `json:"defaultConfiguration,omitempty"`
	FullDescription  *SARIFMultiformatText `json:"fullDescription,omitempty"`
	Properties       map[string]any        `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region. Replacement regions use
// byte offsets; result regions use lines and columns.
type SARIFRegion struct {
	StartLine   int  `json:"startLine,omitempty"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

// SARIFFix represents a proposed fix.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange describes changes to a file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement describes a text replacement.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion           `json:"deletedRegion"`
	InsertedContent *SARIFInsertedContent `json:"insertedContent,omitempty"`
}

// SARIFInsertedContent contains the replacement text.
type SARIFInsertedContent struct {
	Text string `json:"text"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           "gorblint",
				Version:        r.opts.Version,
				InformationURI: "https://github.com/yaklabco/gorblint",
				Rules:          make([]SARIFRule, 0),
			},
		},
		Results: make([]SARIFResult, 0),
	}

	rulesSeen := make(map[string]bool)
	if r.opts.Registry != nil {
		for _, rule := range r.opts.Registry.Rules() {
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRuleFor(rule))
			rulesSeen[rule.ID()] = true
		}
	}

	if result != nil {
		for _, file := range result.Files {
			if file.Result == nil || file.Result.FileResult == nil {
				continue
			}
			uri := r.opts.displayPath(file.Path)

			for _, diag := range file.Result.Diagnostics {
				if !rulesSeen[diag.RuleID] {
					run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
						ID:               diag.RuleID,
						Name:             diag.RuleName,
						ShortDescription: SARIFMultiformatText{Text: diag.Message},
						DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(diag.Severity)},
					})
					rulesSeen[diag.RuleID] = true
				}
				run.Results = append(run.Results, sarifResultFor(uri, file.Result.FileResult, diag))
			}
		}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func sarifRuleFor(rule lint.Rule) SARIFRule {
	return SARIFRule{
		ID:               rule.ID(),
		Name:             rule.Name(),
		ShortDescription: SARIFMultiformatText{Text: rule.Description()},
		DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(rule.DefaultSeverity())},
		Properties: map[string]any{
			"tags":    rule.Tags(),
			"fixable": rule.CanFix(),
		},
	}
}

func sarifResultFor(uri string, fr *lint.FileResult, diag lint.Diagnostic) SARIFResult {
	location := SARIFArtifactLocation{URI: uri}
	result := SARIFResult{
		RuleID:  diag.RuleID,
		Level:   severityToSARIFLevel(diag.Severity),
		Message: SARIFMessage{Text: diag.Message},
		Locations: []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: location,
				Region: SARIFRegion{
					StartLine:   diag.StartLine,
					StartColumn: diag.StartColumn,
					EndLine:     diag.EndLine,
					EndColumn:   diag.EndColumn,
				},
			},
		}},
	}

	if fr.Snapshot == nil || !diag.HasFix() {
		return result
	}
	edits := diag.FixEdits(fr.Snapshot.Content)
	if len(edits) == 0 {
		return result
	}

	description := diag.Suggestion
	if description == "" {
		description = diag.Message
	}
	change := SARIFArtifactChange{
		ArtifactLocation: location,
		Replacements:     make([]SARIFReplacement, 0, len(edits)),
	}
	for _, edit := range edits {
		offset, length := edit.StartOffset, edit.EndOffset-edit.StartOffset
		replacement := SARIFReplacement{
			DeletedRegion: SARIFRegion{ByteOffset: &offset, ByteLength: &length},
		}
		if edit.NewText != "" {
			replacement.InsertedContent = &SARIFInsertedContent{Text: edit.NewText}
		}
		change.Replacements = append(change.Replacements, replacement)
	}
	result.Fixes = []SARIFFix{{
		Description:     SARIFMessage{Text: description},
		ArtifactChanges: []SARIFArtifactChange{change},
	}}

	return result
}

// severityToSARIFLevel converts a severity to a SARIF level.
func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
