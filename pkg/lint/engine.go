package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// FileResult contains the results of linting a single file.
type FileResult struct {
	// Snapshot is the parsed file.
	Snapshot *rbast.FileSnapshot

	// Diagnostics contains all issues found, ordered by position then rule.
	Diagnostics []Diagnostic

	// Edits contains the validated, sorted, deduplicated correction edits.
	// Empty if nothing is fixable, fixing was not requested, or correction
	// failed.
	Edits []fix.TextEdit

	// EditConflicts is true if corrections overlapped and none were applied.
	EditConflicts bool

	// CorrectionErr explains why corrections were abandoned, if they were.
	CorrectionErr error

	// RuleErrors contains errors and panics from rule execution, by rule ID.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any edits are ready to apply.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with corrections.
func (fr *FileResult) FixableCount() int {
	count := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			count++
		}
	}
	return count
}

// Engine parses a file, walks its tree once, and dispatches each node to the
// rules that declared interest in its kind.
type Engine struct {
	// Parser parses Ruby files into FileSnapshots.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry

	// WorkingDir anchors relative paths for rule include/exclude globs and
	// rule options. Empty means paths are used as given.
	WorkingDir string
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// activeRule is a resolved rule bound to the file being linted.
type activeRule struct {
	resolved ResolvedRule
	ctx      *RuleContext
	detached bool
}

// LintFile parses and lints a single file. Offenses are collected for the
// whole tree before any correction runs.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	resolved, err := ResolveRules(e.Registry, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve rules: %w", err)
	}

	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	active, dispatch := e.bindRules(ctx, snapshot, cfg, resolved)
	if len(active) == 0 {
		return result, nil
	}

	walkErr := rbast.Walk(snapshot.Root, func(node *rbast.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ar := range dispatch[node.Kind] {
			if ar.detached {
				continue
			}
			if err := safeCheck(ar, node); err != nil {
				result.RuleErrors[ar.resolved.Rule.ID()] = err
				ar.detached = true
			}
		}
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("linting cancelled: %w", walkErr)
	}

	var corrections []Correction
	for _, ar := range active {
		for _, diag := range ar.ctx.Diagnostics() {
			result.Diagnostics = append(result.Diagnostics, diag)
			if ar.resolved.AutoFix && diag.Correction != nil {
				corrections = append(corrections, diag.Correction)
			}
		}
	}
	slices.SortStableFunc(result.Diagnostics, compareDiagnostics)

	if len(corrections) > 0 {
		e.correct(result, content, corrections)
	}

	return result, nil
}

// bindRules creates one RuleContext per applicable rule and indexes the rules
// by the node kinds they visit. Rule order within a kind follows rule ID.
func (e *Engine) bindRules(
	ctx context.Context,
	snapshot *rbast.FileSnapshot,
	cfg *config.Config,
	resolved []ResolvedRule,
) ([]*activeRule, map[rbast.NodeKind][]*activeRule) {
	relPath := relativePath(e.WorkingDir, snapshot.Path)

	var active []*activeRule
	dispatch := make(map[rbast.NodeKind][]*activeRule)

	for _, rr := range resolved {
		if !rr.AppliesTo(relPath) {
			continue
		}

		ruleCtx := NewRuleContext(ctx, snapshot, cfg, rr.Config)
		ruleCtx.Registry = e.Registry
		ruleCtx.WorkingDir = e.WorkingDir
		ruleCtx.rule = rr.Rule
		ruleCtx.severity = rr.Severity

		ar := &activeRule{resolved: rr, ctx: ruleCtx}
		active = append(active, ar)
		for _, kind := range rr.Rule.Kinds() {
			dispatch[kind] = append(dispatch[kind], ar)
		}
	}

	return active, dispatch
}

// correct runs every correction against one Corrector. A panicking callback
// or any conflict abandons all edits for the file.
func (e *Engine) correct(result *FileResult, content []byte, corrections []Correction) {
	corrector := fix.NewCorrector(content)
	for _, correction := range corrections {
		if err := safeCorrect(correction, corrector); err != nil {
			result.CorrectionErr = err
			return
		}
	}

	edits, err := corrector.Prepared()
	if err != nil {
		result.CorrectionErr = err
		result.EditConflicts = true
		return
	}
	result.Edits = edits
}

// safeCheck runs one rule on one node, turning a panic into an error.
func safeCheck(ar *activeRule, node *rbast.Node) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("rule %s panicked on %s node: %v", ar.resolved.Rule.ID(), node.Kind, recovered)
		}
	}()
	return ar.resolved.Rule.Check(ar.ctx, node)
}

func safeCorrect(correction Correction, corrector *fix.Corrector) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("correction panicked: %v", recovered)
		}
	}()
	correction(corrector)
	return nil
}

func compareDiagnostics(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.StartOffset, b.StartOffset),
		cmp.Compare(a.RuleID, b.RuleID),
	)
}
