package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gorblint/internal/logging"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/fsutil"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// DefaultMaxFixPasses is the number of analyze-then-correct passes.
// A single pass analyzes the whole tree once and applies one batch of edits.
const DefaultMaxFixPasses = 1

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParseFailure indicates a parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds the diagnostics of the first pass and the edits of
	// the last one.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if corrections changed the content.
	Modified bool

	// ModifiedContent is the corrected content (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff in dry-run mode.
	Diff *fix.Diff

	// Skipped is true if corrections were discarded (e.g. concurrent
	// modification or an invalid rewrite).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of correction passes performed.
	FixPasses int

	// TotalEditsApplied counts edits across all passes.
	TotalEditsApplied int
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls safety pipeline behavior.
type PipelineOptions struct {
	// Fix enables auto-correction.
	Fix bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection compares content hashes instead of only size and
	// modification time before writing.
	StrictRaceDetection bool

	// ReParseAfterFix re-parses corrected content and discards the
	// corrections if parsing fails.
	ReParseAfterFix bool

	// MaxFixPasses bounds re-analysis after corrections. 0 means
	// DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		ReParseAfterFix:     true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine is the lint engine used for parsing and rule execution.
	Engine *Engine
}

// NewPipeline creates a new safety pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full safety pipeline for a single file:
//  1. Read and hash the original file.
//  2. Lint, then apply the batch of corrections in memory.
//  3. Optionally re-parse to validate the rewrite.
//  4. Generate a diff in dry-run mode and stop.
//  5. Check for concurrent modifications.
//  6. Create a backup (if enabled).
//  7. Write the new content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	logger := logging.FromContext(ctx)

	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		logger.Warn("skipping write", logging.FieldPath, path, "reason", result.SkipReason)
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	logger.Debug("file corrected", logging.FieldPath, path, logging.FieldEdits, result.TotalEditsApplied)

	return result, nil
}

// ProcessContent lints and corrects in-memory content without file I/O.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}
	logger := logging.FromContext(ctx)

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := original
	for pass := range maxPasses {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled: %w", err)
		}

		fileResult, err := p.Engine.LintFile(ctx, path, content, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}
		if pass == 0 {
			result.FileResult = fileResult
		} else {
			// Later passes only contribute their edits.
			result.Edits = fileResult.Edits
			result.EditConflicts = result.EditConflicts || fileResult.EditConflicts
		}

		if fileResult.EditConflicts {
			logger.Debug("conflicting corrections skipped",
				logging.FieldPath, path, logging.FieldError, fileResult.CorrectionErr)
		}
		if !opts.Fix || len(fileResult.Edits) == 0 {
			break
		}

		content = fix.ApplyEdits(content, fileResult.Edits)
		result.FixPasses++
		result.TotalEditsApplied += len(fileResult.Edits)
		result.Modified = true
	}

	if !result.Modified {
		return result, nil
	}
	result.ModifiedContent = content

	if opts.ReParseAfterFix {
		if reason := p.reparse(ctx, path, content, result.Snapshot); reason != "" {
			result.Skipped = true
			result.SkipReason = reason
			result.Modified = false
			result.ModifiedContent = nil
			logger.Debug("corrections discarded", logging.FieldPath, path, "reason", reason)
			return result, nil
		}
	}

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, original, content)
	}

	return result, nil
}

// reparse parses corrected content and returns why it must be discarded, or
// "" when it is safe to keep. Syntax damage already present in the original
// does not count against the corrections.
func (p *Pipeline) reparse(ctx context.Context, path string, content []byte, original *rbast.FileSnapshot) string {
	snapshot, err := p.Engine.Parser.Parse(ctx, path, content)
	if err != nil {
		return fmt.Sprintf("re-parse failed: %v", err)
	}
	if snapshot.SyntaxErrors && (original == nil || !original.SyntaxErrors) {
		return "re-parse failed: corrections introduce syntax errors"
	}
	return ""
}

// checkModified reports whether the file changed since it was read.
func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	var (
		modified bool
		err      error
	)
	if strict {
		modified, err = fsutil.CheckModified(ctx, info)
	} else {
		modified, err = fsutil.CheckModifiedQuick(ctx, info)
	}
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps err with the matching pipeline sentinel.
func categorizeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Fix = cfg.Fix || cfg.DryRun
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	return opts
}
