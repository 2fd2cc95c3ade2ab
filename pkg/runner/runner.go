package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gorblint/internal/logging"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently with
// at most opts.Jobs workers. Files are independent: a failure in one is
// recorded in its outcome and does not stop the others. Outcomes are
// returned in path order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovery complete", logging.FieldFilesDiscovered, len(files))

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	outcomes := make([]FileOutcome, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcomes[i] = FileOutcome{Path: path}
			if err := ctx.Err(); err != nil {
				outcomes[i].Error = err
				return nil
			}

			pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Config, pipelineOpts)
			if err != nil {
				logger.Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
				outcomes[i].Error = err
				return nil
			}
			for ruleID, ruleErr := range pr.RuleErrors {
				logger.Warn("rule failed", logging.FieldPath, path, logging.FieldRule, ruleID, logging.FieldError, ruleErr)
			}
			outcomes[i].Result = pr
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
