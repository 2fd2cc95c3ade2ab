package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/yaklabco/gorblint/internal/configloader"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/fsutil"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/runner"
)

// Exit codes for gorblint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrLintIssuesFound is returned when lint issues are found.
var ErrLintIssuesFound = errors.New("lint issues found")

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by the root command to an exit code.
// Errors without an explicit code are treated as usage errors, since cobra
// reports unknown flags and bad arguments that way.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, configloader.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, lint.ErrFileNotFound), errors.Is(err, lint.ErrPermissionDenied),
		errors.Is(err, lint.ErrWriteFailure), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitInternalError
	default:
		return ExitInvalidUsage
	}
}

// ExitCodeFromResult determines the exit code based on result and strict mode.
// Error diagnostics win over unreadable files, which win over strict warnings.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.DiagnosticsBySeverity[config.SeverityError] > 0 {
		return ExitLintErrors
	}

	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}

	if strict && result.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0 {
		return ExitLintWarnings
	}

	return ExitSuccess
}
