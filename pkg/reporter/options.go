package reporter

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yaklabco/gorblint/pkg/analysis"
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output: "auto" (default), "always", "never".
	Color string

	// ShowContext includes the source line under each diagnostic.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Statistics replaces the one-line text summary with a summary block and
	// a per-rule breakdown.
	Statistics bool

	// SortBy orders the per-rule breakdown. Empty means by count.
	SortBy analysis.SortField

	// Compact uses minified JSON and SARIF.
	Compact bool

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat config.RuleFormat

	// WorkingDir is the directory paths are shown relative to.
	// If empty, paths are kept as-is.
	WorkingDir string

	// Version is reported as the tool version in JSON and SARIF.
	Version string

	// Registry supplies rule metadata for SARIF. Optional.
	Registry *lint.Registry
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		RuleFormat:  config.RuleFormatID,
		Version:     "dev",
	}
}

// displayPath returns path relative to the working directory when it lies
// beneath it, always with forward slashes.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || !filepath.IsLocal(rel) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
