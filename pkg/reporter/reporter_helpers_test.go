package reporter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/lint/rules"
	"github.com/yaklabco/gorblint/pkg/parser/treesitter"
	"github.com/yaklabco/gorblint/pkg/runner"
)

const workDir = "/repo"

const unsortedFactory = `FactoryBot.define do
  factory :user do
    trait :zeta do
      label { "z" }
    end
    trait :alpha do
      label { "a" }
    end
  end
end
`

func newRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	return registry
}

// lintResult lints each file (absolute path under workDir -> source) in
// memory and assembles a runner.Result with matching stats.
func lintResult(t *testing.T, cfg *config.Config, files ...[2]string) *runner.Result {
	t.Helper()

	engine := lint.NewEngine(treesitter.New(), newRegistry())
	engine.WorkingDir = workDir
	pipeline := lint.NewPipeline(engine)

	result := &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[config.Severity]int{}}}
	for _, file := range files {
		pr, err := pipeline.ProcessContent(context.Background(), file[0], []byte(file[1]), cfg, lint.PipelineOptionsFromConfig(cfg))
		require.NoError(t, err)

		result.Files = append(result.Files, runner.FileOutcome{Path: file[0], Result: pr})
		result.Stats.FilesDiscovered++
		result.Stats.FilesProcessed++
		result.Stats.DiagnosticsTotal += len(pr.Diagnostics)
		result.Stats.DiagnosticsFixable += pr.FixableCount()
		if pr.HasIssues() {
			result.Stats.FilesWithIssues++
		}
		for _, d := range pr.Diagnostics {
			result.Stats.DiagnosticsBySeverity[d.Severity]++
		}
	}
	return result
}

func factoryResult(t *testing.T, cfg *config.Config) *runner.Result {
	t.Helper()
	return lintResult(t, cfg,
		[2]string{workDir + "/spec/factories/users.rb", unsortedFactory},
		[2]string{workDir + "/app/models/user.rb", "class User\nend\n"},
	)
}
