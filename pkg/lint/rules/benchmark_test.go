package rules

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/parser/treesitter"
)

// reversedFactory builds a factory with n traits in reverse alphabetical
// order.
func reversedFactory(n int) []byte {
	var b strings.Builder
	b.WriteString("FactoryBot.define do\n  factory :user do\n    name { \"x\" }\n")
	for i := n; i > 0; i-- {
		fmt.Fprintf(&b, "    trait :t%03d do\n      role { %d }\n    end\n", i, i)
	}
	b.WriteString("  end\nend\n")
	return []byte(b.String())
}

func BenchmarkParseFactory(b *testing.B) {
	content := reversedFactory(50)
	parser := treesitter.New()
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		if _, err := parser.Parse(ctx, "spec/factories/users.rb", content); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTraitOrder(b *testing.B) {
	benchmarkRule(b, NewTraitOrderRule(), "spec/factories/users.rb", reversedFactory(50), false)
}

func BenchmarkTraitOrderWithFix(b *testing.B) {
	benchmarkRule(b, NewTraitOrderRule(), "spec/factories/users.rb", reversedFactory(50), true)
}

func BenchmarkServiceShape(b *testing.B) {
	var src strings.Builder
	for i := range 20 {
		fmt.Fprintf(&src, `class Service%d
  def self.call(...)
    new(...).call
  end

  def initialize(user)
    @user = user
  end

  def call
    helper
  end

  private

  def helper
    @user
  end
end
`, i)
	}
	benchmarkRule(b, NewServiceShapeRule(), "app/services/service.rb", []byte(src.String()), false)
}

func benchmarkRule(b *testing.B, rule lint.Rule, path string, content []byte, fix bool) {
	b.Helper()

	registry := lint.NewRegistry()
	registry.Register(rule)
	engine := lint.NewEngine(treesitter.New(), registry)

	cfg := config.NewConfig()
	cfg.Fix = fix
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		result, err := engine.LintFile(ctx, path, content, cfg)
		if err != nil {
			b.Fatal(err)
		}
		if len(result.RuleErrors) > 0 {
			b.Fatalf("rule errors: %v", result.RuleErrors)
		}
	}
}
