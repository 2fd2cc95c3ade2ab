package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gorblint/pkg/fix"
	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/pattern"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	factoryBlock = pattern.MustCompile(`(block (send nil :factory ...) ...)`)
	traitBlock   = pattern.MustCompile(`(block (send nil :trait $name=(sym _) ...) ...)`)
)

// traitEntry is one trait block found directly inside a factory.
type traitEntry struct {
	name string
	node *rbast.Node
}

// TraitOrderRule checks that traits inside a FactoryBot factory are defined
// in alphabetical order.
type TraitOrderRule struct {
	lint.BaseRule
}

// NewTraitOrderRule creates the factory-trait-order rule.
func NewTraitOrderRule() *TraitOrderRule {
	return &TraitOrderRule{
		BaseRule: lint.NewBaseRule(
			"RB001",
			"factory-trait-order",
			"Traits inside a factory should be defined in alphabetical order",
			[]string{"factory_bot", "ordering"},
			true,
			rbast.NodeBlock,
		),
	}
}

// Check reports each adjacent pair of traits that is out of order.
func (r *TraitOrderRule) Check(ctx *lint.RuleContext, node *rbast.Node) error {
	if !pattern.Matches(factoryBlock, node) {
		return nil
	}

	entries := collectTraits(node)
	if len(entries) < 2 {
		return nil
	}

	var correction lint.Correction
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.name <= cur.name {
			continue
		}
		if correction == nil {
			correction = sortTraits(entries)
		}

		msg := fmt.Sprintf("Traits should be defined in alphabetical order. Expected `%s` to come before `%s`.",
			prev.name, cur.name)
		ctx.Report(lint.NewDiagnostic(r.ID(), cur.node.Call(), msg).
			WithSuggestion(fmt.Sprintf("Move trait `%s` above `%s`", cur.name, prev.name)).
			WithCorrection(correction).
			Build())
	}

	return nil
}

// collectTraits returns the trait blocks directly inside factory, in source
// order. Anything else in the body is ignored.
func collectTraits(factory *rbast.Node) []traitEntry {
	var entries []traitEntry
	for _, child := range factory.Body() {
		caps, ok := pattern.Match(traitBlock, child)
		if !ok {
			continue
		}
		entries = append(entries, traitEntry{name: caps["name"].Name, node: child})
	}
	return entries
}

// sortTraits returns a correction that rewrites every out-of-place trait
// block with the text of the block that belongs in its slot. Every offense of
// one factory shares it, so their edits are identical.
func sortTraits(entries []traitEntry) lint.Correction {
	original := slices.Clone(entries)
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b traitEntry) int {
		return strings.Compare(a.name, b.name)
	})

	return func(c *fix.Corrector) {
		for i, entry := range original {
			target := sorted[i].node
			if entry.node == target {
				continue
			}
			c.Replace(entry.node.Start, entry.node.End, target.Text())
		}
	}
}
