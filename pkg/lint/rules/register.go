package rules

import (
	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	registry.Register(NewTraitOrderRule())   // RB001
	registry.Register(NewServiceShapeRule()) // RB002
}

// RegisterLegacyAliases registers the RuboCop cop names that existing
// .rubocop.yml-style configurations use for the same checks.
func RegisterLegacyAliases(registry *lint.Registry) {
	registry.RegisterAlias("FactoryBot/TraitOrder", "RB001")
	registry.RegisterAlias("Style/TraitOrder", "RB001")
	registry.RegisterAlias("Services/CallShape", "RB002")
	registry.RegisterAlias("Style/ServiceCallShape", "RB002")
}

// RuleInfos describes every rule in registry for config templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		info := config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			CanFix:      rule.CanFix(),
		}
		if defaulter, ok := rule.(lint.OptionDefaulter); ok {
			info.Options = defaulter.DefaultOptions()
		}
		infos = append(infos, info)
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterLegacyAliases(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
