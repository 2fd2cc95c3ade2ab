package configloader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/gorblint/pkg/config"
	"github.com/yaklabco/gorblint/pkg/lint"
)

// tagRules returns the IDs of the rules carrying tag, sorted.
func tagRules(registry *lint.Registry, tag string) []string {
	var ids []string
	for _, rule := range registry.Rules() {
		if slices.Contains(rule.Tags(), tag) {
			ids = append(ids, rule.ID())
		}
	}
	return ids
}

// normalizeRuleKeys rewrites rule keys to canonical IDs. Keys may be IDs
// (RB001), names (factory-trait-order), legacy aliases
// (FactoryBot/TraitOrder), or tags (services), which configure every rule
// with that tag. Settings under a rule's own key win over tag settings.
// Unknown keys are kept so validation can report them.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	fromTags := make(map[string]config.RuleConfig)
	seenIDs := make(map[string]string) // canonical ID -> original key

	// Sorted so duplicate handling does not depend on map order.
	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		ruleCfg := cfg.Rules[key]

		canonicalID, _, found := registry.Resolve(key)
		if !found {
			if ids := tagRules(registry, key); len(ids) > 0 {
				for _, id := range ids {
					fromTags[id] = mergeRuleConfig(fromTags[id], ruleCfg)
				}
				continue
			}
			normalized[key] = ruleCfg
			continue
		}

		if originalKey, exists := seenIDs[canonicalID]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using %q",
					originalKey, key, canonicalID, key))
		}
		seenIDs[canonicalID] = key
		normalized[canonicalID] = ruleCfg
	}

	for id, tagCfg := range fromTags {
		if own, ok := normalized[id]; ok {
			normalized[id] = mergeRuleConfig(tagCfg, own)
		} else {
			normalized[id] = tagCfg
		}
	}

	cfg.Rules = normalized
}

// normalizeRuleList resolves CLI and env rule lists (IDs, names, aliases,
// or tags) to canonical IDs. Unknown entries are returned as an error.
func normalizeRuleList(registry *lint.Registry, keys []string) ([]string, error) {
	if keys == nil {
		return nil, nil
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, _, ok := registry.Resolve(key); ok {
			ids = append(ids, id)
			continue
		}
		if tagged := tagRules(registry, key); len(tagged) > 0 {
			ids = append(ids, tagged...)
			continue
		}
		return nil, fmt.Errorf("unknown rule %q", key)
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}
