package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used for generated YAML.
const yamlIndent = 2

// ToYAML serializes the persisted part of the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	return cfg, nil
}

// Clone returns a deep copy of the configuration, including CLI-only fields.
// Nested values inside rule Options are shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Ignore = slices.Clone(c.Ignore)
	clone.EnableRules = slices.Clone(c.EnableRules)
	clone.DisableRules = slices.Clone(c.DisableRules)
	clone.FixRules = slices.Clone(c.FixRules)

	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			clone.Rules[id] = rc.Clone()
		}
	}

	return &clone
}

// Clone returns a copy of the rule configuration that shares no pointers
// with rc.
func (rc RuleConfig) Clone() RuleConfig {
	clone := RuleConfig{
		Include: slices.Clone(rc.Include),
		Exclude: slices.Clone(rc.Exclude),
		Options: maps.Clone(rc.Options),
	}
	if rc.Enabled != nil {
		enabled := *rc.Enabled
		clone.Enabled = &enabled
	}
	if rc.Severity != nil {
		severity := *rc.Severity
		clone.Severity = &severity
	}
	if rc.AutoFix != nil {
		autoFix := *rc.AutoFix
		clone.AutoFix = &autoFix
	}
	return clone
}
