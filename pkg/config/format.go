package config

// FormatRuleID renders a rule identifier in the requested format.
// An empty name always renders as the ID.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	if ruleName == "" {
		return ruleID
	}

	switch format {
	case RuleFormatName:
		return ruleName
	case RuleFormatCombined:
		return ruleID + "/" + ruleName
	case RuleFormatID:
		return ruleID
	default:
		return ruleID
	}
}
