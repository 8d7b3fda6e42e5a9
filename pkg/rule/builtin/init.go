// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package builtin contains the burnout risk rules shipped with the service.
package builtin

import (
	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
)

// RegisterBuiltinRules registers all built-in rule types with the factory.
func RegisterBuiltinRules() {
	rule.RegisterRuleType(SleepDeficitRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewSleepDeficitRule(config), nil
	})

	rule.RegisterRuleType(ScreenOverloadRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewScreenOverloadRule(config), nil
	})

	rule.RegisterRuleType(SedentaryRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewSedentaryRule(config), nil
	})

	rule.RegisterRuleType(IdleDriftRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewIdleDriftRule(config), nil
	})
}

// DefaultConfigs returns the rule set used when no rule file is configured.
func DefaultConfigs() []rule.RuleConfig {
	return []rule.RuleConfig{
		{ID: SleepDeficitRuleID, Type: SleepDeficitRuleID, Enabled: true},
		{ID: ScreenOverloadRuleID, Type: ScreenOverloadRuleID, Enabled: true},
		{ID: SedentaryRuleID, Type: SedentaryRuleID, Enabled: true},
		{ID: IdleDriftRuleID, Type: IdleDriftRuleID, Enabled: true},
	}
}
