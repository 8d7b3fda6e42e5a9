// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	ruleBuiltin "github.com/AccelByte/extend-cognitive-score/pkg/rule/builtin"
	"github.com/sirupsen/logrus"
)

// InitRuleEngine creates the burnout rule engine from the rule file at
// rulesPath. A missing file falls back to the builtin rule set with its
// default thresholds.
//
// ============================================================
// DEVELOPER: Register custom rule types here.
// ============================================================
// Rules inspect a day's metrics and contribute risk points. The
// engine sums the points of every matching rule and classifies
// the total as Low, Moderate or High.
//
// Steps to add a new rule:
// 1. Create your rule in pkg/rule/builtin/
// 2. Implement the Rule interface
// 3. Register the rule type in pkg/rule/builtin/init.go
// 4. Add rule configuration to config/burnout.yaml
// ============================================================
func InitRuleEngine(rulesPath string) (*rule.Engine, error) {
	ruleBuiltin.RegisterBuiltinRules()

	configs, err := loadRuleConfigs(rulesPath)
	if err != nil {
		return nil, err
	}

	registry := rule.NewRegistry()
	if err := rule.RegisterRules(registry, configs); err != nil {
		return nil, fmt.Errorf("failed to register rules: %w", err)
	}
	logrus.Infof("registered %d burnout rules", registry.Count())

	return rule.NewEngine(registry), nil
}

func loadRuleConfigs(path string) ([]rule.RuleConfig, error) {
	if path == "" {
		logrus.Info("no rule file configured, using builtin burnout rules")
		return ruleBuiltin.DefaultConfigs(), nil
	}

	file, err := rule.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("rule file %s not found, using builtin burnout rules", path)
		return ruleBuiltin.DefaultConfigs(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %s: %w", path, err)
	}

	logrus.Infof("loaded burnout rules from %s", path)
	return file.Rules, nil
}
