// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"

	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/sirupsen/logrus"
)

const (
	// SedentaryRuleID is the identifier for the low step count rule
	SedentaryRuleID = "sedentary"

	DefaultMinSteps        = 3000
	DefaultSedentaryPoints = 2
)

// SedentaryRule adds points when the step count is low. Missing steps are 0.
type SedentaryRule struct {
	config   rule.RuleConfig
	minSteps int
	points   int
}

// NewSedentaryRule creates a new sedentary rule.
func NewSedentaryRule(config rule.RuleConfig) *SedentaryRule {
	minSteps := config.GetInt("min_steps", DefaultMinSteps)

	logrus.Infof("creating sedentary rule with min_steps=%d", minSteps)

	return &SedentaryRule{
		config:   config,
		minSteps: minSteps,
		points:   config.GetInt("points", DefaultSedentaryPoints),
	}
}

// ID returns the rule identifier.
func (r *SedentaryRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *SedentaryRule) Name() string {
	return "Sedentary Day"
}

// Config returns the rule configuration.
func (r *SedentaryRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the step count.
func (r *SedentaryRule) Evaluate(ctx context.Context, m state.DailyMetrics) (bool, *rule.Finding, error) {
	if m.Steps < r.minSteps {
		return true, rule.NewFinding(r.ID(), r.points, "Low step count").
			WithMetadata("steps", m.Steps).
			WithMetadata("min_steps", r.minSteps), nil
	}
	return false, nil, nil
}
