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
	// SleepDeficitRuleID is the identifier for the short sleep rule
	SleepDeficitRuleID = "sleep_deficit"

	DefaultSevereSleepBelow  = 6.0
	DefaultSevereSleepPoints = 3
	DefaultMildSleepBelow    = 7.0
	DefaultMildSleepPoints   = 1
)

// SleepDeficitRule adds points for short sleep. An unrecorded night
// (0 hours) counts as the severe tier.
type SleepDeficitRule struct {
	config       rule.RuleConfig
	severeBelow  float64
	severePoints int
	mildBelow    float64
	mildPoints   int
}

// NewSleepDeficitRule creates a new sleep deficit rule.
func NewSleepDeficitRule(config rule.RuleConfig) *SleepDeficitRule {
	r := &SleepDeficitRule{
		config:       config,
		severeBelow:  config.GetFloat("severe_below", DefaultSevereSleepBelow),
		severePoints: config.GetInt("severe_points", DefaultSevereSleepPoints),
		mildBelow:    config.GetFloat("mild_below", DefaultMildSleepBelow),
		mildPoints:   config.GetInt("mild_points", DefaultMildSleepPoints),
	}

	logrus.Infof("creating sleep deficit rule with severe<%.1f mild<%.1f", r.severeBelow, r.mildBelow)
	return r
}

// ID returns the rule identifier.
func (r *SleepDeficitRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *SleepDeficitRule) Name() string {
	return "Sleep Deficit"
}

// Config returns the rule configuration.
func (r *SleepDeficitRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks sleep hours against the two tiers.
func (r *SleepDeficitRule) Evaluate(ctx context.Context, m state.DailyMetrics) (bool, *rule.Finding, error) {
	switch {
	case m.SleepHours < r.severeBelow:
		return true, rule.NewFinding(r.ID(), r.severePoints, "Severe sleep deficit").
			WithMetadata("sleep_hours", m.SleepHours), nil
	case m.SleepHours < r.mildBelow:
		return true, rule.NewFinding(r.ID(), r.mildPoints, "Mild sleep deficit").
			WithMetadata("sleep_hours", m.SleepHours), nil
	}
	return false, nil, nil
}
