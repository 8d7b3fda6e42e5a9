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
	// ScreenOverloadRuleID is the identifier for the screen time rule
	ScreenOverloadRuleID = "screen_overload"

	DefaultSevereScreenAbove  = 8.0
	DefaultSevereScreenPoints = 3
	DefaultMildScreenAbove    = 6.0
	DefaultMildScreenPoints   = 1
)

// ScreenOverloadRule adds points for long screen time.
type ScreenOverloadRule struct {
	config       rule.RuleConfig
	severeAbove  float64
	severePoints int
	mildAbove    float64
	mildPoints   int
}

// NewScreenOverloadRule creates a new screen overload rule.
func NewScreenOverloadRule(config rule.RuleConfig) *ScreenOverloadRule {
	r := &ScreenOverloadRule{
		config:       config,
		severeAbove:  config.GetFloat("severe_above", DefaultSevereScreenAbove),
		severePoints: config.GetInt("severe_points", DefaultSevereScreenPoints),
		mildAbove:    config.GetFloat("mild_above", DefaultMildScreenAbove),
		mildPoints:   config.GetInt("mild_points", DefaultMildScreenPoints),
	}

	logrus.Infof("creating screen overload rule with severe>%.1f mild>%.1f", r.severeAbove, r.mildAbove)
	return r
}

// ID returns the rule identifier.
func (r *ScreenOverloadRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *ScreenOverloadRule) Name() string {
	return "Screen Overload"
}

// Config returns the rule configuration.
func (r *ScreenOverloadRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks screen time against the two tiers.
func (r *ScreenOverloadRule) Evaluate(ctx context.Context, m state.DailyMetrics) (bool, *rule.Finding, error) {
	switch {
	case m.ScreenTimeHours > r.severeAbove:
		return true, rule.NewFinding(r.ID(), r.severePoints, "Severe screen overload").
			WithMetadata("screen_time_hours", m.ScreenTimeHours), nil
	case m.ScreenTimeHours > r.mildAbove:
		return true, rule.NewFinding(r.ID(), r.mildPoints, "Elevated screen time").
			WithMetadata("screen_time_hours", m.ScreenTimeHours), nil
	}
	return false, nil, nil
}
