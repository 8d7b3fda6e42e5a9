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
	// IdleDriftRuleID is the identifier for the idle screen time rule
	IdleDriftRuleID = "idle_drift"

	DefaultMaxIdleHours    = 3.0
	DefaultIdleDriftPoints = 1
)

// IdleDriftRule adds points when too much screen time is idle.
type IdleDriftRule struct {
	config       rule.RuleConfig
	maxIdleHours float64
	points       int
}

// NewIdleDriftRule creates a new idle drift rule.
func NewIdleDriftRule(config rule.RuleConfig) *IdleDriftRule {
	maxIdle := config.GetFloat("max_idle_hours", DefaultMaxIdleHours)

	logrus.Infof("creating idle drift rule with max_idle_hours=%.1f", maxIdle)

	return &IdleDriftRule{
		config:       config,
		maxIdleHours: maxIdle,
		points:       config.GetInt("points", DefaultIdleDriftPoints),
	}
}

// ID returns the rule identifier.
func (r *IdleDriftRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *IdleDriftRule) Name() string {
	return "Idle Drift"
}

// Config returns the rule configuration.
func (r *IdleDriftRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks idle hours.
func (r *IdleDriftRule) Evaluate(ctx context.Context, m state.DailyMetrics) (bool, *rule.Finding, error) {
	if m.IdleTimeHours > r.maxIdleHours {
		return true, rule.NewFinding(r.ID(), r.points, "Idle screen time").
			WithMetadata("idle_time_hours", m.IdleTimeHours), nil
	}
	return false, nil, nil
}
