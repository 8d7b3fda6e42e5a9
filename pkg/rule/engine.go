// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"context"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/sirupsen/logrus"
)

const (
	// HighRiskPoints is the total at or above which risk is High
	HighRiskPoints = 5

	// ModerateRiskPoints is the total at or above which risk is Moderate
	ModerateRiskPoints = 3
)

// Assessment is the outcome of evaluating all rules on one snapshot.
type Assessment struct {
	Risk     state.BurnoutRisk `json:"risk"`
	Points   int               `json:"points"`
	Findings []*Finding        `json:"findings"`
}

// Classify maps total risk points to a risk label.
func Classify(points int) state.BurnoutRisk {
	switch {
	case points >= HighRiskPoints:
		return state.BurnoutHigh
	case points >= ModerateRiskPoints:
		return state.BurnoutModerate
	default:
		return state.BurnoutLow
	}
}

// Engine evaluates snapshots against registered rules.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new rule evaluation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// Assess evaluates the snapshot against all enabled rules and sums their points.
// A failing rule is logged and skipped; findings are ordered by rule ID.
func (e *Engine) Assess(ctx context.Context, m state.DailyMetrics) Assessment {
	assessment := Assessment{Findings: []*Finding{}}

	for _, rule := range e.registry.GetEnabled() {
		matched, finding, err := rule.Evaluate(ctx, m)
		if err != nil {
			logrus.Errorf("rule %s evaluation failed: %v", rule.ID(), err)
			continue
		}

		if matched && finding != nil {
			logrus.Debugf("rule %s contributed %d points: %s", rule.ID(), finding.Points, finding.Reason)
			assessment.Points += finding.Points
			assessment.Findings = append(assessment.Findings, finding)
		}
	}

	assessment.Risk = Classify(assessment.Points)
	return assessment
}

// GetRegistry returns the rule registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
