// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"testing"

	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

func init() {
	RegisterBuiltinRules()
}

func points(t *testing.T, r rule.Rule, m state.DailyMetrics) int {
	t.Helper()
	matched, finding, err := r.Evaluate(context.Background(), m)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !matched {
		return 0
	}
	return finding.Points
}

func TestSleepDeficitRule_Evaluate(t *testing.T) {
	r := NewSleepDeficitRule(rule.RuleConfig{ID: SleepDeficitRuleID, Enabled: true})

	tests := []struct {
		sleep    float64
		expected int
	}{
		{0, 3},
		{5.9, 3},
		{6, 1},
		{6.9, 1},
		{7, 0},
		{9, 0},
	}

	for _, tt := range tests {
		if got := points(t, r, state.DailyMetrics{SleepHours: tt.sleep}); got != tt.expected {
			t.Errorf("sleep %v: points = %d, expected %d", tt.sleep, got, tt.expected)
		}
	}
}

func TestScreenOverloadRule_Evaluate(t *testing.T) {
	r := NewScreenOverloadRule(rule.RuleConfig{ID: ScreenOverloadRuleID, Enabled: true})

	tests := []struct {
		screen   float64
		expected int
	}{
		{0, 0},
		{6, 0},
		{6.1, 1},
		{8, 1},
		{8.1, 3},
		{12, 3},
	}

	for _, tt := range tests {
		if got := points(t, r, state.DailyMetrics{ScreenTimeHours: tt.screen}); got != tt.expected {
			t.Errorf("screen %v: points = %d, expected %d", tt.screen, got, tt.expected)
		}
	}
}

func TestSedentaryRule_Evaluate(t *testing.T) {
	r := NewSedentaryRule(rule.RuleConfig{ID: SedentaryRuleID, Enabled: true})

	if got := points(t, r, state.DailyMetrics{}); got != 2 {
		t.Errorf("missing steps: points = %d, expected 2", got)
	}
	if got := points(t, r, state.DailyMetrics{Steps: 2999}); got != 2 {
		t.Errorf("2999 steps: points = %d, expected 2", got)
	}
	if got := points(t, r, state.DailyMetrics{Steps: 3000}); got != 0 {
		t.Errorf("3000 steps: points = %d, expected 0", got)
	}
}

func TestIdleDriftRule_Evaluate(t *testing.T) {
	r := NewIdleDriftRule(rule.RuleConfig{ID: IdleDriftRuleID, Enabled: true})

	if got := points(t, r, state.DailyMetrics{IdleTimeHours: 3}); got != 0 {
		t.Errorf("3h idle: points = %d, expected 0", got)
	}
	if got := points(t, r, state.DailyMetrics{IdleTimeHours: 3.5}); got != 1 {
		t.Errorf("3.5h idle: points = %d, expected 1", got)
	}
}

func TestRuleParameters_OverrideDefaults(t *testing.T) {
	r := NewSedentaryRule(rule.RuleConfig{
		ID:         "strict_sedentary",
		Enabled:    true,
		Parameters: map[string]interface{}{"min_steps": 8000, "points": 4},
	})

	if got := points(t, r, state.DailyMetrics{Steps: 5000}); got != 4 {
		t.Errorf("points = %d, expected 4 with overridden thresholds", got)
	}
}

func newDefaultEngine(t *testing.T) *rule.Engine {
	t.Helper()
	registry := rule.NewRegistry()
	if err := rule.RegisterRules(registry, DefaultConfigs()); err != nil {
		t.Fatalf("RegisterRules() error = %v", err)
	}
	if registry.Count() != 4 {
		t.Fatalf("Expected 4 default rules, got %d", registry.Count())
	}
	return rule.NewEngine(registry)
}

func TestDefaultEngine_Assess(t *testing.T) {
	engine := newDefaultEngine(t)

	tests := []struct {
		name     string
		metrics  state.DailyMetrics
		points   int
		expected state.BurnoutRisk
	}{
		{
			name:     "exhausted day",
			metrics:  state.DailyMetrics{SleepHours: 5, ScreenTimeHours: 9, Steps: 1000, IdleTimeHours: 4},
			points:   9,
			expected: state.BurnoutHigh,
		},
		{
			name:     "healthy day",
			metrics:  state.DailyMetrics{SleepHours: 7.5, ScreenTimeHours: 3, Steps: 8000, IdleTimeHours: 1},
			points:   0,
			expected: state.BurnoutLow,
		},
		{
			name:     "moderate",
			metrics:  state.DailyMetrics{SleepHours: 6.5, ScreenTimeHours: 7, Steps: 2000},
			points:   4,
			expected: state.BurnoutModerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := engine.Assess(context.Background(), tt.metrics)
			if a.Points != tt.points || a.Risk != tt.expected {
				t.Errorf("Assess() = %d %s, expected %d %s", a.Points, a.Risk, tt.points, tt.expected)
			}
		})
	}
}

func TestCreateRule_UnknownType(t *testing.T) {
	_, err := rule.CreateRule(rule.RuleConfig{ID: "x", Type: "nope", Enabled: true})
	if err == nil {
		t.Error("Expected error for unknown rule type")
	}

	r, err := rule.CreateRule(rule.RuleConfig{ID: "off", Type: SedentaryRuleID, Enabled: false})
	if err != nil || r != nil {
		t.Errorf("disabled rule: got %v, %v; expected nil, nil", r, err)
	}
}
