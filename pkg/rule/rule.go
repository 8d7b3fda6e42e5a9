// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"context"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

// Rule inspects a daily snapshot and contributes burnout risk points.
// Rules are registered in a Registry and evaluated by the Engine.
type Rule interface {
	// ID returns unique rule identifier.
	ID() string

	// Name returns human-readable rule name.
	Name() string

	// Evaluate checks the snapshot against the rule thresholds.
	// Returns true and a finding if the rule contributes points, false otherwise.
	// Returns error only for unexpected failures, not rule mismatches.
	Evaluate(ctx context.Context, m state.DailyMetrics) (bool, *Finding, error)

	// Config returns the rule's configuration.
	Config() RuleConfig
}

// Finding represents the risk points a single rule contributed.
type Finding struct {
	RuleID   string                 `json:"ruleId"`
	Points   int                    `json:"points"`
	Reason   string                 `json:"reason"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewFinding creates a new finding with the given parameters.
func NewFinding(ruleID string, points int, reason string) *Finding {
	return &Finding{
		RuleID:   ruleID,
		Points:   points,
		Reason:   reason,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the finding and returns it for chaining.
func (f *Finding) WithMetadata(key string, value interface{}) *Finding {
	f.Metadata[key] = value
	return f
}
