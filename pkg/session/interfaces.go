// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package session runs the per-user engine: activity accrual, live score
// and burnout recomputation, biometric sync and the snapshot merge with
// the remote daily document.
package session

import (
	"context"

	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

// Store is the persistence a session needs. *state.RedisStore implements it.
type Store interface {
	GetDailyMetrics(ctx context.Context, userID, date string) (state.DailyMetrics, bool, error)
	MergeDailyMetrics(ctx context.Context, userID, date string, patch state.Patch) (int64, error)
	Subscribe(ctx context.Context, userID, date string) (<-chan state.DailyMetrics, error)
	GetProgression(ctx context.Context, userID string) (*state.ProgressionState, error)
	SaveProgression(ctx context.Context, userID string, p *state.ProgressionState) error
	ListExams(ctx context.Context, userID string) ([]state.Exam, error)
}

// Assessor classifies burnout risk. *rule.Engine implements it.
type Assessor interface {
	Assess(ctx context.Context, m state.DailyMetrics) rule.Assessment
}
