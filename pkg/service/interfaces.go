// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"errors"
)

// Collaborator interfaces consumed by the session and the HTTP API.
//
// You may not need to have interface and go with direct struct usage,
// but having interfaces allows easier mocking for unit tests.

// ErrWearableNotLinked means the user has no wearable feed; callers fall
// back to the simulator.
var ErrWearableNotLinked = errors.New("wearable not linked")

// WearableReading is one daily reading from an external wearable feed.
type WearableReading struct {
	Steps      int     `json:"steps"`
	Calories   int     `json:"calories"`
	AvgHR      int     `json:"avgHr"`
	SleepHours float64 `json:"sleepHours"`
}

type WearableFetcher interface {
	// FetchDaily returns the user's reading for date (yyyy-MM-dd).
	// Returns ErrWearableNotLinked when no feed exists.
	FetchDaily(ctx context.Context, userID, date string) (*WearableReading, error)
}

// MetricsSummary is the input for a generated insight.
type MetricsSummary struct {
	UserID      string  `json:"userId"`
	Date        string  `json:"date"`
	Score       int     `json:"score"`
	BurnoutRisk string  `json:"burnoutRisk"`
	SleepHours  float64 `json:"sleepHours"`
	StudyHours  float64 `json:"studyHours"`
	ScreenTime  float64 `json:"screenTimeHours"`
	ActiveFocus float64 `json:"activeFocusHours"`
	StreakDays  int     `json:"streakDays"`
	Level       int     `json:"level"`
}

type InsightGenerator interface {
	// Generate returns a short natural language insight for the summary.
	Generate(ctx context.Context, summary MetricsSummary) (string, error)
}
