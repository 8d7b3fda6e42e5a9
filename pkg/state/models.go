// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"time"
)

// BurnoutRisk is the coarse advisory label derived from a day's signals.
type BurnoutRisk string

const (
	BurnoutLow      BurnoutRisk = "Low"
	BurnoutModerate BurnoutRisk = "Moderate"
	BurnoutHigh     BurnoutRisk = "High"
)

// Persisted field names of a daily document. These are shared with other
// clients of the store and must not change.
const (
	FieldSleep           = "sleep"
	FieldStudy           = "study"
	FieldExercise        = "exercise"
	FieldScreenTime      = "screenTime"
	FieldIdleTime        = "idleTime"
	FieldActiveFocusTime = "activeFocusTime"
	FieldSteps           = "steps"
	FieldCalories        = "calories"
	FieldHeartRate       = "heartRate"
	FieldScore           = "score"
	FieldBurnoutRisk     = "burnoutRisk"
	FieldDate            = "date"
	FieldRevision        = "rev"
)

// Persisted field names of the user profile document.
const (
	FieldStreak         = "streak"
	FieldLevel          = "level"
	FieldLastActiveDate = "lastActiveDate"
)

// DailyMetrics is the per-day record aggregating all tracked signals and
// derived outputs.
type DailyMetrics struct {
	Date             string      `json:"date"`
	SleepHours       float64     `json:"sleepHours"`
	StudyHours       float64     `json:"studyHours"`
	ExerciseScore    float64     `json:"exerciseScore"`
	ScreenTimeHours  float64     `json:"screenTimeHours"`
	IdleTimeHours    float64     `json:"idleTimeHours"`
	ActiveFocusHours float64     `json:"activeFocusHours"`
	Steps            int         `json:"steps"`
	Calories         int         `json:"calories"`
	HeartRate        int         `json:"heartRate"`
	Score            int         `json:"score"`
	BurnoutRisk      BurnoutRisk `json:"burnoutRisk"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	Revision         int64       `json:"revision"`
}

// ProgressionState tracks the gamified streak and level of a user.
type ProgressionState struct {
	StreakDays     int    `json:"streakDays"`
	Level          int    `json:"level"`
	LastActiveDate string `json:"lastActiveDate"`
}

// Exam is a user-entered exam record. AchievedMarks is nil until graded.
type Exam struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	TotalMarks    float64  `json:"totalMarks"`
	AchievedMarks *float64 `json:"achievedMarks,omitempty"`
}

// Graded reports whether the exam has a usable recorded score.
func (e Exam) Graded() bool {
	return e.AchievedMarks != nil && e.TotalMarks > 0
}

// Patch is a set of field updates for a daily document, keyed by persisted
// field name. Values are float64, int or BurnoutRisk.
type Patch map[string]interface{}

// Fields returns the patched field names.
func (p Patch) Fields() []string {
	fields := make([]string, 0, len(p))
	for k := range p {
		fields = append(fields, k)
	}
	return fields
}

// Merge copies other into p, overwriting on conflict.
func (p Patch) Merge(other Patch) {
	for k, v := range other {
		p[k] = v
	}
}
