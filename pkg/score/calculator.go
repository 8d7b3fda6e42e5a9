// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package score computes the bounded daily cognitive score.
package score

import (
	"math"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

// Component weights and caps. These are part of the scoring contract and
// are deliberately not configurable.
const (
	SleepTargetHours = 8.0
	SleepCap         = 1.2
	SleepWeight      = 30.0

	StudyTargetHours = 4.0
	StudyCap         = 1.5
	StudyWeight      = 30.0

	ExerciseTarget = 10.0
	ExerciseCap    = 1.2
	ExerciseWeight = 20.0

	ExamWeight = 0.2

	ScreenPenaltyPerHour = 2.0

	FocusRatioThreshold = 0.5
	FocusBonus          = 5.0

	MinScore = 0
	MaxScore = 100
)

// Input is the snapshot the calculator reads.
type Input struct {
	SleepHours       float64
	StudyHours       float64
	ExerciseScore    float64
	ScreenTimeHours  float64
	ActiveFocusHours float64
	ExamAverage      float64
}

// Breakdown exposes each weighted component of a score.
type Breakdown struct {
	Sleep         float64 `json:"sleep"`
	Study         float64 `json:"study"`
	Vitality      float64 `json:"vitality"`
	Exam          float64 `json:"exam"`
	ScreenPenalty float64 `json:"screenPenalty"`
	FocusBonus    float64 `json:"focusBonus"`
	Raw           float64 `json:"raw"`
	Score         int     `json:"score"`
}

// FromMetrics builds the calculator input from a daily snapshot and the
// user's exams.
func FromMetrics(m state.DailyMetrics, exams []state.Exam) Input {
	return Input{
		SleepHours:       m.SleepHours,
		StudyHours:       m.StudyHours,
		ExerciseScore:    m.ExerciseScore,
		ScreenTimeHours:  m.ScreenTimeHours,
		ActiveFocusHours: m.ActiveFocusHours,
		ExamAverage:      ExamAverage(exams),
	}
}

// ExamAverage is the mean percentage over graded exams, 0 if none.
func ExamAverage(exams []state.Exam) float64 {
	var sum float64
	var graded int
	for _, exam := range exams {
		if !exam.Graded() {
			continue
		}
		sum += *exam.AchievedMarks / exam.TotalMarks * 100
		graded++
	}
	if graded == 0 {
		return 0
	}
	return sum / float64(graded)
}

// Calculate returns the score in [0, 100].
func Calculate(in Input) int {
	return Explain(in).Score
}

// Explain computes the score along with its components.
func Explain(in Input) Breakdown {
	b := Breakdown{
		Sleep:         math.Min(in.SleepHours/SleepTargetHours, SleepCap) * SleepWeight,
		Study:         math.Min(in.StudyHours/StudyTargetHours, StudyCap) * StudyWeight,
		Vitality:      math.Min(in.ExerciseScore/ExerciseTarget, ExerciseCap) * ExerciseWeight,
		Exam:          in.ExamAverage * ExamWeight,
		ScreenPenalty: in.ScreenTimeHours * ScreenPenaltyPerHour,
	}
	if FocusRatio(in.ActiveFocusHours, in.ScreenTimeHours) > FocusRatioThreshold {
		b.FocusBonus = FocusBonus
	}

	b.Raw = b.Sleep + b.Study + b.Vitality + b.Exam - b.ScreenPenalty + b.FocusBonus
	if math.IsNaN(b.Raw) {
		b.Raw = 0
	}
	b.Score = int(math.Round(clamp(b.Raw, MinScore, MaxScore)))
	return b
}

// FocusRatio is active over screen time, 0 when there is no screen time.
func FocusRatio(activeFocusHours, screenTimeHours float64) float64 {
	if screenTimeHours <= 0 {
		return 0
	}
	return activeFocusHours / screenTimeHours
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
