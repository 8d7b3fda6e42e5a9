// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package score

import (
	"math"
	"testing"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

func marks(v float64) *float64 { return &v }

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected int
	}{
		{
			name:     "balanced day hits the weight sum",
			input:    Input{SleepHours: 8, StudyHours: 4, ExerciseScore: 10},
			expected: 80,
		},
		{
			name:     "full exam marks reach the ceiling",
			input:    Input{SleepHours: 8, StudyHours: 4, ExerciseScore: 10, ExamAverage: 100},
			expected: 100,
		},
		{
			name:     "screen penalty clamps at zero",
			input:    Input{ScreenTimeHours: 10},
			expected: 0,
		},
		{
			name:     "caps apply before weighting",
			input:    Input{SleepHours: 16, StudyHours: 12},
			expected: 36 + 45,
		},
		{
			name:     "vitality cap",
			input:    Input{ExerciseScore: 30},
			expected: 24,
		},
		{
			name:     "over the top is clamped to 100",
			input:    Input{SleepHours: 16, StudyHours: 12, ExerciseScore: 30, ExamAverage: 100},
			expected: 100,
		},
		{
			name:     "focus bonus applies above half",
			input:    Input{SleepHours: 8, ScreenTimeHours: 2, ActiveFocusHours: 1.5},
			expected: 30 - 4 + 5,
		},
		{
			name:     "no bonus at exactly half",
			input:    Input{SleepHours: 8, ScreenTimeHours: 2, ActiveFocusHours: 1},
			expected: 30 - 4,
		},
		{
			name:     "zero screen time gives no bonus",
			input:    Input{SleepHours: 8, ActiveFocusHours: 3},
			expected: 30,
		},
		{
			name:     "rounds to nearest integer",
			input:    Input{SleepHours: 7},
			expected: 26,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Calculate(tt.input); got != tt.expected {
				t.Errorf("Calculate(%+v) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCalculate_AlwaysInRange(t *testing.T) {
	values := []float64{0, 0.5, 3, 8, 24, 100}
	for _, sleep := range values {
		for _, study := range values {
			for _, screen := range values {
				for _, exam := range []float64{0, 50, 100} {
					in := Input{
						SleepHours:       sleep,
						StudyHours:       study,
						ExerciseScore:    study,
						ScreenTimeHours:  screen,
						ActiveFocusHours: screen / 2,
						ExamAverage:      exam,
					}
					got := Calculate(in)
					if got < MinScore || got > MaxScore {
						t.Fatalf("Calculate(%+v) = %d, out of range", in, got)
					}
				}
			}
		}
	}
}

func TestExplain_Components(t *testing.T) {
	b := Explain(Input{SleepHours: 8, StudyHours: 4, ExerciseScore: 10, ScreenTimeHours: 0})

	if b.Sleep != 30 || b.Study != 30 || b.Vitality != 20 {
		t.Errorf("components = %+v, expected 30/30/20", b)
	}
	if b.Raw != 80 || b.Score != 80 {
		t.Errorf("Raw = %v, Score = %d, expected 80", b.Raw, b.Score)
	}
}

func TestExamAverage(t *testing.T) {
	exams := []state.Exam{
		{ID: "a", TotalMarks: 100, AchievedMarks: marks(80)},
		{ID: "b", TotalMarks: 50, AchievedMarks: marks(30)},
		{ID: "c", TotalMarks: 100},
		{ID: "d", TotalMarks: 0, AchievedMarks: marks(10)},
	}

	if got := ExamAverage(exams); math.Abs(got-70) > 1e-9 {
		t.Errorf("ExamAverage() = %v, expected 70", got)
	}
	if got := ExamAverage(nil); got != 0 {
		t.Errorf("ExamAverage(nil) = %v, expected 0", got)
	}
}

func TestFromMetrics(t *testing.T) {
	m := state.DailyMetrics{SleepHours: 7, StudyHours: 2, ExerciseScore: 5, ScreenTimeHours: 3, ActiveFocusHours: 2}
	in := FromMetrics(m, []state.Exam{{TotalMarks: 10, AchievedMarks: marks(9)}})

	if in.ExamAverage != 90 {
		t.Errorf("ExamAverage = %v, expected 90", in.ExamAverage)
	}
	if in.ScreenTimeHours != 3 || in.ActiveFocusHours != 2 {
		t.Errorf("input = %+v, expected screen/focus carried over", in)
	}
}

func TestFocusRatio(t *testing.T) {
	if got := FocusRatio(1, 0); got != 0 {
		t.Errorf("FocusRatio(1, 0) = %v, expected 0", got)
	}
	if got := FocusRatio(1, 4); got != 0.25 {
		t.Errorf("FocusRatio(1, 4) = %v, expected 0.25", got)
	}
}
