// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"fmt"
	"math"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

const (
	maxHoursPerDay   = 24.0
	maxExerciseScore = 100.0
)

// Edit is a manual correction of user-entered fields. Nil fields are left
// unchanged.
type Edit struct {
	SleepHours    *float64 `json:"sleepHours,omitempty"`
	StudyHours    *float64 `json:"studyHours,omitempty"`
	ExerciseScore *float64 `json:"exerciseScore,omitempty"`
}

// Patch validates the edit and returns the fields to write. Any invalid
// value rejects the whole edit.
func (e Edit) Patch() (state.Patch, error) {
	patch := state.Patch{}

	fields := []struct {
		name  string
		value *float64
		max   float64
	}{
		{state.FieldSleep, e.SleepHours, maxHoursPerDay},
		{state.FieldStudy, e.StudyHours, maxHoursPerDay},
		{state.FieldExercise, e.ExerciseScore, maxExerciseScore},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := *f.value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidInput, f.name)
		}
		if v < 0 || v > f.max {
			return nil, fmt.Errorf("%w: %s must be within [0, %g]", ErrInvalidInput, f.name, f.max)
		}
		patch[f.name] = state.Round4(v)
	}

	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	return patch, nil
}
