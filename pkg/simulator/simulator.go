// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package simulator produces plausible biometric readings from the time of
// day. It is the fallback used when no wearable feed is linked.
package simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

const (
	// MaxSteps caps the simulated daily step count
	MaxSteps = 15000

	baseCalories       = 1200
	caloriesPerStep    = 0.04
	caloriesPerHour    = 20
	restingHeartRate   = 65
	workHeartRate      = 72
	exerciseHeartRate  = 110
	heartRateJitter    = 5
	stepJitter         = 100
	nightStepJitter    = 20
	minSleepHours      = 6.0
	sleepHoursSpread   = 3.0
	stepsPerExercisePt = 1000.0
)

// Reading is one synthetic biometric sample.
type Reading struct {
	Hour          int     `json:"hour"`
	Steps         int     `json:"steps"`
	Calories      int     `json:"calories"`
	HeartRate     int     `json:"heartRate"`
	SleepHours    float64 `json:"sleepHours"`
	ExerciseScore float64 `json:"exerciseScore"`
}

// Simulator generates readings. The jitter source is injected so tests can
// make readings reproducible.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a simulator using rnd for jitter. A nil rnd seeds from the
// clock.
func New(rnd *rand.Rand) *Simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rnd: rnd}
}

// Reading returns a sample for the hour and day of month of at.
func (s *Simulator) Reading(at time.Time) Reading {
	return s.ReadingFor(at.Hour(), at.Day())
}

// ReadingFor returns a sample for hour (0-23) on the given day of month.
func (s *Simulator) ReadingFor(hour, dayOfMonth int) Reading {
	hour = clampHour(hour)

	s.mu.Lock()
	stepNoise := s.rnd.Float64()
	hrNoise := s.rnd.Float64()
	s.mu.Unlock()

	steps := StepsAt(hour, stepNoise)
	return Reading{
		Hour:          hour,
		Steps:         steps,
		Calories:      CaloriesAt(hour, steps),
		HeartRate:     HeartRateAt(hour, hrNoise),
		SleepHours:    SleepHours(dayOfMonth),
		ExerciseScore: ExerciseScore(steps),
	}
}

// StepsAt follows the circadian step curve. noise in [0, 1) scales the
// jitter added on top.
func StepsAt(hour int, noise float64) int {
	hour = clampHour(hour)

	var base float64
	jitter := stepJitter
	switch {
	case hour < 6:
		base = 0
		jitter = nightStepJitter
	case hour < 12:
		base = float64(hour-6) * 800
	case hour < 18:
		base = 6*800 + float64(hour-12)*500
	default:
		base = 6*800 + 6*500 + float64(hour-18)*200
	}

	steps := int(base + noise*float64(jitter))
	if steps > MaxSteps {
		steps = MaxSteps
	}
	if steps < 0 {
		steps = 0
	}
	return steps
}

// CaloriesAt is the basal constant plus step and hour contributions.
func CaloriesAt(hour, steps int) int {
	return int(math.Round(baseCalories + caloriesPerStep*float64(steps) + caloriesPerHour*float64(hour)))
}

// HeartRateAt returns the window baseline with +/-5 of jitter. noise is in
// [0, 1).
func HeartRateAt(hour int, noise float64) int {
	baseline := restingHeartRate
	switch {
	case hour >= 17 && hour < 19:
		baseline = exerciseHeartRate
	case hour >= 9 && hour < 17:
		baseline = workHeartRate
	}
	return baseline + int(math.Round((noise*2-1)*heartRateJitter))
}

// SleepHours is a stable value in [6, 9) for a given day of month.
func SleepHours(dayOfMonth int) float64 {
	seeded := rand.New(rand.NewSource(int64(dayOfMonth)))
	hours := minSleepHours + seeded.Float64()*sleepHoursSpread
	return math.Floor(hours*10) / 10
}

// ExerciseScore maps steps onto the 0-10 exercise scale.
func ExerciseScore(steps int) float64 {
	return float64(steps) / stepsPerExercisePt
}

// Fold returns the patch that applies r to current. A recorded sleep value
// is never replaced by a simulated one.
func Fold(current state.DailyMetrics, r Reading) state.Patch {
	next := current
	next.Steps = r.Steps
	next.Calories = r.Calories
	next.HeartRate = r.HeartRate
	next.ExerciseScore = r.ExerciseScore
	if current.SleepHours == 0 {
		next.SleepHours = r.SleepHours
	}
	return current.Diff(next)
}

// Overlay is Fold for a reading recorded by a wearable. A non-zero sleep
// value replaces whatever is stored.
func Overlay(current state.DailyMetrics, r Reading) state.Patch {
	patch := Fold(current, r)
	if r.SleepHours > 0 && state.Round4(r.SleepHours) != state.Round4(current.SleepHours) {
		patch[state.FieldSleep] = state.Round4(r.SleepHours)
	}
	return patch
}

func clampHour(hour int) int {
	if hour < 0 {
		return 0
	}
	if hour > 23 {
		return 23
	}
	return hour
}
