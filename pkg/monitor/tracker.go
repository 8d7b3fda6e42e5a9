// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package monitor classifies screen time into active focus and idle
// buckets from interaction events and tab visibility.
package monitor

import (
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

const (
	// DefaultTickInterval is how often the session samples activity
	DefaultTickInterval = time.Second

	// IdleThreshold is the interaction gap after which time counts as idle
	IdleThreshold = 60 * time.Second

	// resolution is the smallest persisted unit: 0.0001 h
	resolution = 360 * time.Millisecond
)

// InteractionKind is a client input event that refreshes the idle timer.
type InteractionKind string

const (
	PointerMove InteractionKind = "pointermove"
	KeyDown     InteractionKind = "keydown"
	Click       InteractionKind = "click"
	Scroll      InteractionKind = "scroll"
	TouchStart  InteractionKind = "touchstart"
)

var qualifying = map[InteractionKind]bool{
	PointerMove: true,
	KeyDown:     true,
	Click:       true,
	Scroll:      true,
	TouchStart:  true,
}

// IsQualifying reports whether kind refreshes the idle timer.
func IsQualifying(kind InteractionKind) bool {
	return qualifying[kind]
}

// Bucket is where a tick's time is credited besides total screen time.
type Bucket string

const (
	BucketActive Bucket = "active"
	BucketIdle   Bucket = "idle"
)

// Accrual is the time credited by one tick.
type Accrual struct {
	Bucket   Bucket
	Duration time.Duration
}

// Tracker is the session-scoped activity accumulator. It is not safe for
// concurrent use; the owning session loop serializes access.
type Tracker struct {
	interval        time.Duration
	lastInteraction time.Time
	visible         bool

	active time.Duration
	idle   time.Duration

	// sub-resolution remainders not yet credited to the hour buckets
	carryActive time.Duration
	carryIdle   time.Duration
}

// NewTracker creates a visible tracker whose last interaction is now.
func NewTracker(interval time.Duration, now time.Time) *Tracker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Tracker{
		interval:        interval,
		lastInteraction: now,
		visible:         true,
	}
}

// RecordInteraction refreshes the idle timer for qualifying kinds.
// Returns false if the kind was ignored.
func (t *Tracker) RecordInteraction(kind InteractionKind, at time.Time) bool {
	if !IsQualifying(kind) {
		return false
	}
	if at.After(t.lastInteraction) {
		t.lastInteraction = at
	}
	return true
}

// SetVisible updates the tab visibility flag.
func (t *Tracker) SetVisible(visible bool) {
	t.visible = visible
}

// Visible reports the tab visibility flag.
func (t *Tracker) Visible() bool {
	return t.visible
}

// LastInteraction returns the time of the latest qualifying interaction.
func (t *Tracker) LastInteraction() time.Time {
	return t.lastInteraction
}

// Tick classifies the period ending at now. Hidden tabs accrue nothing.
func (t *Tracker) Tick(now time.Time) (Accrual, bool) {
	if !t.visible {
		return Accrual{}, false
	}

	accrual := Accrual{Bucket: BucketActive, Duration: t.interval}
	if now.Sub(t.lastInteraction) >= IdleThreshold {
		accrual.Bucket = BucketIdle
	}

	if accrual.Bucket == BucketIdle {
		t.idle += accrual.Duration
	} else {
		t.active += accrual.Duration
	}
	return accrual, true
}

// ActiveTime is the exact active time accrued this session.
func (t *Tracker) ActiveTime() time.Duration { return t.active }

// IdleTime is the exact idle time accrued this session.
func (t *Tracker) IdleTime() time.Duration { return t.idle }

// ScreenTime is the exact visible time accrued this session.
func (t *Tracker) ScreenTime() time.Duration { return t.active + t.idle }

// Accumulate credits accrual to the hour fields of m and returns the patch.
// Hours move in whole 0.0001 h steps; the remainder is carried to the next
// tick so long sessions do not drift.
func (t *Tracker) Accumulate(m state.DailyMetrics, accrual Accrual) state.Patch {
	patch := state.Patch{}

	var units int64
	switch accrual.Bucket {
	case BucketActive:
		if units = takeUnits(&t.carryActive, accrual.Duration); units > 0 {
			patch[state.FieldActiveFocusTime] = addUnits(m.ActiveFocusHours, units)
		}
	case BucketIdle:
		if units = takeUnits(&t.carryIdle, accrual.Duration); units > 0 {
			patch[state.FieldIdleTime] = addUnits(m.IdleTimeHours, units)
		}
	}

	// screen time is the sum of its buckets, never carried on its own
	if units > 0 {
		patch[state.FieldScreenTime] = addUnits(m.ScreenTimeHours, units)
	}
	return patch
}

func takeUnits(carry *time.Duration, d time.Duration) int64 {
	*carry += d
	units := int64(*carry / resolution)
	*carry -= time.Duration(units) * resolution
	return units
}

func addUnits(hours float64, units int64) float64 {
	return state.Round4(hours + float64(units)/10000)
}
