// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DateLayout is the key format of daily documents.
const DateLayout = "2006-01-02"

// DayState is the position of a user relative to today's boundary check.
type DayState string

const (
	NeverActive     DayState = "NeverActive"
	ActiveToday     DayState = "ActiveToday"
	ActiveYesterday DayState = "ActiveYesterday"
	Lapsed          DayState = "Lapsed"
)

// levelDivisor converts streak and score points into levels.
const levelDivisor = 250

// DateKey formats t as a daily document key in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// PreviousDateKey returns the key of the day before dateKey.
func PreviousDateKey(dateKey string) (string, error) {
	day, err := time.Parse(DateLayout, dateKey)
	if err != nil {
		return "", err
	}
	return day.AddDate(0, 0, -1).Format(DateLayout), nil
}

// ComputeLevel returns floor((streakDays*100 + score) / 250).
func ComputeLevel(streakDays, score int) int {
	points := streakDays*100 + score
	if points <= 0 {
		return 0
	}
	return points / levelDivisor
}

// ClassifyDay reports the day state of p relative to today without
// mutating it.
func ClassifyDay(p *ProgressionState, today string) DayState {
	switch {
	case p.LastActiveDate == "":
		return NeverActive
	case p.LastActiveDate == today:
		return ActiveToday
	}

	yesterday, err := PreviousDateKey(today)
	if err == nil && p.LastActiveDate == yesterday {
		return ActiveYesterday
	}
	return Lapsed
}

// EvaluateDayBoundary advances or resets the streak for today.
// Returns the state observed before the check and whether the streak was
// reset. Calling it again on the same day is a no-op.
func EvaluateDayBoundary(p *ProgressionState, today string) (DayState, bool) {
	observed := ClassifyDay(p, today)

	switch observed {
	case ActiveToday:
		return observed, false
	case ActiveYesterday:
		p.StreakDays++
		p.LastActiveDate = today
		logrus.Debugf("streak advanced to %d on %s", p.StreakDays, today)
		return observed, false
	default:
		p.StreakDays = 1
		p.LastActiveDate = today
		logrus.Debugf("streak reset to 1 on %s (was %s)", today, observed)
		return observed, true
	}
}

// ApplyLevel recomputes the level from the current streak and score.
// A lower level is only accepted when the streak was just reset.
// Returns true if the stored level changed.
func ApplyLevel(p *ProgressionState, score int, streakReset bool) bool {
	next := ComputeLevel(p.StreakDays, score)
	if next < p.Level && !streakReset {
		return false
	}
	if next == p.Level {
		return false
	}

	logrus.Debugf("level changed from %d to %d (streak=%d, score=%d)", p.Level, next, p.StreakDays, score)
	p.Level = next
	return true
}
