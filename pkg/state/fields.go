// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

import (
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Round4 rounds hours to the 4-decimal resolution used for persisted
// durations.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Apply sets the patched fields on m. Unknown fields and values of the wrong
// type are ignored.
func (m *DailyMetrics) Apply(p Patch) {
	for field, value := range p {
		switch field {
		case FieldBurnoutRisk:
			if risk, ok := value.(BurnoutRisk); ok {
				m.BurnoutRisk = risk
			}
		case FieldSteps, FieldCalories, FieldHeartRate, FieldScore:
			v, ok := value.(int)
			if !ok {
				continue
			}
			switch field {
			case FieldSteps:
				m.Steps = v
			case FieldCalories:
				m.Calories = v
			case FieldHeartRate:
				m.HeartRate = v
			case FieldScore:
				m.Score = v
			}
		default:
			v, ok := value.(float64)
			if !ok {
				continue
			}
			if ptr := m.floatField(field); ptr != nil {
				*ptr = v
			}
		}
	}
}

// Get returns the value of a persisted field.
func (m *DailyMetrics) Get(field string) (interface{}, bool) {
	switch field {
	case FieldSteps:
		return m.Steps, true
	case FieldCalories:
		return m.Calories, true
	case FieldHeartRate:
		return m.HeartRate, true
	case FieldScore:
		return m.Score, true
	case FieldBurnoutRisk:
		return m.BurnoutRisk, true
	}
	if ptr := m.floatField(field); ptr != nil {
		return *ptr, true
	}
	return nil, false
}

func (m *DailyMetrics) floatField(field string) *float64 {
	switch field {
	case FieldSleep:
		return &m.SleepHours
	case FieldStudy:
		return &m.StudyHours
	case FieldExercise:
		return &m.ExerciseScore
	case FieldScreenTime:
		return &m.ScreenTimeHours
	case FieldIdleTime:
		return &m.IdleTimeHours
	case FieldActiveFocusTime:
		return &m.ActiveFocusHours
	}
	return nil
}

// Diff returns the fields whose value differs between m and next.
func (m DailyMetrics) Diff(next DailyMetrics) Patch {
	patch := Patch{}
	for _, field := range dailyFields {
		before, _ := m.Get(field)
		after, _ := next.Get(field)
		if before != after {
			patch[field] = after
		}
	}
	return patch
}

var dailyFields = []string{
	FieldSleep, FieldStudy, FieldExercise, FieldScreenTime, FieldIdleTime,
	FieldActiveFocusTime, FieldSteps, FieldCalories, FieldHeartRate, FieldScore,
	FieldBurnoutRisk,
}

// encodePatch flattens a patch into HSET arguments.
func encodePatch(p Patch) []interface{} {
	args := make([]interface{}, 0, len(p)*2)
	for field, value := range p {
		switch v := value.(type) {
		case float64:
			args = append(args, field, strconv.FormatFloat(v, 'f', -1, 64))
		case int:
			args = append(args, field, strconv.Itoa(v))
		case BurnoutRisk:
			args = append(args, field, string(v))
		default:
			logrus.Warnf("dropping field %s with unsupported type %T", field, value)
		}
	}
	return args
}

// decodeDailyMetrics builds DailyMetrics from a stored hash. Malformed
// fields are skipped so one bad value never poisons the whole document.
func decodeDailyMetrics(date string, hash map[string]string) DailyMetrics {
	m := DailyMetrics{Date: date}
	for field, raw := range hash {
		switch field {
		case FieldBurnoutRisk:
			m.BurnoutRisk = BurnoutRisk(raw)
		case FieldDate:
			secs, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logrus.Debugf("skipping malformed %s=%q: %v", field, raw, err)
				continue
			}
			m.UpdatedAt = time.Unix(secs, 0).UTC()
		case FieldRevision:
			rev, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logrus.Debugf("skipping malformed %s=%q: %v", field, raw, err)
				continue
			}
			m.Revision = rev
		case FieldSteps, FieldCalories, FieldHeartRate, FieldScore:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				logrus.Debugf("skipping malformed %s=%q: %v", field, raw, err)
				continue
			}
			m.Apply(Patch{field: int(math.Round(v))})
		default:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				logrus.Debugf("skipping malformed %s=%q", field, raw)
				continue
			}
			m.Apply(Patch{field: v})
		}
	}
	return m
}
