// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/monitor"
	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	"github.com/AccelByte/extend-cognitive-score/pkg/rule/builtin"
	"github.com/AccelByte/extend-cognitive-score/pkg/service"
	"github.com/AccelByte/extend-cognitive-score/pkg/service/mock"
	"github.com/AccelByte/extend-cognitive-score/pkg/simulator"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor  = 2 * time.Second
	pollTick = 5 * time.Millisecond
	never    = time.Hour
)

func init() {
	builtin.RegisterBuiltinRules()
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEngine(t *testing.T) *rule.Engine {
	t.Helper()
	registry := rule.NewRegistry()
	require.NoError(t, rule.RegisterRules(registry, builtin.DefaultConfigs()))
	return rule.NewEngine(registry)
}

// linkedWearable reports 10k steps and no sleep so folds leave sleep alone.
func linkedWearable() *mock.WearableFetcher {
	return &mock.WearableFetcher{
		DefaultReading: &service.WearableReading{Steps: 10000, Calories: 1600, AvgHR: 70},
	}
}

func newDeps(t *testing.T, store *fakeStore) Deps {
	return Deps{
		Store:     store,
		Assessor:  newEngine(t),
		Wearable:  linkedWearable(),
		Simulator: simulator.New(rand.New(rand.NewSource(1))),
	}
}

// quietConfig disables all periodic ticks so only commands drive the loop.
func quietConfig(clock *testClock) Config {
	return Config{
		ActivityInterval:  never,
		RecomputeInterval: never,
		WearableInterval:  never,
		Now:               clock.Now,
	}
}

func fptr(v float64) *float64 { return &v }

func status(t *testing.T, s *Session) Status {
	t.Helper()
	st, err := s.Status(context.Background())
	require.NoError(t, err)
	return st
}

func TestSession_StartEvaluatesLedgerWithCurrentScore(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	store.docs["2026-03-10"] = state.DailyMetrics{Date: "2026-03-10", SleepHours: 8, StudyHours: 4, ExerciseScore: 10}
	store.progression = state.ProgressionState{StreakDays: 2, LastActiveDate: "2026-03-09"}

	s := Start(context.Background(), "user-1", newDeps(t, store), quietConfig(clock))

	st := status(t, s)
	assert.Equal(t, 80, st.Metrics.Score)
	assert.Equal(t, 3, st.Progression.StreakDays)
	// floor((3*100 + 80) / 250)
	assert.Equal(t, 1, st.Progression.Level)
	assert.Equal(t, "2026-03-10", st.Progression.LastActiveDate)

	require.Eventually(t, func() bool { return store.saveCount() == 1 }, waitFor, pollTick)
	s.Stop()

	// a second session on the same day changes nothing and saves nothing
	s = Start(context.Background(), "user-1", newDeps(t, store), quietConfig(clock))
	defer s.Stop()

	st = status(t, s)
	assert.Equal(t, 3, st.Progression.StreakDays)
	assert.Equal(t, 1, store.saveCount())
}

func TestSession_RemoteCannotResurrectSupersededValue(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	store.gate = make(chan struct{})

	s := Start(context.Background(), "user-1", newDeps(t, store), quietConfig(clock))
	defer s.Stop()

	st, err := s.ApplyEdit(context.Background(), Edit{SleepHours: fptr(8)})
	require.NoError(t, err)
	require.Equal(t, 8.0, st.Metrics.SleepHours)

	// a document read before the edit reached the store
	store.push(state.DailyMetrics{Date: "2026-03-10", SleepHours: 5, StudyHours: 3})

	require.Eventually(t, func() bool { return status(t, s).Metrics.StudyHours == 3 }, waitFor, pollTick)
	assert.Equal(t, 8.0, status(t, s).Metrics.SleepHours, "in-flight edit must not be overwritten")

	close(store.gate)
	require.Eventually(t, func() bool { return status(t, s).PendingFields == 0 }, waitFor, pollTick)
	require.Equal(t, 8.0, store.doc("2026-03-10").SleepHours)

	// the write is confirmed, but this document predates it
	store.push(state.DailyMetrics{Date: "2026-03-10", SleepHours: 5, StudyHours: 4, Revision: 1})

	require.Eventually(t, func() bool { return status(t, s).Metrics.StudyHours == 4 }, waitFor, pollTick)
	assert.Equal(t, 8.0, status(t, s).Metrics.SleepHours, "stale document must not resurrect old sleep")

	// a newer remote edit wins
	store.push(state.DailyMetrics{Date: "2026-03-10", SleepHours: 6, StudyHours: 4, Revision: 1000})
	require.Eventually(t, func() bool { return status(t, s).Metrics.SleepHours == 6 }, waitFor, pollTick)
}

func TestSession_ActivityAccrual(t *testing.T) {
	store := newFakeStore()
	s := Start(context.Background(), "user-1", newDeps(t, store), Config{
		ActivityInterval:  5 * time.Millisecond,
		RecomputeInterval: never,
		WearableInterval:  never,
	})
	defer s.Stop()

	accepted, err := s.RecordInteraction(context.Background(), monitor.Click, time.Now())
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = s.RecordInteraction(context.Background(), "resize", time.Now())
	require.NoError(t, err)
	assert.False(t, accepted)

	require.Eventually(t, func() bool {
		return status(t, s).Metrics.ActiveFocusHours > 0
	}, waitFor, pollTick)

	require.NoError(t, s.SetVisible(context.Background(), false))
	hidden := status(t, s)
	assert.False(t, hidden.Visible)
	assert.Zero(t, hidden.Metrics.IdleTimeHours)
	assert.InDelta(t, hidden.Metrics.ScreenTimeHours,
		hidden.Metrics.ActiveFocusHours+hidden.Metrics.IdleTimeHours, 0.0001)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, hidden.Metrics.ScreenTimeHours, status(t, s).Metrics.ScreenTimeHours,
		"hidden tab must not accrue")
}

func TestSession_InvalidEditKeepsPriorValue(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := Start(context.Background(), "user-1", newDeps(t, newFakeStore()), quietConfig(clock))
	defer s.Stop()

	_, err := s.ApplyEdit(context.Background(), Edit{SleepHours: fptr(7)})
	require.NoError(t, err)

	for _, bad := range []Edit{
		{SleepHours: fptr(math.NaN())},
		{SleepHours: fptr(-1)},
		{SleepHours: fptr(25)},
		{StudyHours: fptr(2), SleepHours: fptr(math.Inf(1))},
		{},
	} {
		_, err := s.ApplyEdit(context.Background(), bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	st := status(t, s)
	assert.Equal(t, 7.0, st.Metrics.SleepHours)
	assert.Zero(t, st.Metrics.StudyHours, "rejected edit must not apply partially")
}

func TestSession_SetExamsRecomputesScore(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	store.docs["2026-03-10"] = state.DailyMetrics{Date: "2026-03-10", SleepHours: 8, StudyHours: 4, ExerciseScore: 10}

	s := Start(context.Background(), "user-1", newDeps(t, store), quietConfig(clock))
	defer s.Stop()

	require.Equal(t, 80, status(t, s).Metrics.Score)

	require.NoError(t, s.SetExams(context.Background(), []state.Exam{
		{ID: "final", TotalMarks: 50, AchievedMarks: fptr(50)},
	}))

	st := status(t, s)
	assert.Equal(t, 100, st.Metrics.Score)
	assert.Equal(t, 20.0, st.Breakdown.Exam)
}

func TestSession_RolloverResetsSnapshotAndAdvancesStreak(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)}
	store := newFakeStore()
	store.docs["2026-03-10"] = state.DailyMetrics{Date: "2026-03-10", ScreenTimeHours: 2, SleepHours: 7}
	store.progression = state.ProgressionState{StreakDays: 4, LastActiveDate: "2026-03-09"}

	cfg := quietConfig(clock)
	cfg.RecomputeInterval = 5 * time.Millisecond
	s := Start(context.Background(), "user-1", newDeps(t, store), cfg)
	defer s.Stop()

	st := status(t, s)
	require.Equal(t, 5, st.Progression.StreakDays)
	require.Equal(t, 2.0, st.Metrics.ScreenTimeHours)

	clock.Advance(2 * time.Second)

	require.Eventually(t, func() bool { return status(t, s).Date == "2026-03-11" }, waitFor, pollTick)

	st = status(t, s)
	assert.Zero(t, st.Metrics.ScreenTimeHours)
	assert.Zero(t, st.Metrics.SleepHours)
	assert.Equal(t, 6, st.Progression.StreakDays)
	assert.Equal(t, "2026-03-11", st.Progression.LastActiveDate)
	assert.Contains(t, store.subscriptions(), "2026-03-11")

	// yesterday's document is untouched by the new day
	assert.Equal(t, 2.0, store.doc("2026-03-10").ScreenTimeHours)
}

func TestSession_WriteFailureDegradesAndRecovers(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	store.setFailMerges(true)

	cfg := quietConfig(clock)
	cfg.RecomputeInterval = 10 * time.Millisecond
	s := Start(context.Background(), "user-1", newDeps(t, store), cfg)
	defer s.Stop()

	_, err := s.ApplyEdit(context.Background(), Edit{SleepHours: fptr(7)})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return status(t, s).SyncDegraded }, waitFor, pollTick)
	assert.Equal(t, 7.0, status(t, s).Metrics.SleepHours, "local state survives failed writes")

	store.setFailMerges(false)

	require.Eventually(t, func() bool {
		return !status(t, s).SyncDegraded && store.doc("2026-03-10").SleepHours == 7
	}, waitFor, pollTick)
}

func TestSession_LedgerDeferredUntilProgressionLoads(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	store.progression = state.ProgressionState{StreakDays: 9, Level: 3, LastActiveDate: "2026-03-09"}
	store.failProgress = true

	cfg := quietConfig(clock)
	cfg.RecomputeInterval = 10 * time.Millisecond
	s := Start(context.Background(), "user-1", newDeps(t, store), cfg)
	defer s.Stop()

	assert.Zero(t, store.saveCount(), "an unreadable profile must not be reset")

	store.mu.Lock()
	store.failProgress = false
	store.mu.Unlock()

	require.Eventually(t, func() bool { return status(t, s).Progression.StreakDays == 10 }, waitFor, pollTick)
}

func TestSession_StopFlushesAndRejectsCommands(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	s := Start(context.Background(), "user-1", newDeps(t, store), quietConfig(clock))

	_, err := s.ApplyEdit(context.Background(), Edit{StudyHours: fptr(2)})
	require.NoError(t, err)

	s.Stop()
	s.Stop()

	assert.Equal(t, 2.0, store.doc("2026-03-10").StudyHours)

	_, err = s.Status(context.Background())
	assert.ErrorIs(t, err, ErrSessionStopped)
}

func TestSession_SimulatorFallbackKeepsRecordedSleep(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)}
	store := newFakeStore()
	store.docs["2026-03-10"] = state.DailyMetrics{Date: "2026-03-10", SleepHours: 8.5}

	deps := newDeps(t, store)
	deps.Wearable = mock.NewWearableFetcher()

	s := Start(context.Background(), "user-1", deps, quietConfig(clock))
	defer s.Stop()

	require.Eventually(t, func() bool { return status(t, s).Metrics.Steps > 0 }, waitFor, pollTick)

	st := status(t, s)
	assert.Equal(t, 8.5, st.Metrics.SleepHours)
	assert.GreaterOrEqual(t, st.Metrics.Steps, simulator.StepsAt(14, 0))
	assert.Equal(t, float64(st.Metrics.Steps)/1000, st.Metrics.ExerciseScore)
}

func TestSession_LinkedWearableReplacesSimulatedSleep(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)}
	store := newFakeStore()

	var linked atomic.Bool
	fetcher := &mock.WearableFetcher{
		FetchDailyFunc: func(ctx context.Context, userID, date string) (*service.WearableReading, error) {
			if !linked.Load() {
				return nil, service.ErrWearableNotLinked
			}
			return &service.WearableReading{Steps: 9000, Calories: 1700, AvgHR: 68, SleepHours: 7.5}, nil
		},
	}
	deps := newDeps(t, store)
	deps.Wearable = fetcher

	cfg := quietConfig(clock)
	cfg.WearableInterval = 5 * time.Millisecond
	s := Start(context.Background(), "user-1", deps, cfg)
	defer s.Stop()

	require.Eventually(t, func() bool { return status(t, s).Metrics.SleepHours > 0 }, waitFor, pollTick)
	assert.Equal(t, simulator.SleepHours(10), status(t, s).Metrics.SleepHours)

	linked.Store(true)

	require.Eventually(t, func() bool {
		m := status(t, s).Metrics
		return m.Steps == 9000 && m.SleepHours == 7.5
	}, waitFor, pollTick)
	require.Eventually(t, func() bool { return store.doc("2026-03-10").SleepHours == 7.5 }, waitFor, pollTick)

	// a manual correction is not overridden by later readings
	_, err := s.ApplyEdit(context.Background(), Edit{SleepHours: fptr(6)})
	require.NoError(t, err)
	calls := len(fetcher.Calls())
	require.Eventually(t, func() bool { return len(fetcher.Calls()) > calls+2 }, waitFor, pollTick)
	assert.Equal(t, 6.0, status(t, s).Metrics.SleepHours)
}

func TestSession_RolloverKeepsResendingPreviousDay(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 23, 59, 58, 0, time.UTC)}
	store := newFakeStore()
	store.setFailMerges(true)

	cfg := quietConfig(clock)
	cfg.RecomputeInterval = 10 * time.Millisecond
	s := Start(context.Background(), "user-1", newDeps(t, store), cfg)
	defer s.Stop()

	_, err := s.ApplyEdit(context.Background(), Edit{StudyHours: fptr(3)})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return status(t, s).SyncDegraded }, waitFor, pollTick)

	clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool { return status(t, s).Date == "2026-03-11" }, waitFor, pollTick)
	assert.Zero(t, status(t, s).Metrics.StudyHours)

	store.setFailMerges(false)

	require.Eventually(t, func() bool { return store.doc("2026-03-10").StudyHours == 3 }, waitFor, pollTick)
	assert.Zero(t, store.doc("2026-03-11").StudyHours, "the old day's value must not leak into the new day")
}
