// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/metrics"
	"github.com/AccelByte/extend-cognitive-score/pkg/monitor"
	"github.com/AccelByte/extend-cognitive-score/pkg/rule"
	"github.com/AccelByte/extend-cognitive-score/pkg/score"
	"github.com/AccelByte/extend-cognitive-score/pkg/service"
	"github.com/AccelByte/extend-cognitive-score/pkg/simulator"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status is a point-in-time view of a running session.
type Status struct {
	SessionID       string                 `json:"sessionId"`
	UserID          string                 `json:"userId"`
	Date            string                 `json:"date"`
	Metrics         state.DailyMetrics     `json:"metrics"`
	Progression     state.ProgressionState `json:"progression"`
	Breakdown       score.Breakdown        `json:"breakdown"`
	Assessment      rule.Assessment        `json:"assessment"`
	Visible         bool                   `json:"visible"`
	LastInteraction time.Time              `json:"lastInteraction"`
	SyncDegraded    bool                   `json:"syncDegraded"`
	PendingFields   int                    `json:"pendingFields"`
	QueuedWrites    int                    `json:"queuedWrites"`
}

type biometrics struct {
	date      string
	reading   simulator.Reading
	simulated bool
}

// pastDay keeps a finished day's snapshot until its failed writes land.
type pastDay struct {
	snapshot state.DailyMetrics
	sync     *syncTracker
}

// Session owns one user's live daily snapshot. All state below the channel
// block is touched only by the loop goroutine.
type Session struct {
	id     string
	userID string
	cfg    Config
	deps   Deps
	log    *logrus.Entry

	cmds     chan func()
	acks     chan writeAck
	readings chan biometrics
	done     chan struct{}
	cancel   context.CancelFunc
	stopOnce sync.Once
	wg       sync.WaitGroup
	writer   *writer

	date              string
	snapshot          state.DailyMetrics
	progression       state.ProgressionState
	progressionLoaded bool
	exams             []state.Exam
	assessment        rule.Assessment
	tracker           *monitor.Tracker
	sync              *syncTracker
	pastDays          map[string]*pastDay
	simulatedSleep    bool
	remote            <-chan state.DailyMetrics
	stopListener      context.CancelFunc
	syncing           bool
	writeFailed       bool
	listenerDown      bool
}

// Start loads today's document, evaluates the progression ledger and
// starts the session goroutines. ctx bounds the session lifetime; Stop
// ends it earlier.
func Start(ctx context.Context, userID string, deps Deps, cfg Config) *Session {
	cfg = cfg.withDefaults()
	deps = deps.withDefaults()

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:       uuid.NewString(),
		userID:   userID,
		cfg:      cfg,
		deps:     deps,
		cmds:     make(chan func()),
		acks:     make(chan writeAck),
		readings: make(chan biometrics),
		done:     make(chan struct{}),
		cancel:   cancel,
		sync:     newSyncTracker(),
		pastDays: make(map[string]*pastDay),
	}
	s.log = logrus.WithFields(logrus.Fields{"userId": userID, "sessionId": s.id})
	s.writer = newWriter(deps.Store, userID, cfg.StoreTimeout, s.acks, s.log)

	now := cfg.Now()
	s.date = state.DateKey(now, cfg.Location)
	s.tracker = monitor.NewTracker(cfg.ActivityInterval, now)

	s.loadDay(ctx)
	s.loadProgression(ctx)
	s.loadExams(ctx)
	s.recompute(ctx)
	s.checkProgression()
	s.subscribe(ctx)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.writer.run(s.done)
	}()
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()

	metrics.ActiveSessions.Inc()
	s.log.Infof("session started for %s", s.date)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owner of the session.
func (s *Session) UserID() string { return s.userID }

// Stop tears down all periodic tasks and the listener, flushes queued
// writes and waits for every goroutine to exit.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		metrics.ActiveSessions.Dec()
		s.log.Info("session stopped")
	})
}

// Done is closed when the session loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if s.stopListener != nil {
			s.stopListener()
		}
	}()

	activity := time.NewTicker(s.cfg.ActivityInterval)
	defer activity.Stop()
	recompute := time.NewTicker(s.cfg.RecomputeInterval)
	defer recompute.Stop()
	wearable := time.NewTicker(s.cfg.WearableInterval)
	defer wearable.Stop()

	s.startBiometricSync(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-activity.C:
			s.onActivityTick()
		case <-recompute.C:
			s.onRecomputeTick(ctx)
		case <-wearable.C:
			s.startBiometricSync(ctx)
		case b := <-s.readings:
			s.onBiometrics(b)
		case doc, ok := <-s.remote:
			if !ok {
				s.remote = nil
				s.listenerDown = true
				s.log.Warn("remote listener closed")
				continue
			}
			s.onRemote(doc)
		case ack := <-s.acks:
			s.onAck(ack)
		case cmd := <-s.cmds:
			cmd()
		}
	}
}

// do runs fn on the loop goroutine and waits for it.
func (s *Session) do(ctx context.Context, fn func(ctx context.Context)) error {
	finished := make(chan struct{})
	cmd := func() {
		fn(ctx)
		close(finished)
	}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrSessionStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordInteraction refreshes the idle timer. Returns false if kind does
// not qualify.
func (s *Session) RecordInteraction(ctx context.Context, kind monitor.InteractionKind, at time.Time) (bool, error) {
	var accepted bool
	err := s.do(ctx, func(context.Context) {
		accepted = s.tracker.RecordInteraction(kind, at)
	})
	return accepted, err
}

// SetVisible updates tab visibility. Hidden tabs accrue no screen time.
func (s *Session) SetVisible(ctx context.Context, visible bool) error {
	return s.do(ctx, func(context.Context) {
		s.tracker.SetVisible(visible)
	})
}

// Status returns the current snapshot and derived values.
func (s *Session) Status(ctx context.Context) (Status, error) {
	var st Status
	err := s.do(ctx, func(context.Context) {
		st = s.status()
	})
	return st, err
}

// ApplyEdit validates and applies a manual correction, then recomputes.
func (s *Session) ApplyEdit(ctx context.Context, edit Edit) (Status, error) {
	patch, err := edit.Patch()
	if err != nil {
		return Status{}, err
	}

	var st Status
	err = s.do(ctx, func(ctx context.Context) {
		if _, ok := patch[state.FieldSleep]; ok {
			s.simulatedSleep = false
		}
		s.commit(patch)
		s.recompute(ctx)
		st = s.status()
	})
	return st, err
}

// SetExams replaces the exams used by the score and recomputes.
func (s *Session) SetExams(ctx context.Context, exams []state.Exam) error {
	exams = append([]state.Exam(nil), exams...)
	return s.do(ctx, func(ctx context.Context) {
		s.exams = exams
		s.recompute(ctx)
	})
}

func (s *Session) status() Status {
	return Status{
		SessionID:       s.id,
		UserID:          s.userID,
		Date:            s.date,
		Metrics:         s.snapshot,
		Progression:     s.progression,
		Breakdown:       score.Explain(score.FromMetrics(s.snapshot, s.exams)),
		Assessment:      s.assessment,
		Visible:         s.tracker.Visible(),
		LastInteraction: s.tracker.LastInteraction(),
		SyncDegraded:    s.writeFailed || s.listenerDown,
		PendingFields:   s.sync.inFlight(),
		QueuedWrites:    s.writer.queued(),
	}
}

// commit applies patch to the snapshot and queues its write.
func (s *Session) commit(patch state.Patch) {
	if len(patch) == 0 {
		return
	}
	s.snapshot.Apply(patch)
	seq := s.sync.track(patch)
	s.writer.enqueue(writeOp{seq: seq, date: s.date, patch: patch})
}

func (s *Session) saveProgression() {
	p := s.progression
	s.writer.enqueue(writeOp{date: s.date, progression: &p})
}

func (s *Session) onActivityTick() {
	accrual, ok := s.tracker.Tick(s.cfg.Now())
	if !ok {
		return
	}
	metrics.ActivitySeconds.WithLabelValues(string(accrual.Bucket)).Add(accrual.Duration.Seconds())
	s.commit(s.tracker.Accumulate(s.snapshot, accrual))
}

func (s *Session) onRecomputeTick(ctx context.Context) {
	if today := state.DateKey(s.cfg.Now(), s.cfg.Location); today != s.date {
		s.rollover(ctx, today)
	}
	if !s.progressionLoaded {
		s.loadProgression(ctx)
		s.checkProgression()
	}
	if s.remote == nil {
		s.subscribe(ctx)
	}
	s.resendUnsynced()
	s.recompute(ctx)
}

// recompute derives score and burnout risk from the current snapshot.
func (s *Session) recompute(ctx context.Context) {
	next := s.snapshot
	next.Score = score.Calculate(score.FromMetrics(s.snapshot, s.exams))
	s.assessment = s.deps.Assessor.Assess(ctx, s.snapshot)
	next.BurnoutRisk = s.assessment.Risk

	metrics.ScoreComputations.Inc()
	metrics.ScoreValue.Observe(float64(next.Score))
	metrics.BurnoutAssessments.WithLabelValues(string(next.BurnoutRisk)).Inc()

	patch := s.snapshot.Diff(next)
	s.commit(patch)
	if _, changed := patch[state.FieldScore]; changed {
		s.checkProgression()
	}
}

// checkProgression runs the day boundary check and level update, queueing
// a save only when something changed.
func (s *Session) checkProgression() {
	if !s.progressionLoaded {
		return
	}
	before := s.progression
	_, reset := state.EvaluateDayBoundary(&s.progression, s.date)
	state.ApplyLevel(&s.progression, s.snapshot.Score, reset)

	if s.progression != before {
		s.log.Infof("progression updated: streak=%d level=%d", s.progression.StreakDays, s.progression.Level)
		s.saveProgression()
	}
}

func (s *Session) rollover(ctx context.Context, today string) {
	s.log.Infof("day rolled over from %s to %s", s.date, today)

	if s.stopListener != nil {
		s.stopListener()
		s.stopListener = nil
	}
	s.remote = nil

	if !s.sync.settled() {
		s.pastDays[s.date] = &pastDay{snapshot: s.snapshot, sync: s.sync}
	}
	s.date = today
	s.sync = newSyncTracker()
	s.simulatedSleep = false
	visible := s.tracker.Visible()
	s.tracker = monitor.NewTracker(s.cfg.ActivityInterval, s.tracker.LastInteraction())
	s.tracker.SetVisible(visible)

	s.loadDay(ctx)
	s.checkProgression()
	s.subscribe(ctx)
	s.startBiometricSync(ctx)
}

// resendUnsynced queues the fields whose write failed, for today and for
// any earlier day still waiting on its store.
func (s *Session) resendUnsynced() {
	for date, day := range s.pastDays {
		s.resend(date, day.snapshot, day.sync)
	}
	s.resend(s.date, s.snapshot, s.sync)
}

func (s *Session) resend(date string, snapshot state.DailyMetrics, t *syncTracker) {
	fields := t.takeUnsynced()
	if len(fields) == 0 {
		return
	}
	patch := state.Patch{}
	for _, field := range fields {
		if v, ok := snapshot.Get(field); ok {
			patch[field] = v
		}
	}
	s.log.Debugf("re-sending %d unsynced fields for %s", len(patch), date)
	seq := t.track(patch)
	s.writer.enqueue(writeOp{seq: seq, date: date, patch: patch})
}

func (s *Session) onAck(ack writeAck) {
	if ack.err != nil {
		s.writeFailed = true
	} else {
		s.writeFailed = false
	}
	if ack.fields == nil {
		return
	}
	if ack.date == s.date {
		s.sync.ack(ack.seq, ack.fields, ack.rev, ack.err != nil)
		return
	}
	day, ok := s.pastDays[ack.date]
	if !ok {
		return
	}
	day.sync.ack(ack.seq, ack.fields, ack.rev, ack.err != nil)
	if day.sync.settled() {
		delete(s.pastDays, ack.date)
		s.log.Infof("writes for %s caught up", ack.date)
	}
}

func (s *Session) onRemote(doc state.DailyMetrics) {
	if doc.Date != s.date {
		return
	}
	applied, skipped := mergeRemote(s.snapshot, doc, s.sync)

	metrics.RemoteFields.WithLabelValues("applied").Add(float64(len(applied)))
	metrics.RemoteFields.WithLabelValues("skipped").Add(float64(len(skipped)))
	if len(skipped) > 0 {
		s.log.Debugf("kept local values for %v over remote rev %d", skipped, doc.Revision)
	}

	if _, ok := applied[state.FieldSleep]; ok {
		s.simulatedSleep = false
	}
	s.snapshot.Apply(applied)
	if doc.Revision > s.snapshot.Revision {
		s.snapshot.Revision = doc.Revision
		s.snapshot.UpdatedAt = doc.UpdatedAt
	}
}

// startBiometricSync fetches the wearable reading off the loop. Only one
// fetch runs at a time.
func (s *Session) startBiometricSync(ctx context.Context) {
	if s.syncing {
		return
	}
	s.syncing = true
	date := s.date
	now := s.cfg.Now()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		b := biometrics{date: date}
		reading, err := s.fetchWearable(ctx, date)
		if ctx.Err() != nil {
			return
		}
		switch {
		case err == nil:
			b.reading = simulator.Reading{
				Hour:          now.In(s.cfg.Location).Hour(),
				Steps:         reading.Steps,
				Calories:      reading.Calories,
				HeartRate:     reading.AvgHR,
				SleepHours:    reading.SleepHours,
				ExerciseScore: simulator.ExerciseScore(reading.Steps),
			}
			metrics.WearableSyncs.WithLabelValues("wearable").Inc()
		case errors.Is(err, service.ErrWearableNotLinked):
			b.reading = s.deps.Simulator.Reading(now.In(s.cfg.Location))
			b.simulated = true
			metrics.WearableSyncs.WithLabelValues("simulator").Inc()
		default:
			// keep the last known values
			s.log.Warnf("wearable sync failed: %v", err)
			metrics.WearableSyncs.WithLabelValues("failed").Inc()
			b.date = ""
		}

		select {
		case s.readings <- b:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) fetchWearable(ctx context.Context, date string) (*service.WearableReading, error) {
	if s.deps.Wearable == nil {
		return nil, service.ErrWearableNotLinked
	}
	return s.deps.Wearable.FetchDaily(ctx, s.userID, date)
}

func (s *Session) onBiometrics(b biometrics) {
	s.syncing = false
	if b.date != s.date {
		return
	}

	// simulated sleep only fills a gap; a wearable reading replaces it
	var patch state.Patch
	switch {
	case b.simulated:
		patch = simulator.Fold(s.snapshot, b.reading)
		if _, ok := patch[state.FieldSleep]; ok {
			s.simulatedSleep = true
		}
	case s.simulatedSleep:
		patch = simulator.Overlay(s.snapshot, b.reading)
		if _, ok := patch[state.FieldSleep]; ok {
			s.simulatedSleep = false
		}
	default:
		patch = simulator.Fold(s.snapshot, b.reading)
	}
	s.commit(patch)
}

func (s *Session) loadDay(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	doc, _, err := s.deps.Store.GetDailyMetrics(ctx, s.userID, s.date)
	if err != nil {
		s.log.Warnf("continuing with empty snapshot: %v", err)
		s.writeFailed = true
		doc = state.DailyMetrics{Date: s.date}
	}
	s.snapshot = doc
}

func (s *Session) loadProgression(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	p, err := s.deps.Store.GetProgression(ctx, s.userID)
	if err != nil {
		s.log.Warnf("progression unavailable, ledger deferred: %v", err)
		return
	}
	s.progression = *p
	s.progressionLoaded = true
}

func (s *Session) loadExams(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	exams, err := s.deps.Store.ListExams(ctx, s.userID)
	if err != nil {
		s.log.Warnf("exams unavailable: %v", err)
		return
	}
	s.exams = exams
}

func (s *Session) subscribe(ctx context.Context) {
	listenerCtx, cancel := context.WithCancel(ctx)
	updates, err := s.deps.Store.Subscribe(listenerCtx, s.userID, s.date)
	if err != nil {
		cancel()
		s.listenerDown = true
		s.log.Warnf("remote listener unavailable: %v", err)
		return
	}
	s.remote = updates
	s.stopListener = cancel
	s.listenerDown = false
}
