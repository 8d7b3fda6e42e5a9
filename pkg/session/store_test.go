// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"errors"
	"sync"

	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

// fakeStore is an in-memory Store whose writes can be held back and whose
// listener deliveries are pushed by the test.
type fakeStore struct {
	mu           sync.Mutex
	docs         map[string]state.DailyMetrics
	rev          int64
	progression  state.ProgressionState
	saves        []state.ProgressionState
	exams        []state.Exam
	merges       []state.Patch
	subscribed   []string
	subs         map[string]chan state.DailyMetrics
	failMerges   bool
	failProgress bool

	// gate, when set, holds every merge until it is closed
	gate     chan struct{}
	// loadGate does the same for daily document reads
	loadGate chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs: make(map[string]state.DailyMetrics),
		subs: make(map[string]chan state.DailyMetrics),
	}
}

func (f *fakeStore) GetDailyMetrics(ctx context.Context, userID, date string) (state.DailyMetrics, bool, error) {
	f.mu.Lock()
	gate := f.loadGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, ok := f.docs[date]
	if !ok {
		return state.DailyMetrics{Date: date}, false, nil
	}
	return doc, true, nil
}

func (f *fakeStore) MergeDailyMetrics(ctx context.Context, userID, date string, patch state.Patch) (int64, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failMerges {
		return 0, errors.New("store unavailable")
	}
	doc, ok := f.docs[date]
	if !ok {
		doc = state.DailyMetrics{Date: date}
	}
	doc.Apply(patch)
	f.rev++
	doc.Revision = f.rev
	f.docs[date] = doc
	f.merges = append(f.merges, patch)
	return f.rev, nil
}

func (f *fakeStore) Subscribe(ctx context.Context, userID, date string) (<-chan state.DailyMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan state.DailyMetrics, 16)
	f.subs[date] = ch
	f.subscribed = append(f.subscribed, date)

	out := make(chan state.DailyMetrics)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case doc := <-ch:
				select {
				case out <- doc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeStore) GetProgression(ctx context.Context, userID string) (*state.ProgressionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failProgress {
		return nil, errors.New("store unavailable")
	}
	p := f.progression
	return &p, nil
}

func (f *fakeStore) SaveProgression(ctx context.Context, userID string, p *state.ProgressionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.progression = *p
	f.saves = append(f.saves, *p)
	return nil
}

func (f *fakeStore) ListExams(ctx context.Context, userID string) ([]state.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]state.Exam(nil), f.exams...), nil
}

// push delivers doc to the listener of its date.
func (f *fakeStore) push(doc state.DailyMetrics) {
	f.mu.Lock()
	ch := f.subs[doc.Date]
	f.mu.Unlock()
	ch <- doc
}

func (f *fakeStore) doc(date string) state.DailyMetrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[date]
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) subscriptions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.subscribed...)
}

func (f *fakeStore) setFailMerges(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failMerges = fail
}
