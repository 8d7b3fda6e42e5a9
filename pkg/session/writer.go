// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/AccelByte/extend-cognitive-score/pkg/metrics"
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
	"github.com/sirupsen/logrus"
)

// writeOp is one queued store write: either a daily field merge or a
// progression save.
type writeOp struct {
	seq         uint64
	date        string
	patch       state.Patch
	progression *state.ProgressionState
}

type writeAck struct {
	seq    uint64
	date   string
	fields []string
	rev    int64
	err    error
}

// writer issues store writes one at a time in enqueue order. Enqueue never
// blocks, so the session loop is never held up by the store.
type writer struct {
	store   Store
	userID  string
	timeout time.Duration
	log     *logrus.Entry

	mu     sync.Mutex
	queue  []writeOp
	signal chan struct{}

	acks chan<- writeAck
}

func newWriter(store Store, userID string, timeout time.Duration, acks chan<- writeAck, log *logrus.Entry) *writer {
	return &writer{
		store:   store,
		userID:  userID,
		timeout: timeout,
		log:     log,
		signal:  make(chan struct{}, 1),
		acks:    acks,
	}
}

func (w *writer) enqueue(op writeOp) {
	w.mu.Lock()
	w.queue = append(w.queue, op)
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *writer) next() (writeOp, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.queue) == 0 {
		return writeOp{}, false
	}
	op := w.queue[0]
	w.queue = w.queue[1:]
	return op, true
}

// run drains the queue until loopDone is closed, then flushes what is left
// without acknowledging.
func (w *writer) run(loopDone <-chan struct{}) {
	for {
		select {
		case <-loopDone:
			w.flush()
			return
		case <-w.signal:
		}

		for {
			op, ok := w.next()
			if !ok {
				break
			}
			ack := w.write(op)
			select {
			case w.acks <- ack:
			case <-loopDone:
				w.flush()
				return
			}
		}
	}
}

func (w *writer) flush() {
	var flushed int
	for {
		op, ok := w.next()
		if !ok {
			break
		}
		w.write(op)
		flushed++
	}
	if flushed > 0 {
		w.log.Debugf("flushed %d queued writes on stop", flushed)
	}
}

func (w *writer) write(op writeOp) writeAck {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	ack := writeAck{seq: op.seq, date: op.date}

	if op.progression != nil {
		ack.err = w.store.SaveProgression(ctx, w.userID, op.progression)
	} else {
		ack.fields = op.patch.Fields()
		ack.rev, ack.err = w.store.MergeDailyMetrics(ctx, w.userID, op.date, op.patch)
	}

	if ack.err != nil {
		metrics.RemoteWrites.WithLabelValues("error").Inc()
		w.log.Warnf("store write %d failed: %v", op.seq, ack.err)
	} else {
		metrics.RemoteWrites.WithLabelValues("ok").Inc()
	}
	return ack
}

func (w *writer) queued() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}
