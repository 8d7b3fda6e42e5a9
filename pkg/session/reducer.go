// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"github.com/AccelByte/extend-cognitive-score/pkg/state"
)

// syncTracker records which snapshot fields have local writes that the
// remote document may not reflect yet.
//
// A field is guarded while a write touching it is in flight, after a failed
// write until it is re-sent, and against any remote document older than
// the revision produced by our last confirmed write of that field.
type syncTracker struct {
	seq      uint64
	pending  map[string]uint64
	acked    map[string]int64
	unsynced map[string]bool
}

func newSyncTracker() *syncTracker {
	return &syncTracker{
		pending:  make(map[string]uint64),
		acked:    make(map[string]int64),
		unsynced: make(map[string]bool),
	}
}

// track assigns the next sequence number to a patch and marks its fields
// pending.
func (t *syncTracker) track(p state.Patch) uint64 {
	t.seq++
	for field := range p {
		t.pending[field] = t.seq
		delete(t.unsynced, field)
	}
	return t.seq
}

// ack releases the fields of write seq. Fields already claimed by a newer
// write stay pending.
func (t *syncTracker) ack(seq uint64, fields []string, rev int64, failed bool) {
	for _, field := range fields {
		latest := t.pending[field] == seq
		if latest {
			delete(t.pending, field)
		}
		if failed {
			if latest {
				t.unsynced[field] = true
			}
			continue
		}
		if rev > t.acked[field] {
			t.acked[field] = rev
		}
	}
}

func (t *syncTracker) guarded(field string, remoteRev int64) bool {
	if _, ok := t.pending[field]; ok {
		return true
	}
	if t.unsynced[field] {
		return true
	}
	return t.acked[field] > remoteRev
}

// takeUnsynced returns and clears the fields whose write failed.
func (t *syncTracker) takeUnsynced() []string {
	if len(t.unsynced) == 0 {
		return nil
	}
	fields := make([]string, 0, len(t.unsynced))
	for field := range t.unsynced {
		fields = append(fields, field)
	}
	t.unsynced = make(map[string]bool)
	return fields
}

// settled reports whether every write tracked so far has landed.
func (t *syncTracker) settled() bool {
	return len(t.pending) == 0 && len(t.unsynced) == 0
}

func (t *syncTracker) inFlight() int {
	return len(t.pending)
}

// mergeRemote reduces a remote document into the local snapshot field by
// field. Returns the patch to apply locally and the fields that were kept
// because a local write supersedes them.
func mergeRemote(local, remote state.DailyMetrics, t *syncTracker) (state.Patch, []string) {
	diff := local.Diff(remote)

	var skipped []string
	for field := range diff {
		if t.guarded(field, remote.Revision) {
			skipped = append(skipped, field)
			delete(diff, field)
		}
	}
	return diff, skipped
}
