package service

import (
	"sync"
	"time"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// DefaultLivenessWindow is how long a status report stays authoritative.
const DefaultLivenessWindow = 15 * time.Second

// StatusTracker keeps the last status report of every game server in memory.
//
// Entries go stale when no fresh report arrives within the liveness window or
// when the server explicitly reports itself stopped. Status reads self-heal:
// a stale entry is evicted from the map on read. The eviction queue orders
// ids approximately by recency of report (one slot per id, freshest at the
// tail) and is swept from the head by Cleanup on a fixed interval, bounding
// map growth from servers that stop reporting.
//
// A single mutex guards map and queue; Report, Status and Cleanup may be
// called from any goroutine.
type StatusTracker struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time

	data  map[int64]domain.ServerStatus
	queue []int64
}

// NewStatusTracker returns a tracker with the given liveness window
// (DefaultLivenessWindow when non-positive).
func NewStatusTracker(window time.Duration) *StatusTracker {
	if window <= 0 {
		window = DefaultLivenessWindow
	}
	return &StatusTracker{
		window: window,
		now:    time.Now,
		data:   make(map[int64]domain.ServerStatus),
	}
}

// Report upserts the status of a server, stamps it with the current time,
// and moves the id to the tail of the eviction queue. Repeated reports by
// the same id keep a single queue slot.
func (t *StatusTracker) Report(id int64, status domain.ServerStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	status.LastUpdated = t.now()
	t.data[id] = status

	for i, qid := range t.queue {
		if qid == id {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			break
		}
	}
	t.queue = append(t.queue, id)
}

// Status returns the stored status if it is fresh. A stale or missing entry
// yields the synthesized stopped status, and the stale entry is evicted from
// the map (its queue slot is left for Cleanup).
func (t *StatusTracker) Status(id int64) domain.ServerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.freshLocked(id) {
		return domain.StoppedStatus()
	}
	return t.data[id]
}

// Cleanup pops stale entries from the head of the queue, stopping at the
// first fresh one. The queue is only approximately ordered by recency, so
// this is a bounded best-effort sweep; entries it does not reach are still
// evicted lazily by Status. Returns the number of queue slots removed.
func (t *StatusTracker) Cleanup() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for len(t.queue) > 0 && !t.freshLocked(t.queue[0]) {
		t.queue = t.queue[1:]
		evicted++
	}
	return evicted
}

// Tracked returns the number of entries currently held in the map.
func (t *StatusTracker) Tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.data)
}

// freshLocked reports whether id has a fresh entry: present, with a non-zero
// timestamp inside the window, and not explicitly stopped. A stale entry is
// deleted from the map as a side effect. Callers must hold mu.
func (t *StatusTracker) freshLocked(id int64) bool {
	entry, ok := t.data[id]
	if !ok {
		return false
	}

	fresh := !entry.LastUpdated.IsZero() &&
		t.now().Sub(entry.LastUpdated) < t.window &&
		entry.State != domain.StateStopped

	if !fresh {
		delete(t.data, id)
	}
	return fresh
}
