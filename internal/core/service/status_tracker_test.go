package service

import (
	"testing"
	"time"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// trackerAt returns a tracker with a controllable clock.
func trackerAt(start time.Time) (*StatusTracker, *time.Time) {
	now := start
	tr := NewStatusTracker(0)
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestReport_SingleQueueSlotPerID(t *testing.T) {
	tr, _ := trackerAt(time.Unix(1000, 0))

	tr.Report(42, domain.ServerStatus{State: domain.StateRunning, PlayerCount: 5})
	tr.Report(7, domain.ServerStatus{State: domain.StateRunning, PlayerCount: 1})
	tr.Report(42, domain.ServerStatus{State: domain.StateRunning, PlayerCount: 6})

	if len(tr.queue) != 2 {
		t.Fatalf("expected one queue slot per id, got queue %v", tr.queue)
	}
	if tr.queue[0] != 7 || tr.queue[1] != 42 {
		t.Fatalf("re-reported id should move to the tail, got %v", tr.queue)
	}
	if got := tr.Status(42); got.PlayerCount != 6 {
		t.Fatalf("latest report should win, got %+v", got)
	}
}

func TestStatus_FreshnessWindow(t *testing.T) {
	start := time.Unix(1000, 0)
	tr, now := trackerAt(start)

	tr.Report(42, domain.ServerStatus{State: domain.StateRunning, PlayerCount: 5})

	*now = start.Add(14 * time.Second)
	if got := tr.Status(42); got.State != domain.StateRunning || got.PlayerCount != 5 {
		t.Fatalf("report should be fresh at 14s, got %+v", got)
	}

	*now = start.Add(16 * time.Second)
	got := tr.Status(42)
	if got.State != domain.StateStopped || got.PlayerCount != 0 || !got.LastUpdated.IsZero() {
		t.Fatalf("report should be stale at 16s, got %+v", got)
	}
	if tr.Tracked() != 0 {
		t.Fatalf("stale entry should be evicted from the map on read")
	}
}

func TestStatus_StoppedStateIsStale(t *testing.T) {
	tr, _ := trackerAt(time.Unix(1000, 0))

	tr.Report(42, domain.ServerStatus{State: domain.StateStopped, PlayerCount: 0})

	// Even a fresh report counts as stale when the server says stopped.
	if got := tr.Status(42); got.State != domain.StateStopped {
		t.Fatalf("expected stopped, got %+v", got)
	}
	if tr.Tracked() != 0 {
		t.Fatalf("explicitly stopped entry should be evicted")
	}
}

func TestCleanup_SweepsStaleHead(t *testing.T) {
	start := time.Unix(1000, 0)
	tr, now := trackerAt(start)

	tr.Report(42, domain.ServerStatus{State: domain.StateRunning, PlayerCount: 5})
	tr.Report(43, domain.ServerStatus{State: domain.StateRunning, PlayerCount: 1})

	*now = start.Add(601 * time.Second)
	evicted := tr.Cleanup()
	if evicted != 2 {
		t.Fatalf("expected 2 evictions, got %d", evicted)
	}
	if tr.Tracked() != 0 || len(tr.queue) != 0 {
		t.Fatalf("both entries should be gone, map=%d queue=%v", tr.Tracked(), tr.queue)
	}
}

func TestCleanup_StopsAtFirstFreshEntry(t *testing.T) {
	start := time.Unix(1000, 0)
	tr, now := trackerAt(start)

	tr.Report(1, domain.ServerStatus{State: domain.StateRunning})
	*now = start.Add(20 * time.Second)
	tr.Report(2, domain.ServerStatus{State: domain.StateRunning})
	tr.Report(3, domain.ServerStatus{State: domain.StateStopped})

	// Head (1) is past the window and gets swept; 2 is fresh, so the sweep
	// stops there even though 3 behind it is stale.
	if evicted := tr.Cleanup(); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if len(tr.queue) != 2 || tr.queue[0] != 2 {
		t.Fatalf("sweep should stop at the first fresh entry, queue=%v", tr.queue)
	}
	// The stale entry deeper in the queue still self-heals on read.
	if got := tr.Status(3); got.State != domain.StateStopped {
		t.Fatalf("expected synthesized stopped for 3, got %+v", got)
	}
}
