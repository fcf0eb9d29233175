package core

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	r := NewRegistry()
	a := r.GetOrCreate("r1")
	b := r.GetOrCreate("r1")
	if a != b {
		t.Error("GetOrCreate must return the existing session for a known room")
	}
	if _, ok := r.Get("r1"); !ok {
		t.Error("Get should find a created session")
	}
	if _, ok := r.Get("r2"); ok {
		t.Error("Get must not create sessions")
	}
}

func TestGetOrCreateConcurrentSingleWinner(t *testing.T) {
	r := NewRegistry()

	const n = 32
	out := make(chan *Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out <- r.GetOrCreate("contested")
		}()
	}
	wg.Wait()
	close(out)

	first := <-out
	for s := range out {
		if s != first {
			t.Fatal("concurrent creators must all receive the winner's instance")
		}
	}
	if r.Len() != 1 {
		t.Errorf("registry size = %d, want 1", r.Len())
	}
}

func TestListLiveFiltersInactive(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	r := NewRegistry()
	r.now = fixedClock(t0)
	a := &Arbiter{Now: fixedClock(t0)}

	live := r.GetOrCreate("live")
	idle := r.GetOrCreate("idle")
	ended := r.GetOrCreate("ended")

	if _, err := a.Admit(live, mustJoin(t, "live", "alice", "instructor"), "conn-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if _, err := a.Admit(idle, mustJoin(t, "idle", "bob", "student"), "conn-b"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if _, err := a.Admit(ended, mustJoin(t, "ended", "carol", "instructor"), "conn-c"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	a.Leave(ended, "conn-c")

	snaps := r.ListLive()
	if len(snaps) != 1 {
		t.Fatalf("live sessions = %d, want 1", len(snaps))
	}
	if snaps[0].Room != "live" || snaps[0].Instructor.Identity != "alice" {
		t.Errorf("unexpected live snapshot: %+v", snaps[0])
	}
}

func TestSweepEvictsOnlyDeadIdleSessions(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	grace := 10 * time.Minute

	r := NewRegistry()
	r.now = fixedClock(t0)
	a := &Arbiter{Now: fixedClock(t0)}

	// Never-live, empty session: idle since creation.
	r.GetOrCreate("abandoned")

	// Live session must never be reaped.
	live := r.GetOrCreate("live")
	if _, err := a.Admit(live, mustJoin(t, "live", "alice", "instructor"), "conn-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}

	// Non-live but still has a student.
	waiting := r.GetOrCreate("waiting")
	if _, err := a.Admit(waiting, mustJoin(t, "waiting", "bob", "student"), "conn-b"); err != nil {
		t.Fatalf("admit: %v", err)
	}

	if removed := r.Sweep(t0.Add(grace-time.Second), grace); len(removed) != 0 {
		t.Errorf("sweep before grace removed %v", removed)
	}

	removed := r.Sweep(t0.Add(grace), grace)
	if len(removed) != 1 || removed[0] != "abandoned" {
		t.Errorf("sweep removed %v, want [abandoned]", removed)
	}
	if _, ok := r.Get("abandoned"); ok {
		t.Error("reaped session still present")
	}
	if _, ok := r.Get("live"); !ok {
		t.Error("live session must survive sweep")
	}
	if _, ok := r.Get("waiting"); !ok {
		t.Error("session with students must survive sweep")
	}
}

func TestSweepAfterInstructorLeft(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	grace := 10 * time.Minute
	clock := t0

	r := NewRegistry()
	r.now = func() time.Time { return clock }
	a := &Arbiter{Now: func() time.Time { return clock }}

	s := r.GetOrCreate("r1")
	if _, err := a.Admit(s, mustJoin(t, "r1", "alice", "instructor"), "conn-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}

	clock = t0.Add(time.Hour)
	a.Leave(s, "conn-a")

	// The leave refreshed the idle clock; grace counts from there.
	if removed := r.Sweep(clock.Add(grace-time.Second), grace); len(removed) != 0 {
		t.Errorf("sweep inside grace removed %v", removed)
	}
	if removed := r.Sweep(clock.Add(grace), grace); len(removed) != 1 {
		t.Errorf("sweep after grace removed %v, want one", removed)
	}
}

// A goroutine can hold a *Session from an earlier lookup while the
// reaper evicts it. Admission into the evicted instance must be refused
// so the member does not land in a session no lookup can reach.
func TestAdmitRefusesReapedSession(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	grace := 10 * time.Minute

	r := NewRegistry()
	r.now = fixedClock(t0)
	a := &Arbiter{Now: fixedClock(t0)}

	stale := r.GetOrCreate("r1")
	if removed := r.Sweep(t0.Add(grace), grace); len(removed) != 1 {
		t.Fatalf("sweep removed %v, want one", removed)
	}

	if _, err := a.Admit(stale, mustJoin(t, "r1", "alice", "instructor"), "conn-a"); !errors.Is(err, ErrSessionReaped) {
		t.Fatalf("admit into reaped session: err = %v, want ErrSessionReaped", err)
	}
	if sn := stale.Snapshot(); sn.Live || sn.Students != 0 {
		t.Errorf("refused admission mutated the reaped session: %+v", sn)
	}

	fresh := r.GetOrCreate("r1")
	if fresh == stale {
		t.Fatal("room id must resolve to a fresh session after the sweep")
	}
	if _, err := a.Admit(fresh, mustJoin(t, "r1", "alice", "instructor"), "conn-a"); err != nil {
		t.Fatalf("admit into fresh session: %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	t0 := time.Unix(1700000000, 0)
	a := &Arbiter{Now: fixedClock(t0)}
	s := newSession("r1", t0)

	if _, err := a.Admit(s, mustJoin(t, "r1", "alice", "instructor"), "conn-a"); err != nil {
		t.Fatalf("admit: %v", err)
	}
	a.Append(s, "alice", "hello")

	sn := s.Snapshot()
	sn.Instructor.Active = false
	sn.Messages[0].Text = "tampered"

	fresh := s.Snapshot()
	if !fresh.InstructorActive() {
		t.Error("mutating a snapshot must not affect session state")
	}
	if fresh.Messages[0].Text != "hello" {
		t.Error("mutating snapshot messages must not affect session state")
	}
}
