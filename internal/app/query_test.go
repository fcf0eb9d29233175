package app

import (
	"testing"
	"time"
)

func TestListActiveReflectsLiveSessions(t *testing.T) {
	t0 := time.Unix(1700000000, 0).UTC()
	g := newTestGateway(t0)
	q := &QueryService{Registry: g.Registry}

	a := connect(g, "conn-a")
	connect(g, "conn-b")
	g.Join("conn-a", "r1", "alice", "instructor")
	g.Join("conn-b", "r1", "bob", "student")

	got := q.ListActive()
	if len(got) != 1 {
		t.Fatalf("active sessions = %d, want 1", len(got))
	}
	s := got[0]
	if s.ID != "r1" || s.InstructorIdentity != "alice" || s.Participants != 2 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.StartTime == nil || !s.StartTime.Equal(t0) {
		t.Errorf("startTime = %v, want %v", s.StartTime, t0)
	}

	// After the instructor drops, the session disappears from the view.
	g.Disconnect("conn-a", a)
	if got := q.ListActive(); len(got) != 0 {
		t.Errorf("active sessions after instructor left = %d, want 0", len(got))
	}
}

func TestListActiveEmptyIsNotNil(t *testing.T) {
	t0 := time.Unix(1700000000, 0).UTC()
	g := newTestGateway(t0)
	q := &QueryService{Registry: g.Registry}

	if got := q.ListActive(); got == nil {
		t.Error("ListActive must return an empty slice, not nil")
	}
}
