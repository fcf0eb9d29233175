package core

import (
	"sync"
	"time"

	"github.com/classwave/live/internal/domain"
)

// Session is the state of one room's live broadcast. All mutation goes
// through the Arbiter while holding mu; the registry only stores it.
type Session struct {
	mu sync.Mutex

	id         domain.RoomID
	createdAt  time.Time
	instructor *domain.Instructor
	students   map[domain.Identity]*domain.Student
	messages   []domain.Message

	live bool
	// startTime is set the first moment an instructor goes live and
	// never reassigned, even across disconnect/reconnect cycles.
	startTime time.Time

	// touched is the last admission/leave/append, read by the reaper.
	touched time.Time

	// dead is set by the reaper in the same critical section that drops
	// the session from the registry. A goroutine still holding the
	// pointer must not admit into it; a fresh session takes the room id.
	dead bool
}

func newSession(id domain.RoomID, now time.Time) *Session {
	return &Session{
		id:        id,
		createdAt: now,
		students:  make(map[domain.Identity]*domain.Student),
		touched:   now,
	}
}

func (s *Session) ID() domain.RoomID { return s.id }

// Snapshot copies the session state under its lock, so readers never
// observe a torn update (live=true with no instructor and the like).
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	sn := Snapshot{
		Room:      s.id,
		Live:      s.live,
		StartTime: s.startTime,
		Students:  len(s.students),
		Messages:  make([]domain.Message, len(s.messages)),
		CreatedAt: s.createdAt,
	}
	copy(sn.Messages, s.messages)
	if s.instructor != nil {
		seat := *s.instructor
		sn.Instructor = &seat
	}
	return sn
}

// reapable reports whether the session is dead weight: not live, no
// students left, and idle past the grace period.
func (s *Session) reapable(now time.Time, grace time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reapableLocked(now, grace)
}

func (s *Session) reapableLocked(now time.Time, grace time.Duration) bool {
	return !s.live && len(s.students) == 0 && now.Sub(s.touched) >= grace
}

// Snapshot is a read-only copy of session state at one instant.
type Snapshot struct {
	Room       domain.RoomID
	Live       bool
	StartTime  time.Time // zero until the session first goes live
	Instructor *domain.Instructor
	Students   int
	Messages   []domain.Message
	CreatedAt  time.Time
}

// InstructorActive reports whether an instructor is currently live.
func (sn Snapshot) InstructorActive() bool {
	return sn.Instructor != nil && sn.Instructor.Active
}

// Participants counts students plus the instructor seat when it is
// active. This is the number fanned out after every admission.
func (sn Snapshot) Participants() int {
	n := sn.Students
	if sn.InstructorActive() {
		n++
	}
	return n
}
