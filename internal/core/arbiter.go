package core

import (
	"errors"
	"time"

	"github.com/classwave/live/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrInstructorConflict means a different active instructor already
// holds the session's presenter seat.
var ErrInstructorConflict = errors.New("another instructor is already active")

// ErrSessionReaped means the session was evicted between lookup and
// admission. The caller resolves the room id again and gets a fresh
// session.
var ErrSessionReaped = errors.New("session no longer registered")

// AdmitResult describes a successful admission together with the state
// at the instant it was applied.
type AdmitResult struct {
	Role     domain.Role
	Identity domain.Identity
	// WentLive is true for instructor admissions, including
	// re-admission by the same logical presenter.
	WentLive bool
	Snapshot Snapshot
}

type LeaveKind int

const (
	LeaveNone LeaveKind = iota
	LeaveInstructor
	LeaveStudent
)

// LeaveResult describes the effect of a leave transition.
type LeaveResult struct {
	Kind     LeaveKind
	Identity domain.Identity
	Snapshot Snapshot
}

// Arbiter is the only writer of session state. Every transition runs
// under the session's own lock, so the instructor check-and-set is
// indivisible with respect to concurrent admissions.
type Arbiter struct {
	// Now is a test hook; nil means time.Now.
	Now func() time.Time
}

func (a *Arbiter) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Admit applies req to the session. The request must already be
// validated; the only rejection left here is the instructor conflict,
// which alters nothing.
func (a *Arbiter) Admit(s *Session, req domain.JoinRequest, conn domain.ConnID) (AdmitResult, error) {
	now := a.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dead {
		return AdmitResult{}, ErrSessionReaped
	}

	switch req.Role {
	case domain.RoleInstructor:
		if s.instructor != nil && s.instructor.Active && s.instructor.Conn != conn {
			return AdmitResult{}, ErrInstructorConflict
		}
		s.instructor = &domain.Instructor{Identity: req.Identity, Conn: conn, Active: true}
		// The same identity cannot also be counted as a student.
		delete(s.students, req.Identity)
		s.live = true
		if s.startTime.IsZero() {
			s.startTime = now
		}
		log.Info().Str("module", "core.arbiter").Str("room", string(s.id)).Str("identity", string(req.Identity)).Msg("instructor admitted")

	case domain.RoleStudent:
		// Upsert by identity: a reconnect updates the entry in
		// place, never duplicates.
		s.students[req.Identity] = &domain.Student{Conn: conn, Active: true, JoinedAt: now}
		log.Info().Str("module", "core.arbiter").Str("room", string(s.id)).Str("identity", string(req.Identity)).Msg("student admitted")
	}

	s.touched = now
	return AdmitResult{
		Role:     req.Role,
		Identity: req.Identity,
		WentLive: req.Role == domain.RoleInstructor,
		Snapshot: s.snapshotLocked(),
	}, nil
}

// Leave applies the disconnect/leave transition for conn. An active
// instructor is deactivated (startTime is retained); a student entry is
// removed. LeaveNone means the connection held no seat here.
func (a *Arbiter) Leave(s *Session, conn domain.ConnID) LeaveResult {
	now := a.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.instructor != nil && s.instructor.Active && s.instructor.Conn == conn {
		s.instructor.Active = false
		s.live = false
		s.touched = now
		log.Info().Str("module", "core.arbiter").Str("room", string(s.id)).Str("identity", string(s.instructor.Identity)).Msg("instructor left")
		return LeaveResult{Kind: LeaveInstructor, Identity: s.instructor.Identity, Snapshot: s.snapshotLocked()}
	}

	for id, st := range s.students {
		if st.Conn == conn {
			delete(s.students, id)
			s.touched = now
			log.Info().Str("module", "core.arbiter").Str("room", string(s.id)).Str("identity", string(id)).Msg("student left")
			return LeaveResult{Kind: LeaveStudent, Identity: id, Snapshot: s.snapshotLocked()}
		}
	}
	return LeaveResult{Kind: LeaveNone}
}

// Append adds one chat entry and returns it with the resulting state.
func (a *Arbiter) Append(s *Session, identity domain.Identity, text string) (domain.Message, Snapshot) {
	now := a.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{Identity: identity, Text: text, SentAt: now}
	s.messages = append(s.messages, msg)
	s.touched = now
	return msg, s.snapshotLocked()
}
