package core

import (
	"sync"
	"time"

	"github.com/classwave/live/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry owns the room id -> session mapping. It does identity-keyed
// storage only; session fields are mutated through the Arbiter.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.RoomID]*Session

	// now is a test hook; defaults to time.Now.
	now func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.RoomID]*Session),
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, creating it on first
// reference. The first concurrent creator wins; others receive the
// winner's instance.
func (r *Registry) GetOrCreate(id domain.RoomID) *Session {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.sessions[id]; ok {
		return s
	}
	s = newSession(id, r.now())
	r.sessions[id] = s
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("session created")
	return s
}

func (r *Registry) Get(id domain.RoomID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ListLive snapshots every session that currently has an active
// instructor. Pure read; safe against concurrent admissions.
func (r *Registry) ListLive() []Snapshot {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		if sn := s.Snapshot(); sn.Live && sn.InstructorActive() {
			out = append(out, sn)
		}
	}
	return out
}

// Sweep removes sessions that are non-live, empty, and idle past the
// grace period, and returns the ids it evicted.
func (r *Registry) Sweep(now time.Time, grace time.Duration) []domain.RoomID {
	r.mu.RLock()
	candidates := make([]*Session, 0)
	for _, s := range r.sessions {
		if s.reapable(now, grace) {
			candidates = append(candidates, s)
		}
	}
	r.mu.RUnlock()
	if len(candidates) == 0 {
		return nil
	}

	removed := make([]domain.RoomID, 0, len(candidates))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range candidates {
		// Recheck, mark dead, and drop from the map while holding the
		// session lock: an Admit racing the sweep either lands before
		// the recheck, keeping the session, or after the mark, where it
		// is refused and retries against a fresh session.
		s.mu.Lock()
		if !s.reapableLocked(now, grace) {
			s.mu.Unlock()
			continue
		}
		s.dead = true
		delete(r.sessions, s.id)
		s.mu.Unlock()
		removed = append(removed, s.id)
		log.Info().Str("module", "core.registry").Str("room", string(s.id)).Msg("session reaped")
	}
	return removed
}
