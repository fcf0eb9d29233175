package domain

import "time"

// Instructor is the single presenter seat of a session. At most one
// exists per session and at most one may be active at a time.
type Instructor struct {
	Identity Identity
	Conn     ConnID
	Active   bool
}

// Student is one observer entry, keyed by Identity in the session.
// Reconnection by the same identity replaces Conn in place.
type Student struct {
	Conn     ConnID
	Active   bool
	JoinedAt time.Time
}
