package app

import (
	"time"

	"github.com/classwave/live/internal/core"
	"github.com/classwave/live/internal/domain"
)

// SessionSummary is the read-only view of one live session.
type SessionSummary struct {
	ID                 domain.RoomID   `json:"id"`
	StartTime          *time.Time      `json:"startTime"`
	Participants       int             `json:"participants"`
	InstructorIdentity domain.Identity `json:"instructorIdentity"`
}

// QueryService lists currently live sessions. Pure read, safe to call
// concurrently with any write path.
type QueryService struct {
	Registry *core.Registry
}

func (q *QueryService) ListActive() []SessionSummary {
	snaps := q.Registry.ListLive()
	out := make([]SessionSummary, 0, len(snaps))
	for _, sn := range snaps {
		out = append(out, SessionSummary{
			ID:                 sn.Room,
			StartTime:          startTimePtr(sn),
			Participants:       sn.Participants(),
			InstructorIdentity: sn.Instructor.Identity,
		})
	}
	return out
}
