package app

import (
	"errors"
	"time"

	"github.com/classwave/live/internal/core"
	"github.com/classwave/live/internal/domain"
)

// Target selects who receives a notification.
type Target int

const (
	TargetRequester Target = iota
	TargetRoom
	TargetInstructor
)

// Notification pairs an event payload with its recipient set. The
// dispatcher only decides what goes to whom; delivery is the gateway's
// concern.
type Notification struct {
	Target Target
	Event  any
}

const (
	msgInvalidParameters  = "Invalid parameters."
	msgInstructorConflict = "Another instructor is already active in this session."
	msgNotInSession       = "Not joined to a session."
)

// Dispatcher computes the notification set that follows a state change.
type Dispatcher struct{}

// Admitted maps a successful admission to its notifications, using the
// snapshot taken at the instant of admission.
func (Dispatcher) Admitted(res core.AdmitResult) []Notification {
	sn := res.Snapshot
	out := make([]Notification, 0, 3)

	switch res.Role {
	case domain.RoleInstructor:
		out = append(out, Notification{TargetRoom, BroadcastStarted{
			Type:               "broadcast-started",
			InstructorIdentity: res.Identity,
			StartTime:          startTimePtr(sn),
		}})
	case domain.RoleStudent:
		if sn.InstructorActive() {
			out = append(out, Notification{TargetInstructor, StudentJoined{
				Type:          "student-joined",
				RoomID:        sn.Room,
				Identity:      res.Identity,
				TotalStudents: sn.Students,
			}})
		}
		out = append(out, Notification{TargetRequester, SessionInfo{
			Type:             "session-info",
			IsLive:           sn.Live,
			StartTime:        startTimePtr(sn),
			Messages:         sn.Messages,
			TotalStudents:    sn.Students,
			InstructorActive: sn.InstructorActive(),
		}})
	}

	out = append(out, Notification{TargetRoom, ParticipantsUpdated{
		Type:  "participants-updated",
		Count: sn.Participants(),
	}})
	return out
}

// Rejected maps a rejection to its single requester-only error event.
// No room-wide notification follows a rejection.
func (Dispatcher) Rejected(err error) []Notification {
	return []Notification{{TargetRequester, ErrorEvent{Type: "error", Message: reasonText(err)}}}
}

// Left maps a leave transition to its notifications.
func (Dispatcher) Left(res core.LeaveResult) []Notification {
	sn := res.Snapshot
	switch res.Kind {
	case core.LeaveInstructor:
		return []Notification{
			{TargetRoom, BroadcastEnded{Type: "broadcast-ended", RoomID: sn.Room}},
			{TargetRoom, ParticipantsUpdated{Type: "participants-updated", Count: sn.Participants()}},
		}
	case core.LeaveStudent:
		return []Notification{
			{TargetRoom, ParticipantsUpdated{Type: "participants-updated", Count: sn.Participants()}},
		}
	default:
		return nil
	}
}

// Appended maps a chat append to its room-wide fan-out.
func (Dispatcher) Appended(msg domain.Message) []Notification {
	return []Notification{{TargetRoom, NewMessage{
		Type:     "new-message",
		Identity: msg.Identity,
		Text:     msg.Text,
		SentAt:   msg.SentAt,
	}}}
}

func reasonText(err error) string {
	switch {
	case errors.Is(err, core.ErrInstructorConflict):
		return msgInstructorConflict
	case errors.Is(err, ErrNotInSession):
		return msgNotInSession
	default:
		return msgInvalidParameters
	}
}

func startTimePtr(sn core.Snapshot) *time.Time {
	if sn.StartTime.IsZero() {
		return nil
	}
	t := sn.StartTime
	return &t
}
