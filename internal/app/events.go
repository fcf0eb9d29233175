package app

import (
	"time"

	"github.com/classwave/live/internal/domain"
)

// Outbound event payloads. Each carries its own "type" discriminator so
// adapters can marshal them straight onto the wire.

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type BroadcastStarted struct {
	Type               string          `json:"type"`
	InstructorIdentity domain.Identity `json:"instructorIdentity"`
	StartTime          *time.Time      `json:"startTime"`
}

type BroadcastEnded struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type StudentJoined struct {
	Type          string          `json:"type"`
	RoomID        domain.RoomID   `json:"roomId"`
	Identity      domain.Identity `json:"identity"`
	TotalStudents int             `json:"totalStudents"`
}

type SessionInfo struct {
	Type             string           `json:"type"`
	IsLive           bool             `json:"isLive"`
	StartTime        *time.Time       `json:"startTime"`
	Messages         []domain.Message `json:"messages"`
	TotalStudents    int              `json:"totalStudents"`
	InstructorActive bool             `json:"instructorActive"`
}

type ParticipantsUpdated struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type NewMessage struct {
	Type     string          `json:"type"`
	Identity domain.Identity `json:"identity"`
	Text     string          `json:"text"`
	SentAt   time.Time       `json:"sentAt"`
}
