package domain

import "time"

// Message is one chat/annotation entry. The coordinator treats the text
// as opaque; it only appends and replays.
type Message struct {
	Identity Identity  `json:"identity"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sentAt"`
}
