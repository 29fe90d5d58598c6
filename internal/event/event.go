package event

import "time"

type Type string

const (
	TypeBroadcastPublished Type = "broadcast.published"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	// Audience limits delivery to subscribers allowed to see it. Empty means everyone.
	Audience string `json:"-"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
