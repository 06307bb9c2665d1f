package types

import "time"

type Event struct {
	Type    string         `json:"type"`
	Ts      time.Time      `json:"timestamp"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Session statuses.
const (
	StatusCreated = "created"
	StatusActive  = "active"
	StatusEnded   = "ended"
)

type Session struct {
	ID        string    `json:"session_id"`
	Learner   string    `json:"learner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`

	ClientConnected bool       `json:"client_connected"`
	ActiveActivity  string     `json:"active_activity,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}
