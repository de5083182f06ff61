package model

import (
	"encoding/json"
	"time"
)

// Event is a journaled event record, mirroring what is published to NATS.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	SessionID string          `json:"session_id"`
	Address   string          `json:"address,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// EventFilter narrows a journal event listing. Zero values mean no filter;
// Limit 0 returns everything.
type EventFilter struct {
	Topic     string
	SessionID string
	Address   string
	Limit     int
}
