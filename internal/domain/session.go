package domain

import (
	"encoding/json"
	"time"
)

// Session represents a conversation session owned by one user.
type Session struct {
	SessionID    string          `json:"session_id"`
	UserID       string          `json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// SessionSummary is a session annotated for listing.
type SessionSummary struct {
	Session
	MessageCount int    `json:"message_count"`
	Preview      string `json:"preview,omitempty"`
}

// Message represents a single message in a session. Messages are append-only.
type Message struct {
	MessageID string           `json:"message_id"`
	SessionID string           `json:"session_id"`
	UserID    string           `json:"user_id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Sources   []SourceCitation `json:"sources,omitempty"` // nil when absent
	CreatedAt time.Time        `json:"created_at"`
}
