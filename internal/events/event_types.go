package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventSessionRefreshed EventType = "session_refreshed"
	EventUserLoggedOut    EventType = "user_logged_out"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

// SessionRefreshedPayload payload.
type SessionRefreshedPayload struct {
	RotatedTokenID string `json:"rotated_token_id"`
}
