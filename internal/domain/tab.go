package domain

import "time"

// Tab groups a user's chat messages into one conversation.
type Tab struct {
	ID        string
	UserID    string
	Title     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
