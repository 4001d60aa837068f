package domain

import "time"

// Message records one generation exchange inside a tab.
type Message struct {
	ID        string
	TabID     string
	UserID    string
	Title     string
	Feature   string
	Tone      string
	Response  string
	Active    bool
	CreatedAt time.Time
}
