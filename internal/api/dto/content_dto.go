package dto

import "time"

// GenerateRequest payload for one-off description generation.
type GenerateRequest struct {
	ProductName    string `json:"product_name"`
	ProductFeature string `json:"product_feature"`
	Tone           string `json:"tone"`
	CharCount      int    `json:"char_count"`
}

// GenerateResponse carries the generated text.
type GenerateResponse struct {
	Content string `json:"content"`
}

// ChatRequest payload for a chat exchange. TabID empty starts a new tab.
type ChatRequest struct {
	TabID     string `json:"tab_id,omitempty"`
	Title     string `json:"title"`
	Feature   string `json:"feature"`
	Tone      string `json:"tone"`
	CharCount int    `json:"char_count"`
}

// TabResponse describes one conversation tab.
type TabResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse describes one stored exchange.
type MessageResponse struct {
	ID        string    `json:"id"`
	TabID     string    `json:"tab_id"`
	Title     string    `json:"title"`
	Feature   string    `json:"feature"`
	Tone      string    `json:"tone"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResponse bundles the tab with the new exchange.
type ChatResponse struct {
	Tab     TabResponse     `json:"tab"`
	Message MessageResponse `json:"message"`
}
