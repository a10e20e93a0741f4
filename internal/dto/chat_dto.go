package dto

import "time"

type ChatRequest struct {
	Message   string `json:"message" validate:"required,min=1,max=1000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

type ChatResponse struct {
	Message    string          `json:"message"`
	Intent     string          `json:"intent"`
	SessionID  string          `json:"session_id"`
	Products   []ProductCard   `json:"products,omitempty"`
	Comparison *ComparisonData `json:"comparison,omitempty"`
	Sources    []string        `json:"sources"`
	IsRefusal  bool            `json:"is_refusal"`
}

type ComparisonData struct {
	Phones []ProductCard `json:"phones"`
	// Highlights maps a category (best_price, best_camera, ...) to the winning id.
	Highlights map[string]string `json:"highlights"`
}

type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Intent    string    `json:"intent,omitempty"`
}

type ChatHistoryResponse struct {
	SessionID           string                `json:"session_id"`
	Messages            []ChatMessageResponse `json:"messages"`
	LastMentionedPhones []string              `json:"last_mentioned_phones"`
}

// WsChatEvent is what the chat socket pushes to clients.
type WsChatEvent struct {
	Type string      `json:"type"` // "chat_response" or "error"
	Data interface{} `json:"data"`
}
