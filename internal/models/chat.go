package models

import "time"

// Message roles within a conversation
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage represents a single message in a conversation
type ChatMessage struct {
	Role      string    `json:"role"`    // "user", "assistant", or "system"
	Content   string    `json:"content"` // The message content
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest represents the incoming chat request from the frontend
type ChatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse represents the response sent back to the frontend
type ChatResponse struct {
	Message               string   `json:"message"`
	ConversationID        string   `json:"conversation_id"`
	AgentUsed             string   `json:"agent_used"`
	Recommendations       []string `json:"recommendations"`
	RequiresKitchenAction bool     `json:"requires_kitchen_action"`
	Confidence            float64  `json:"confidence"`
	Status                string   `json:"status"` // "success" or "error"
}

// ConversationHistoryResponse is returned by the history endpoint
type ConversationHistoryResponse struct {
	ConversationID string        `json:"conversation_id"`
	MessageCount   int           `json:"message_count"`
	Messages       []ChatMessage `json:"messages"`
}

// ErrorResponse is the generic error body for the API surface
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}
