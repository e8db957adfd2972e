package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a stored turn can carry. The HTTP surface only ever creates
// user and assistant turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one persisted turn of a conversation.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// SendMessageRequest is the payload sent to POST /messages.
type SendMessageRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"sessionId"`
}

// SendMessageResponse carries both turns created by one round-trip.
type SendMessageResponse struct {
	UserMessage      *Message `json:"userMessage"`
	AssistantMessage *Message `json:"assistantMessage"`
}
