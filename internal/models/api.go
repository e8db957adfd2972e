package models

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// API Error response
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// WebSocket message types
const (
	EventMessageCreated = "message_created"
	EventSessionCleared = "session_cleared"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type SessionClearedEvent struct {
	SessionID string `json:"sessionId"`
}
