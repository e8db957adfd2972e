package services

import (
	"strings"

	"sterna-backend/internal/models"
)

const (
	assistantName = "Sterna"

	personaPreamble = "You are Sterna, an intelligent AI assistant created by Lumen. " +
		"You are helpful, knowledgeable, and friendly. Provide clear, accurate, and engaging responses."

	humanLabel     = "Human:"
	assistantLabel = assistantName + ":"
)

// BuildChatPrompt renders the persona preamble and the whole transcript into
// a single completion prompt, ending with an open assistant label. Every turn
// is emitted exactly once in the order given; nothing is trimmed, so prompt
// size grows with the conversation.
func BuildChatPrompt(history []models.ChatMessage) string {
	var b strings.Builder
	b.WriteString(personaPreamble)
	b.WriteString("\n\n")

	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString(humanLabel + " ")
		case models.RoleAssistant:
			b.WriteString(assistantLabel + " ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(assistantLabel)
	return b.String()
}

// toChatHistory strips stored messages down to the role/content pairs the
// prompt needs.
func toChatHistory(messages []*models.Message) []models.ChatMessage {
	history := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, models.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return history
}
