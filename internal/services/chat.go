package services

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"sterna-backend/internal/metrics"
	"sterna-backend/internal/models"
)

const maxContentChars = 5000

type MessageStore interface {
	Append(ctx context.Context, sessionID, role, content string) (*models.Message, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatService runs the store -> prompt -> completion -> store round-trip.
// Operations are independent; nothing spans them transactionally.
type ChatService struct {
	store     MessageStore
	completer Completer
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewChatService(store MessageStore, completer Completer, publisher EventPublisher, m *metrics.Metrics, logger *slog.Logger) *ChatService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ChatService{
		store:     store,
		completer: completer,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// ValidateSendRequest checks content length in characters (not bytes) and
// that a session id is present.
func ValidateSendRequest(req models.SendMessageRequest) error {
	verr := &ValidationError{}

	n := utf8.RuneCountInString(req.Content)
	switch {
	case n == 0:
		verr.add("content", "Content must contain at least 1 character")
	case n > maxContentChars:
		verr.add("content", "Content must contain at most 5000 characters")
	}
	if req.SessionID == "" {
		verr.add("sessionId", "Session ID is required")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *ChatService) List(ctx context.Context, sessionID string) ([]*models.Message, error) {
	return s.store.ListBySession(ctx, sessionID)
}

// Send persists the user turn, asks the model for a reply over the full
// history and persists that reply. If a later step fails the user turn stays
// stored.
func (s *ChatService) Send(ctx context.Context, req models.SendMessageRequest) (*models.SendMessageResponse, error) {
	if err := ValidateSendRequest(req); err != nil {
		return nil, err
	}

	userMsg, err := s.append(ctx, req.SessionID, models.RoleUser, req.Content)
	if err != nil {
		return nil, err
	}

	history, err := s.store.ListBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, BuildChatPrompt(toChatHistory(history)))
	if err != nil {
		return nil, err
	}

	assistantMsg, err := s.append(ctx, req.SessionID, models.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	return &models.SendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return err
	}
	s.publish(ctx, sessionID, models.WSMessage{
		Type:    models.EventSessionCleared,
		Payload: models.SessionClearedEvent{SessionID: sessionID},
	})
	return nil
}

func (s *ChatService) append(ctx context.Context, sessionID, role, content string) (*models.Message, error) {
	msg, err := s.store.Append(ctx, sessionID, role, content)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.MessagesStored.WithLabelValues(role).Inc()
	}
	s.publish(ctx, sessionID, models.WSMessage{Type: models.EventMessageCreated, Payload: msg})
	return msg, nil
}

// publish is best-effort: a failed fan-out never fails the request.
func (s *ChatService) publish(ctx context.Context, sessionID string, msg models.WSMessage) {
	if err := s.publisher.Publish(ctx, sessionID, msg); err != nil {
		s.logger.Warn("failed to publish session event",
			"session_id", sessionID,
			"type", msg.Type,
			"error", err,
		)
	}
}
