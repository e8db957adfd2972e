package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"sterna-backend/internal/models"
)

// MemoryMessageRepo is a process-local store for development and tests.
// Messages are lost on restart.
type MemoryMessageRepo struct {
	mu       sync.RWMutex
	sessions map[string][]*models.Message
	now      func() time.Time
}

func NewMemoryMessageRepo() *MemoryMessageRepo {
	return &MemoryMessageRepo{
		sessions: make(map[string][]*models.Message),
		now:      time.Now,
	}
}

func (r *MemoryMessageRepo) Append(ctx context.Context, sessionID, role, content string) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: r.now().UTC(),
	}

	r.mu.Lock()
	r.sessions[sessionID] = append(r.sessions[sessionID], m)
	r.mu.Unlock()

	copied := *m
	return &copied, nil
}

func (r *MemoryMessageRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.sessions[sessionID]
	messages := make([]*models.Message, 0, len(stored))
	for _, m := range stored {
		copied := *m
		messages = append(messages, &copied)
	}
	return messages, nil
}

func (r *MemoryMessageRepo) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}
