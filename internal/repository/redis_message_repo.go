package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sterna-backend/internal/models"
)

// RedisMessageRepo keeps each session as a Redis list of JSON-encoded turns.
// RPUSH preserves append order and LRANGE returns it unchanged.
type RedisMessageRepo struct {
	client *redis.Client
}

func NewRedisMessageRepo(client *redis.Client) *RedisMessageRepo {
	return &RedisMessageRepo{client: client}
}

func sessionMessagesKey(sessionID string) string {
	return fmt.Sprintf("chat:session:%s:messages", sessionID)
}

func (r *RedisMessageRepo) Append(ctx context.Context, sessionID, role, content string) (*models.Message, error) {
	m := &models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	if err := r.client.RPush(ctx, sessionMessagesKey(sessionID), data).Err(); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	return m, nil
}

func (r *RedisMessageRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.Message, error) {
	items, err := r.client.LRange(ctx, sessionMessagesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	messages := make([]*models.Message, 0, len(items))
	for _, item := range items {
		m := &models.Message{}
		if err := json.Unmarshal([]byte(item), m); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Clear deletes the session list. DEL on a missing key is a no-op.
func (r *RedisMessageRepo) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionMessagesKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
