package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sterna-backend/internal/models"
)

// EventPublisher fans session changes out to live listeners.
type EventPublisher interface {
	Publish(ctx context.Context, sessionID string, msg models.WSMessage) error
}

// SessionChannel is the Redis pub/sub channel carrying a session's events.
func SessionChannel(sessionID string) string {
	return fmt.Sprintf("session_updates:%s", sessionID)
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, sessionID string, msg models.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.client.Publish(ctx, SessionChannel(sessionID), data).Err()
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, models.WSMessage) error { return nil }
