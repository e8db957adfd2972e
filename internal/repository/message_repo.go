package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sterna-backend/internal/models"
)

// MessageRepo stores turns in Postgres. Insertion order is the BIGSERIAL seq
// column, not created_at, so two turns written within the same clock tick
// still list in the order they were appended.
type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Append(ctx context.Context, sessionID, role, content string) (*models.Message, error) {
	m := &models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}

	query := `INSERT INTO messages (id, session_id, role, content)
		VALUES ($1, $2, $3, $4) RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, m.ID, m.SessionID, m.Role, m.Content).Scan(&m.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return m, nil
}

func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.Message, error) {
	query := `SELECT id, session_id, role, content, created_at
		FROM messages WHERE session_id = $1
		ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.CreatedAt = m.CreatedAt.In(time.UTC)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepo) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM messages WHERE session_id = $1", sessionID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}
