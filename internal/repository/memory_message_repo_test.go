package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sterna-backend/internal/models"
)

func TestMemoryMessageRepo_ListPreservesAppendOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessageRepo()

	var want []string
	for i := 0; i < 10; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		content := fmt.Sprintf("turn %d", i)
		want = append(want, content)

		m, err := repo.Append(ctx, "s1", role, content)
		require.NoError(t, err)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, "s1", m.SessionID)
		assert.False(t, m.CreatedAt.IsZero())
	}

	got, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i, m := range got {
		assert.Equal(t, want[i], m.Content)
	}
}

func TestMemoryMessageRepo_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessageRepo()

	_, err := repo.Append(ctx, "a", models.RoleUser, "for a")
	require.NoError(t, err)
	_, err = repo.Append(ctx, "b", models.RoleUser, "for b")
	require.NoError(t, err)

	got, err := repo.ListBySession(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "for a", got[0].Content)
}

func TestMemoryMessageRepo_UnknownSessionIsEmpty(t *testing.T) {
	got, err := NewMemoryMessageRepo().ListBySession(context.Background(), "never-used")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryMessageRepo_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessageRepo()

	_, err := repo.Append(ctx, "s1", models.RoleUser, "Hello")
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx, "s1"))
	require.NoError(t, repo.Clear(ctx, "s1"))
	require.NoError(t, repo.Clear(ctx, "never-used"))

	got, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryMessageRepo_ReturnedMessagesAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMessageRepo()

	m, err := repo.Append(ctx, "s1", models.RoleUser, "original")
	require.NoError(t, err)
	m.Content = "mutated"

	got, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	got[0].Content = "mutated again"

	again, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryMessageRepo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemoryMessageRepo()
	_, err := repo.Append(ctx, "s1", models.RoleUser, "Hello")
	assert.ErrorIs(t, err, context.Canceled)

	got, err := repo.ListBySession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionMessagesKey(t *testing.T) {
	assert.Equal(t, "chat:session:s1:messages", sessionMessagesKey("s1"))
}
