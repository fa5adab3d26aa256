package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// ============================================================================
// Conversation history
// ============================================================================

func TestMemoryConversationAppendAndHistoryOrder(t *testing.T) {
	repo := NewMemoryConversationRepository()
	ctx := context.Background()

	messages := []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello", Timestamp: time.Now().UTC()},
		{Role: models.RoleAssistant, Content: "hi there", Timestamp: time.Now().UTC()},
		{Role: models.RoleUser, Content: "recommend lunch", Timestamp: time.Now().UTC()},
	}
	for _, msg := range messages {
		assert.NoError(t, repo.Append(ctx, "conv1", msg))
	}

	history, err := repo.History(ctx, "conv1")

	assert.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "hi there", history[1].Content)
	assert.Equal(t, "recommend lunch", history[2].Content)
}

func TestMemoryConversationHistoryUnknownIsEmpty(t *testing.T) {
	repo := NewMemoryConversationRepository()

	history, err := repo.History(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryConversationHistoryIsACopy(t *testing.T) {
	repo := NewMemoryConversationRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Append(ctx, "conv1", models.ChatMessage{Role: models.RoleUser, Content: "original"}))

	history, err := repo.History(ctx, "conv1")
	assert.NoError(t, err)
	history[0].Content = "mutated"

	fresh, err := repo.History(ctx, "conv1")
	assert.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Content)
}

func TestMemoryConversationExists(t *testing.T) {
	repo := NewMemoryConversationRepository()
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "conv1")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, repo.Append(ctx, "conv1", models.ChatMessage{Role: models.RoleUser, Content: "hi"}))

	exists, err = repo.Exists(ctx, "conv1")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryConversationDelete(t *testing.T) {
	repo := NewMemoryConversationRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Append(ctx, "conv1", models.ChatMessage{Role: models.RoleUser, Content: "hi"}))
	assert.NoError(t, repo.Delete(ctx, "conv1"))

	exists, err := repo.Exists(ctx, "conv1")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryConversationDeleteMissing(t *testing.T) {
	repo := NewMemoryConversationRepository()

	err := repo.Delete(context.Background(), "missing")

	assert.Error(t, err)
	var repoErr *ConversationRepositoryError
	assert.True(t, errors.As(err, &repoErr))
	assert.Equal(t, "lookup", repoErr.Operation)
}
