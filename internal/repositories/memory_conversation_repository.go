package repositories

import (
	"context"
	"sync"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// MemoryConversationRepository keeps conversation history in process memory.
// Used as a fallback when Redis is unavailable; history is lost on restart.
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string][]models.ChatMessage
}

// NewMemoryConversationRepository creates an in-memory conversation repository
func NewMemoryConversationRepository() ConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string][]models.ChatMessage),
	}
}

func (r *MemoryConversationRepository) Append(ctx context.Context, conversationID string, message models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conversations[conversationID] = append(r.conversations[conversationID], message)
	return nil
}

func (r *MemoryConversationRepository) History(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.conversations[conversationID]
	messages := make([]models.ChatMessage, len(stored))
	copy(messages, stored)
	return messages, nil
}

func (r *MemoryConversationRepository) Exists(ctx context.Context, conversationID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.conversations[conversationID]
	return ok, nil
}

func (r *MemoryConversationRepository) Delete(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[conversationID]; !ok {
		return ConversationNotFoundError(conversationID)
	}
	delete(r.conversations, conversationID)
	return nil
}

func (r *MemoryConversationRepository) Ping(ctx context.Context) error {
	return nil
}
