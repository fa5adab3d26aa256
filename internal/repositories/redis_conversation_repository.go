package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// RedisConversationRepository persists conversation history in Redis lists
type RedisConversationRepository struct {
	client *redis.Client
}

// NewRedisConversationRepository creates a Redis-backed conversation repository
func NewRedisConversationRepository(client *redis.Client) ConversationRepository {
	return &RedisConversationRepository{
		client: client,
	}
}

// Key patterns:
//   conversation:{id}:messages - list of JSON-encoded messages
//   conversations:index        - set of all conversation ids

func conversationMessagesKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:messages", conversationID)
}

const conversationIndexKey = "conversations:index"

// Append pushes a message onto the conversation's list and registers the
// conversation in the index, atomically.
func (r *RedisConversationRepository) Append(ctx context.Context, conversationID string, message models.ChatMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return NewConversationRepositoryError("append", err, "failed to marshal message")
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, conversationMessagesKey(conversationID), data)
	pipe.SAdd(ctx, conversationIndexKey, conversationID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewConversationRepositoryError("append", err, "failed to store message")
	}

	return nil
}

// History returns all messages of a conversation in append order
func (r *RedisConversationRepository) History(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	raw, err := r.client.LRange(ctx, conversationMessagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, NewConversationRepositoryError("history", err, "failed to read messages")
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// Skip corrupted entries rather than failing the whole read
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// Exists checks whether a conversation has any messages
func (r *RedisConversationRepository) Exists(ctx context.Context, conversationID string) (bool, error) {
	count, err := r.client.Exists(ctx, conversationMessagesKey(conversationID)).Result()
	if err != nil {
		return false, NewConversationRepositoryError("exists", err, "")
	}
	return count > 0, nil
}

// Delete removes a conversation's messages and its index entry
func (r *RedisConversationRepository) Delete(ctx context.Context, conversationID string) error {
	exists, err := r.Exists(ctx, conversationID)
	if err != nil {
		return err
	}
	if !exists {
		return ConversationNotFoundError(conversationID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, conversationMessagesKey(conversationID))
	pipe.SRem(ctx, conversationIndexKey, conversationID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewConversationRepositoryError("delete", err, "failed to delete conversation")
	}

	return nil
}

// Ping checks Redis connectivity
func (r *RedisConversationRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewConversationRepositoryError("ping", err, "Redis connection failed")
	}
	return nil
}
