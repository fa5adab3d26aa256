package repositories

import (
	"context"
	"fmt"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// ConversationRepository stores per-conversation message history
type ConversationRepository interface {
	// Append adds a message to the end of a conversation, creating the
	// conversation if it does not exist yet
	Append(ctx context.Context, conversationID string, message models.ChatMessage) error

	// History returns all messages of a conversation in append order.
	// An unknown conversation yields an empty slice, not an error.
	History(ctx context.Context, conversationID string) ([]models.ChatMessage, error)

	// Exists checks whether a conversation has any messages
	Exists(ctx context.Context, conversationID string) (bool, error)

	// Delete removes a conversation and its messages
	Delete(ctx context.Context, conversationID string) error

	// Ping checks backend connectivity
	Ping(ctx context.Context) error
}

// ConversationRepositoryError wraps storage failures with operation context
type ConversationRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *ConversationRepositoryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("conversation repository %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("conversation repository %s: %v", e.Operation, e.Err)
}

func (e *ConversationRepositoryError) Unwrap() error {
	return e.Err
}

// NewConversationRepositoryError creates a repository error with context
func NewConversationRepositoryError(operation string, err error, message string) *ConversationRepositoryError {
	return &ConversationRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// ConversationNotFoundError creates a not-found error for a conversation
func ConversationNotFoundError(conversationID string) *ConversationRepositoryError {
	return &ConversationRepositoryError{
		Operation: "lookup",
		Err:       fmt.Errorf("conversation not found: %s", conversationID),
		Message:   "conversation does not exist",
	}
}
