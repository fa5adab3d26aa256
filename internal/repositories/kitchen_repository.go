package repositories

import (
	"context"
	"fmt"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// KitchenRequestFilter narrows List results
type KitchenRequestFilter struct {
	Status      string
	MinPriority int
}

// KitchenRepository stores operational requests routed to the kitchen team
type KitchenRepository interface {
	// Create persists a new kitchen request
	Create(ctx context.Context, request *models.KitchenRequest) error

	// Get returns a request by id. A miss is (nil, nil).
	Get(ctx context.Context, requestID string) (*models.KitchenRequest, error)

	// List returns requests matching the filter, newest first
	List(ctx context.Context, filter KitchenRequestFilter) ([]*models.KitchenRequest, error)

	// UpdateStatus transitions a request to a new status, optionally
	// appending a note
	UpdateStatus(ctx context.Context, requestID string, status string, note string) error

	// Delete removes a request
	Delete(ctx context.Context, requestID string) error

	// Ping checks backend connectivity
	Ping(ctx context.Context) error
}

// KitchenRepositoryError wraps storage failures with operation context
type KitchenRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *KitchenRepositoryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("kitchen repository %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("kitchen repository %s: %v", e.Operation, e.Err)
}

func (e *KitchenRepositoryError) Unwrap() error {
	return e.Err
}

// NewKitchenRepositoryError creates a repository error with context
func NewKitchenRepositoryError(operation string, err error, message string) *KitchenRepositoryError {
	return &KitchenRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// KitchenRequestNotFoundError creates a not-found error for a request
func KitchenRequestNotFoundError(requestID string) *KitchenRepositoryError {
	return &KitchenRepositoryError{
		Operation: "lookup",
		Err:       fmt.Errorf("kitchen request not found: %s", requestID),
		Message:   "request does not exist",
	}
}
