package repositories

import (
	"context"
	"fmt"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// PreferenceRepository stores learned per-user dietary preferences
type PreferenceRepository interface {
	// Get returns the user's preferences. An unknown user yields the
	// zero-value preferences, not an error.
	Get(ctx context.Context, userID string) (models.UserPreferences, error)

	// Merge folds updates into existing preferences: list fields union,
	// scalar fields overwrite when the update carries a nonzero value
	Merge(ctx context.Context, userID string, updates models.UserPreferences) error

	// Ping checks backend connectivity
	Ping(ctx context.Context) error
}

// PreferenceRepositoryError wraps storage failures with operation context
type PreferenceRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *PreferenceRepositoryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("preference repository %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("preference repository %s: %v", e.Operation, e.Err)
}

func (e *PreferenceRepositoryError) Unwrap() error {
	return e.Err
}

// NewPreferenceRepositoryError creates a repository error with context
func NewPreferenceRepositoryError(operation string, err error, message string) *PreferenceRepositoryError {
	return &PreferenceRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}
