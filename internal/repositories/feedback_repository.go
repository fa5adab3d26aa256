package repositories

import (
	"context"
	"fmt"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// FeedbackRepository stores customer feedback and its analysis results
type FeedbackRepository interface {
	// Store persists feedback and enqueues it for background analysis
	Store(ctx context.Context, feedback *models.CustomerFeedback) error

	// Get returns feedback by id. A miss is (nil, nil).
	Get(ctx context.Context, feedbackID string) (*models.CustomerFeedback, error)

	// List returns recent feedback, newest first. An empty userID lists
	// feedback across all users. limit <= 0 means no limit.
	List(ctx context.Context, userID string, limit int) ([]*models.CustomerFeedback, error)

	// StoreAnalysis persists an analysis and marks the feedback completed
	StoreAnalysis(ctx context.Context, analysis *models.FeedbackAnalysis) error

	// GetAnalysis returns the analysis for a feedback id. A miss is (nil, nil).
	GetAnalysis(ctx context.Context, feedbackID string) (*models.FeedbackAnalysis, error)

	// MarkAnalysisFailed records a failed analysis attempt
	MarkAnalysisFailed(ctx context.Context, feedbackID string, reason string) error

	// NextPending pops the next feedback awaiting analysis. An empty
	// queue is (nil, nil).
	NextPending(ctx context.Context) (*models.CustomerFeedback, error)

	// Ping checks backend connectivity
	Ping(ctx context.Context) error
}

// FeedbackRepositoryError wraps storage failures with operation context
type FeedbackRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *FeedbackRepositoryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("feedback repository %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("feedback repository %s: %v", e.Operation, e.Err)
}

func (e *FeedbackRepositoryError) Unwrap() error {
	return e.Err
}

// NewFeedbackRepositoryError creates a repository error with context
func NewFeedbackRepositoryError(operation string, err error, message string) *FeedbackRepositoryError {
	return &FeedbackRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}
