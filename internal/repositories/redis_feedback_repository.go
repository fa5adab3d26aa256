package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// RedisFeedbackRepository persists customer feedback and analyses in Redis.
// Stored feedback is also pushed onto a pending queue consumed by the
// background analysis worker.
type RedisFeedbackRepository struct {
	client *redis.Client
}

// NewRedisFeedbackRepository creates a Redis-backed feedback repository
func NewRedisFeedbackRepository(client *redis.Client) FeedbackRepository {
	return &RedisFeedbackRepository{
		client: client,
	}
}

// Key patterns:
//   feedback:{id}          - JSON-encoded feedback
//   feedback:analysis:{id} - JSON-encoded analysis, keyed by feedback id
//   feedback:recent        - sorted set of feedback ids scored by timestamp
//   feedback:pending       - list queue of feedback ids awaiting analysis
//   user:{id}:feedback     - sorted set of a user's feedback ids

func feedbackKey(feedbackID string) string {
	return fmt.Sprintf("feedback:%s", feedbackID)
}

func feedbackAnalysisKey(feedbackID string) string {
	return fmt.Sprintf("feedback:analysis:%s", feedbackID)
}

func userFeedbackKey(userID string) string {
	return fmt.Sprintf("user:%s:feedback", userID)
}

const (
	feedbackRecentKey  = "feedback:recent"
	feedbackPendingKey = "feedback:pending"
)

// Store persists feedback, indexes it, and enqueues it for analysis
func (r *RedisFeedbackRepository) Store(ctx context.Context, feedback *models.CustomerFeedback) error {
	data, err := json.Marshal(feedback)
	if err != nil {
		return NewFeedbackRepositoryError("store", err, "failed to marshal feedback")
	}

	score := float64(feedback.Timestamp.UnixNano())

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, feedbackKey(feedback.ID), data, 0)
	pipe.ZAdd(ctx, feedbackRecentKey, redis.Z{Score: score, Member: feedback.ID})
	pipe.ZAdd(ctx, userFeedbackKey(feedback.UserID), redis.Z{Score: score, Member: feedback.ID})
	pipe.LPush(ctx, feedbackPendingKey, feedback.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewFeedbackRepositoryError("store", err, "failed to store feedback")
	}

	return nil
}

// Get returns feedback by id, (nil, nil) on a miss
func (r *RedisFeedbackRepository) Get(ctx context.Context, feedbackID string) (*models.CustomerFeedback, error) {
	raw, err := r.client.Get(ctx, feedbackKey(feedbackID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, NewFeedbackRepositoryError("get", err, "failed to read feedback")
	}

	var feedback models.CustomerFeedback
	if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
		return nil, NewFeedbackRepositoryError("get", err, "failed to unmarshal feedback")
	}

	return &feedback, nil
}

// List returns recent feedback, newest first
func (r *RedisFeedbackRepository) List(ctx context.Context, userID string, limit int) ([]*models.CustomerFeedback, error) {
	indexKey := feedbackRecentKey
	if userID != "" {
		indexKey = userFeedbackKey(userID)
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := r.client.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		return nil, NewFeedbackRepositoryError("list", err, "failed to read feedback index")
	}

	results := make([]*models.CustomerFeedback, 0, len(ids))
	for _, id := range ids {
		feedback, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if feedback != nil {
			results = append(results, feedback)
		}
	}

	return results, nil
}

// StoreAnalysis persists an analysis and marks the feedback completed
func (r *RedisFeedbackRepository) StoreAnalysis(ctx context.Context, analysis *models.FeedbackAnalysis) error {
	feedback, err := r.Get(ctx, analysis.FeedbackID)
	if err != nil {
		return err
	}
	if feedback == nil {
		return NewFeedbackRepositoryError("store_analysis",
			fmt.Errorf("feedback not found: %s", analysis.FeedbackID), "")
	}

	analysisData, err := json.Marshal(analysis)
	if err != nil {
		return NewFeedbackRepositoryError("store_analysis", err, "failed to marshal analysis")
	}

	feedback.Sentiment = analysis.Sentiment
	feedback.AnalysisStatus = models.AnalysisCompleted
	feedback.AnalysisError = ""
	feedbackData, err := json.Marshal(feedback)
	if err != nil {
		return NewFeedbackRepositoryError("store_analysis", err, "failed to marshal feedback")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, feedbackAnalysisKey(analysis.FeedbackID), analysisData, 0)
	pipe.Set(ctx, feedbackKey(analysis.FeedbackID), feedbackData, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewFeedbackRepositoryError("store_analysis", err, "failed to store analysis")
	}

	return nil
}

// GetAnalysis returns the analysis for a feedback id, (nil, nil) on a miss
func (r *RedisFeedbackRepository) GetAnalysis(ctx context.Context, feedbackID string) (*models.FeedbackAnalysis, error) {
	raw, err := r.client.Get(ctx, feedbackAnalysisKey(feedbackID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, NewFeedbackRepositoryError("get_analysis", err, "failed to read analysis")
	}

	var analysis models.FeedbackAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, NewFeedbackRepositoryError("get_analysis", err, "failed to unmarshal analysis")
	}

	return &analysis, nil
}

// MarkAnalysisFailed records a failed analysis attempt on the feedback
func (r *RedisFeedbackRepository) MarkAnalysisFailed(ctx context.Context, feedbackID string, reason string) error {
	feedback, err := r.Get(ctx, feedbackID)
	if err != nil {
		return err
	}
	if feedback == nil {
		return NewFeedbackRepositoryError("mark_failed",
			fmt.Errorf("feedback not found: %s", feedbackID), "")
	}

	feedback.AnalysisStatus = models.AnalysisFailed
	feedback.AnalysisError = reason

	data, err := json.Marshal(feedback)
	if err != nil {
		return NewFeedbackRepositoryError("mark_failed", err, "failed to marshal feedback")
	}

	if err := r.client.Set(ctx, feedbackKey(feedbackID), data, 0).Err(); err != nil {
		return NewFeedbackRepositoryError("mark_failed", err, "failed to update feedback")
	}

	return nil
}

// NextPending pops the next feedback id off the analysis queue, (nil, nil)
// when the queue is empty.
func (r *RedisFeedbackRepository) NextPending(ctx context.Context) (*models.CustomerFeedback, error) {
	id, err := r.client.RPop(ctx, feedbackPendingKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, NewFeedbackRepositoryError("next_pending", err, "failed to pop pending queue")
	}

	return r.Get(ctx, id)
}

// Ping checks Redis connectivity
func (r *RedisFeedbackRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewFeedbackRepositoryError("ping", err, "Redis connection failed")
	}
	return nil
}
