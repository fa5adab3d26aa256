package workers

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/services"
)

// ============================================================================
// Mocks
// ============================================================================

type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCompletionClient) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionClient) CompleteStream(ctx context.Context, req services.CompletionRequest) (<-chan string, error) {
	args := m.Called(ctx, req)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompletionClient) CompleteStructured(ctx context.Context, req services.StructuredRequest) (map[string]interface{}, error) {
	args := m.Called(ctx, req)
	if result := args.Get(0); result != nil {
		return result.(map[string]interface{}), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompletionClient) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if emb := args.Get(0); emb != nil {
		return emb.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Store(ctx context.Context, feedback *models.CustomerFeedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Get(ctx context.Context, feedbackID string) (*models.CustomerFeedback, error) {
	args := m.Called(ctx, feedbackID)
	if feedback := args.Get(0); feedback != nil {
		return feedback.(*models.CustomerFeedback), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackRepository) List(ctx context.Context, userID string, limit int) ([]*models.CustomerFeedback, error) {
	args := m.Called(ctx, userID, limit)
	if feedbacks := args.Get(0); feedbacks != nil {
		return feedbacks.([]*models.CustomerFeedback), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackRepository) StoreAnalysis(ctx context.Context, analysis *models.FeedbackAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetAnalysis(ctx context.Context, feedbackID string) (*models.FeedbackAnalysis, error) {
	args := m.Called(ctx, feedbackID)
	if analysis := args.Get(0); analysis != nil {
		return analysis.(*models.FeedbackAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackRepository) MarkAnalysisFailed(ctx context.Context, feedbackID string, reason string) error {
	args := m.Called(ctx, feedbackID, reason)
	return args.Error(0)
}

func (m *MockFeedbackRepository) NextPending(ctx context.Context) (*models.CustomerFeedback, error) {
	args := m.Called(ctx)
	if feedback := args.Get(0); feedback != nil {
		return feedback.(*models.CustomerFeedback), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ============================================================================
// Test setup
// ============================================================================

func setupTestWorker(t *testing.T) (*FeedbackAnalysisWorker, *MockCompletionClient, *MockFeedbackRepository) {
	mockLLM := new(MockCompletionClient)
	mockRepo := new(MockFeedbackRepository)

	config := DefaultWorkerConfig("feedback-analyzer-test")
	config.PollInterval = 10 * time.Millisecond
	config.ShutdownTimeout = time.Second

	worker := NewFeedbackAnalysisWorker(FeedbackAnalysisWorkerConfig{
		WorkerConfig: config,
		LLM:          mockLLM,
		FeedbackRepo: mockRepo,
		Logger:       log.New(os.Stdout, "[TEST] ", log.LstdFlags),
	})

	return worker, mockLLM, mockRepo
}

func pendingFeedback(id string) *models.CustomerFeedback {
	return &models.CustomerFeedback{
		ID:             id,
		UserID:         "user1",
		Rating:         2,
		Comment:        "The meal arrived cold",
		AnalysisStatus: models.AnalysisPending,
		Timestamp:      time.Now().UTC(),
	}
}

// ============================================================================
// Queue processing
// ============================================================================

func TestWorkerStoresAnalysisForPendingFeedback(t *testing.T) {
	worker, mockLLM, mockRepo := setupTestWorker(t)
	ctx := context.Background()

	mockRepo.On("NextPending", mock.Anything).Return(pendingFeedback("fb1"), nil).Once()
	mockRepo.On("NextPending", mock.Anything).Return(nil, nil)
	mockLLM.On("CompleteStructured", mock.Anything, mock.Anything).Return(map[string]interface{}{
		"sentiment":       "negative",
		"sentiment_score": 0.15,
		"key_themes":      []interface{}{"temperature"},
	}, nil)
	mockRepo.On("StoreAnalysis", mock.Anything, mock.MatchedBy(func(analysis *models.FeedbackAnalysis) bool {
		return analysis.FeedbackID == "fb1" && analysis.Sentiment == models.SentimentNegative
	})).Return(nil)

	worker.drainQueue(ctx)

	mockRepo.AssertExpectations(t)
	stats := worker.Stats()
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsSucceeded)
	assert.Equal(t, int64(0), stats.JobsFailed)
}

func TestWorkerMarksFeedbackFailedOnLLMError(t *testing.T) {
	worker, mockLLM, mockRepo := setupTestWorker(t)
	ctx := context.Background()

	mockRepo.On("NextPending", mock.Anything).Return(pendingFeedback("fb2"), nil).Once()
	mockRepo.On("NextPending", mock.Anything).Return(nil, nil)
	mockLLM.On("CompleteStructured", mock.Anything, mock.Anything).
		Return(nil, errors.New("model unavailable"))
	mockRepo.On("MarkAnalysisFailed", mock.Anything, "fb2", mock.Anything).Return(nil)

	worker.drainQueue(ctx)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "StoreAnalysis", mock.Anything, mock.Anything)
	stats := worker.Stats()
	assert.Equal(t, int64(1), stats.JobsFailed)
}

func TestWorkerMarksFeedbackFailedOnStoreError(t *testing.T) {
	worker, mockLLM, mockRepo := setupTestWorker(t)
	ctx := context.Background()

	mockRepo.On("NextPending", mock.Anything).Return(pendingFeedback("fb3"), nil).Once()
	mockRepo.On("NextPending", mock.Anything).Return(nil, nil)
	mockLLM.On("CompleteStructured", mock.Anything, mock.Anything).Return(map[string]interface{}{
		"sentiment": "positive",
	}, nil)
	mockRepo.On("StoreAnalysis", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	mockRepo.On("MarkAnalysisFailed", mock.Anything, "fb3", mock.Anything).Return(nil)

	worker.drainQueue(ctx)

	mockRepo.AssertExpectations(t)
	stats := worker.Stats()
	assert.Equal(t, int64(1), stats.JobsFailed)
}

func TestWorkerDrainsWholeQueue(t *testing.T) {
	worker, mockLLM, mockRepo := setupTestWorker(t)
	ctx := context.Background()

	mockRepo.On("NextPending", mock.Anything).Return(pendingFeedback("fb1"), nil).Once()
	mockRepo.On("NextPending", mock.Anything).Return(pendingFeedback("fb2"), nil).Once()
	mockRepo.On("NextPending", mock.Anything).Return(nil, nil)
	mockLLM.On("CompleteStructured", mock.Anything, mock.Anything).Return(map[string]interface{}{
		"sentiment": "neutral",
	}, nil)
	mockRepo.On("StoreAnalysis", mock.Anything, mock.Anything).Return(nil)

	worker.drainQueue(ctx)

	stats := worker.Stats()
	assert.Equal(t, int64(2), stats.JobsProcessed)
	assert.Equal(t, int64(2), stats.JobsSucceeded)
}

// ============================================================================
// Lifecycle
// ============================================================================

func TestWorkerStartStop(t *testing.T) {
	worker, _, mockRepo := setupTestWorker(t)
	ctx := context.Background()

	mockRepo.On("NextPending", mock.Anything).Return(nil, nil)

	err := worker.Start(ctx)
	assert.NoError(t, err)
	assert.True(t, worker.IsRunning())

	// Starting twice is an error
	err = worker.Start(ctx)
	assert.Error(t, err)

	// Give the poll loop at least one tick
	time.Sleep(30 * time.Millisecond)

	err = worker.Stop(ctx)
	assert.NoError(t, err)
	assert.False(t, worker.IsRunning())

	// Stopping a stopped worker is a no-op
	assert.NoError(t, worker.Stop(ctx))
}

func TestWorkerPoolLifecycle(t *testing.T) {
	worker, _, mockRepo := setupTestWorker(t)
	mockRepo.On("NextPending", mock.Anything).Return(nil, nil)

	pool := NewWorkerPool()
	pool.AddWorker(worker)
	assert.Equal(t, 1, pool.Count())

	ctx := context.Background()
	assert.NoError(t, pool.StartAll(ctx))
	assert.True(t, worker.IsRunning())

	stats := pool.AllStats()
	assert.Len(t, stats, 1)
	assert.Equal(t, "feedback-analyzer-test", stats[0].WorkerName)

	assert.NoError(t, pool.StopAll(ctx))
	assert.False(t, worker.IsRunning())
}
