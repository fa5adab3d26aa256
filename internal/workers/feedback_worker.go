package workers

import (
	"context"
	"log"
	"time"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
	"github.com/Ali-Dakheel/calo-ai-app/internal/services"
)

// FeedbackAnalysisWorker drains the pending-feedback queue, runs each
// entry through the LLM, and stores the typed analysis. Failures mark
// the feedback so it is never silently lost.
type FeedbackAnalysisWorker struct {
	*BaseWorker
	llm      services.CompletionClient
	feedback repositories.FeedbackRepository
	logger   *log.Logger
	stop     chan struct{}
	done     chan struct{}
}

// FeedbackAnalysisWorkerConfig holds feedback worker dependencies
type FeedbackAnalysisWorkerConfig struct {
	WorkerConfig WorkerConfig
	LLM          services.CompletionClient
	FeedbackRepo repositories.FeedbackRepository
	Logger       *log.Logger
}

// NewFeedbackAnalysisWorker creates a feedback analysis worker
func NewFeedbackAnalysisWorker(config FeedbackAnalysisWorkerConfig) *FeedbackAnalysisWorker {
	logger := config.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[FEEDBACK-WORKER] ", log.LstdFlags)
	}
	return &FeedbackAnalysisWorker{
		BaseWorker: NewBaseWorker(config.WorkerConfig),
		llm:        config.LLM,
		feedback:   config.FeedbackRepo,
		logger:     logger,
	}
}

// Start begins polling the pending-feedback queue
func (w *FeedbackAnalysisWorker) Start(ctx context.Context) error {
	if w.IsRunning() {
		return NewWorkerError(w.Name(), "start", nil, "worker already running")
	}

	w.setRunning(true)
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.logger.Printf("Starting feedback analysis worker: %s", w.Name())

	go w.run(ctx)
	return nil
}

// Stop drains the current job and shuts the worker down
func (w *FeedbackAnalysisWorker) Stop(ctx context.Context) error {
	if !w.IsRunning() {
		return nil
	}

	w.logger.Printf("Stopping feedback analysis worker: %s", w.Name())
	close(w.stop)

	shutdownCtx, cancel := context.WithTimeout(ctx, w.Config().ShutdownTimeout)
	defer cancel()

	select {
	case <-w.done:
	case <-shutdownCtx.Done():
		w.logger.Printf("Shutdown timeout for worker: %s", w.Name())
	}

	w.setRunning(false)
	return nil
}

func (w *FeedbackAnalysisWorker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.Config().PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.drainQueue(ctx)
		}
	}
}

// drainQueue processes pending feedback until the queue is empty
func (w *FeedbackAnalysisWorker) drainQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
		}

		feedback, err := w.feedback.NextPending(ctx)
		if err != nil {
			w.logger.Printf("Failed to pop pending feedback: %v", err)
			return
		}
		if feedback == nil {
			return
		}

		w.processFeedback(ctx, feedback)
	}
}

func (w *FeedbackAnalysisWorker) processFeedback(ctx context.Context, feedback *models.CustomerFeedback) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("Panic analyzing feedback %s: %v", feedback.ID, r)
			w.recordJobFailure(start)
		}
	}()

	w.logger.Printf("Analyzing feedback %s from user %s", feedback.ID, feedback.UserID)

	data, err := w.llm.CompleteStructured(ctx, services.StructuredRequest{
		Prompt:       services.BuildFeedbackAnalysisPrompt(feedback.Comment),
		SystemPrompt: services.FeedbackAnalyzerSystem,
		Schema: map[string]string{
			"sentiment":           "positive, neutral, or negative",
			"sentiment_score":     "number between 0 and 1",
			"key_themes":          "array of short theme strings",
			"actionable_insights": "array of concrete improvement suggestions",
			"requires_attention":  "boolean, true if a human should follow up",
			"suggested_response":  "short reply draft for the customer",
		},
	})
	if err != nil {
		w.failFeedback(ctx, feedback.ID, err.Error())
		w.recordJobFailure(start)
		return
	}

	analysis := services.AnalysisFromMap(feedback.ID, data)
	if err := w.feedback.StoreAnalysis(ctx, analysis); err != nil {
		w.failFeedback(ctx, feedback.ID, err.Error())
		w.recordJobFailure(start)
		return
	}

	w.logger.Printf("Completed analysis for feedback %s: sentiment=%s", feedback.ID, analysis.Sentiment)
	w.recordJobSuccess(start)
}

func (w *FeedbackAnalysisWorker) failFeedback(ctx context.Context, feedbackID, reason string) {
	w.logger.Printf("Analysis failed for feedback %s: %s", feedbackID, reason)
	if err := w.feedback.MarkAnalysisFailed(ctx, feedbackID, reason); err != nil {
		w.logger.Printf("Could not mark feedback %s failed: %v", feedbackID, err)
	}
}
