package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
	"github.com/Ali-Dakheel/calo-ai-app/internal/services"
)

// FeedbackHandler handles customer feedback and analytics endpoints
type FeedbackHandler struct {
	feedback  repositories.FeedbackRepository
	sentiment *services.KeywordSentimentClassifier
	analytics *services.AnalyticsService
	logger    *log.Logger
}

// NewFeedbackHandler creates a feedback handler
func NewFeedbackHandler(feedback repositories.FeedbackRepository, sentiment *services.KeywordSentimentClassifier, analytics *services.AnalyticsService, logger *log.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback:  feedback,
		sentiment: sentiment,
		analytics: analytics,
		logger:    logger,
	}
}

// SubmitFeedbackRequest is the body for feedback submission
type SubmitFeedbackRequest struct {
	UserID  string `json:"user_id"`
	MealID  string `json:"meal_id,omitempty"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Submit stores customer feedback and queues it for deep analysis
// @Summary Submit feedback
// @Description Stores feedback with an immediate sentiment estimate; full analysis runs in the background
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} models.CustomerFeedback
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/feedback [post]
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		h.sendError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		h.sendError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	feedback := &models.CustomerFeedback{
		ID:             "fb_" + uuid.NewString(),
		UserID:         req.UserID,
		MealID:         req.MealID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		Sentiment:      h.sentiment.ClassifyWithRating(req.Rating, req.Comment),
		Categories:     services.CategorizeFeedback(req.Comment),
		Timestamp:      time.Now().UTC(),
		AnalysisStatus: models.AnalysisPending,
	}

	if err := h.feedback.Store(r.Context(), feedback); err != nil {
		h.logger.Printf("Failed to store feedback from user %s: %v", req.UserID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to store feedback")
		return
	}

	h.sendJSON(w, http.StatusCreated, feedback)
}

// Get returns one feedback entry with its analysis when available
// @Summary Get feedback
// @Description Returns a feedback entry and its analysis if completed
// @Tags feedback
// @Produce json
// @Param feedback_id path string true "Feedback ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/feedback/{feedback_id} [get]
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	feedbackID := mux.Vars(r)["feedback_id"]

	feedback, err := h.feedback.Get(r.Context(), feedbackID)
	if err != nil {
		h.logger.Printf("Failed to load feedback %s: %v", feedbackID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load feedback")
		return
	}
	if feedback == nil {
		h.sendError(w, http.StatusNotFound, "Feedback not found")
		return
	}

	analysis, err := h.feedback.GetAnalysis(r.Context(), feedbackID)
	if err != nil {
		h.logger.Printf("Failed to load analysis %s: %v", feedbackID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load analysis")
		return
	}

	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": feedback,
		"analysis": analysis,
	})
}

// List returns recent feedback
// @Summary List feedback
// @Description Returns recent feedback, optionally scoped to one user
// @Tags feedback
// @Produce json
// @Param user_id query string false "User ID"
// @Param limit query int false "Result limit" default(20)
// @Success 200 {array} models.CustomerFeedback
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/feedback [get]
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.feedback.List(r.Context(), r.URL.Query().Get("user_id"), limit)
	if err != nil {
		h.logger.Printf("Failed to list feedback: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load feedback")
		return
	}

	h.sendJSON(w, http.StatusOK, entries)
}

// Summary returns aggregated feedback analytics
// @Summary Feedback summary
// @Description Aggregates recent feedback into sentiment and theme statistics
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Param meal_id query string false "Scope to one meal"
// @Success 200 {object} models.AnalyticsSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/analytics/feedback/summary [get]
func (h *FeedbackHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	summary, err := h.analytics.Summary(r.Context(), days, r.URL.Query().Get("meal_id"))
	if err != nil {
		h.logger.Printf("Failed to build summary: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	h.sendJSON(w, http.StatusOK, summary)
}

// Trends returns per-day feedback statistics
// @Summary Feedback trends
// @Description Returns daily feedback counts, ratings, and sentiment distribution
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {array} models.DailyTrend
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/analytics/feedback/trends [get]
func (h *FeedbackHandler) Trends(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	trends, err := h.analytics.Trends(r.Context(), days)
	if err != nil {
		h.logger.Printf("Failed to build trends: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to build trends")
		return
	}

	h.sendJSON(w, http.StatusOK, trends)
}

func (h *FeedbackHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *FeedbackHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, models.ErrorResponse{
		Error:  message,
		Status: "error",
	})
}
