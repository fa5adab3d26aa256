package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
)

// KitchenHandler handles kitchen request management endpoints
type KitchenHandler struct {
	kitchen repositories.KitchenRepository
	logger  *log.Logger
}

// NewKitchenHandler creates a kitchen handler
func NewKitchenHandler(kitchen repositories.KitchenRepository, logger *log.Logger) *KitchenHandler {
	return &KitchenHandler{
		kitchen: kitchen,
		logger:  logger,
	}
}

// CreateKitchenRequestBody is the body for manual request creation
type CreateKitchenRequestBody struct {
	UserID          string                 `json:"user_id"`
	OriginalMessage string                 `json:"original_message"`
	RequestType     string                 `json:"request_type"`
	Details         map[string]interface{} `json:"details,omitempty"`
	Priority        int                    `json:"priority,omitempty"`
}

// Create records a kitchen request directly
// @Summary Create kitchen request
// @Description Records a request for the kitchen team
// @Tags kitchen
// @Accept json
// @Produce json
// @Param request body CreateKitchenRequestBody true "Kitchen request"
// @Success 201 {object} models.KitchenRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/kitchen/requests [post]
func (h *KitchenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateKitchenRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(body.UserID) == "" {
		h.sendError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	requestType := body.RequestType
	if requestType == "" {
		requestType = "other"
	}
	priority := body.Priority
	if priority < 1 || priority > 5 {
		priority = 3
	}

	request := &models.KitchenRequest{
		RequestID:       "kreq_" + uuid.NewString(),
		UserID:          body.UserID,
		OriginalMessage: body.OriginalMessage,
		RequestType:     requestType,
		Details:         body.Details,
		Priority:        priority,
		Status:          models.KitchenStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.kitchen.Create(r.Context(), request); err != nil {
		h.logger.Printf("Failed to create kitchen request: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to create request")
		return
	}

	h.sendJSON(w, http.StatusCreated, request)
}

// List returns kitchen requests, optionally filtered by status/priority
// @Summary List kitchen requests
// @Description Returns kitchen requests matching the filters, newest first
// @Tags kitchen
// @Produce json
// @Param status query string false "Status filter"
// @Param min_priority query int false "Minimum priority"
// @Success 200 {array} models.KitchenRequest
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/kitchen/requests [get]
func (h *KitchenHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.KitchenRequestFilter{
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("min_priority"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.MinPriority = parsed
		}
	}

	requests, err := h.kitchen.List(r.Context(), filter)
	if err != nil {
		h.logger.Printf("Failed to list kitchen requests: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load requests")
		return
	}

	h.sendJSON(w, http.StatusOK, requests)
}

// Get returns one kitchen request
// @Summary Get kitchen request
// @Description Returns one kitchen request by id
// @Tags kitchen
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {object} models.KitchenRequest
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/kitchen/requests/{request_id} [get]
func (h *KitchenHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	request, err := h.kitchen.Get(r.Context(), requestID)
	if err != nil {
		h.logger.Printf("Failed to load kitchen request %s: %v", requestID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load request")
		return
	}
	if request == nil {
		h.sendError(w, http.StatusNotFound, "Request not found")
		return
	}

	h.sendJSON(w, http.StatusOK, request)
}

// UpdateStatusBody is the body for status transitions
type UpdateStatusBody struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// UpdateStatus transitions a request through its lifecycle
// @Summary Update kitchen request status
// @Description Moves a request to pending, in_progress, completed, or cancelled
// @Tags kitchen
// @Accept json
// @Produce json
// @Param request_id path string true "Request ID"
// @Param request body UpdateStatusBody true "New status"
// @Success 200 {object} models.KitchenRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/kitchen/requests/{request_id}/status [put]
func (h *KitchenHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	var body UpdateStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.kitchen.UpdateStatus(r.Context(), requestID, body.Status, body.Note); err != nil {
		var repoErr *repositories.KitchenRepositoryError
		if errors.As(err, &repoErr) {
			switch repoErr.Operation {
			case "lookup":
				h.sendError(w, http.StatusNotFound, "Request not found")
				return
			case "update_status":
				if strings.Contains(repoErr.Error(), "invalid status") {
					h.sendError(w, http.StatusBadRequest, "Invalid status")
					return
				}
			}
		}
		h.logger.Printf("Failed to update kitchen request %s: %v", requestID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to update request")
		return
	}

	request, err := h.kitchen.Get(r.Context(), requestID)
	if err != nil || request == nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to load updated request")
		return
	}

	h.sendJSON(w, http.StatusOK, request)
}

// Dashboard summarizes open kitchen work
// @Summary Kitchen dashboard
// @Description Returns request counts by status and the open high-priority queue
// @Tags kitchen
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/kitchen/dashboard [get]
func (h *KitchenHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	requests, err := h.kitchen.List(r.Context(), repositories.KitchenRequestFilter{})
	if err != nil {
		h.logger.Printf("Failed to load kitchen requests: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load requests")
		return
	}

	byStatus := make(map[string]int)
	urgent := make([]*models.KitchenRequest, 0)
	for _, request := range requests {
		byStatus[request.Status]++
		if request.Status == models.KitchenStatusPending && request.Priority >= 4 {
			urgent = append(urgent, request)
		}
	}

	h.sendJSON(w, http.StatusOK, map[string]interface{}{
		"total_requests": len(requests),
		"by_status":      byStatus,
		"urgent_pending": urgent,
	})
}

// Delete removes a kitchen request
// @Summary Delete kitchen request
// @Description Removes a kitchen request permanently
// @Tags kitchen
// @Produce json
// @Param request_id path string true "Request ID"
// @Success 200 {object} BasicResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/kitchen/requests/{request_id} [delete]
func (h *KitchenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	if err := h.kitchen.Delete(r.Context(), requestID); err != nil {
		var repoErr *repositories.KitchenRepositoryError
		if errors.As(err, &repoErr) && repoErr.Operation == "lookup" {
			h.sendError(w, http.StatusNotFound, "Request not found")
			return
		}
		h.logger.Printf("Failed to delete kitchen request %s: %v", requestID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to delete request")
		return
	}

	h.sendJSON(w, http.StatusOK, BasicResponse{
		Message: "Request deleted",
		Status:  "success",
	})
}

func (h *KitchenHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *KitchenHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, models.ErrorResponse{
		Error:  message,
		Status: "error",
	})
}
