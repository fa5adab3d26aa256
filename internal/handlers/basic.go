package handlers

import (
	"encoding/json"
	"net/http"
)

// BasicResponse is the body for simple status endpoints
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthCheckHandler reports server liveness
// @Summary Health check
// @Description Returns server health status
// @Tags health
// @Produce json
// @Success 200 {object} BasicResponse
// @Router /health [get]
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := BasicResponse{
		Message: "Server is healthy",
		Status:  "success",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// HomeHandler greets API callers at the root path
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	response := BasicResponse{
		Message: "Calo AI Nutrition Advisor API",
		Status:  "success",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
