package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Ali-Dakheel/calo-ai-app/internal/handlers"
)

// Handlers bundles everything RegisterRoutes needs. Optional handlers
// may be nil when their backing services are unavailable; their routes
// are simply not registered.
type Handlers struct {
	Health http.HandlerFunc
	Home   http.HandlerFunc

	Chat           *handlers.ChatHandler
	Recommendation *handlers.RecommendationHandler
	Feedback       *handlers.FeedbackHandler
	Kitchen        *handlers.KitchenHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	// Health endpoints
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/", h.Home).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Conversational endpoints
	if h.Chat != nil {
		api.HandleFunc("/chat", h.Chat.Chat).Methods(http.MethodPost)
		api.HandleFunc("/chat/stream", h.Chat.ChatStream).Methods(http.MethodPost)
		api.HandleFunc("/chat/history/{conversation_id}", h.Chat.History).Methods(http.MethodGet)
		api.HandleFunc("/chat/history/{conversation_id}", h.Chat.DeleteConversation).Methods(http.MethodDelete)
	}

	// Meal catalog and recommendations
	if h.Recommendation != nil {
		api.HandleFunc("/recommendations", h.Recommendation.Recommend).Methods(http.MethodPost)
		api.HandleFunc("/recommendations/meals", h.Recommendation.ListMeals).Methods(http.MethodGet)
		api.HandleFunc("/recommendations/meals/popular", h.Recommendation.Popular).Methods(http.MethodGet)
		api.HandleFunc("/recommendations/meals/{meal_id}", h.Recommendation.MealDetail).Methods(http.MethodGet)
		api.HandleFunc("/recommendations/meal-plan", h.Recommendation.MealPlan).Methods(http.MethodPost)
		api.HandleFunc("/recommendations/search", h.Recommendation.Search).Methods(http.MethodGet)
	}

	// Feedback and analytics
	if h.Feedback != nil {
		api.HandleFunc("/feedback", h.Feedback.Submit).Methods(http.MethodPost)
		api.HandleFunc("/feedback", h.Feedback.List).Methods(http.MethodGet)
		api.HandleFunc("/feedback/{feedback_id}", h.Feedback.Get).Methods(http.MethodGet)
		api.HandleFunc("/analytics/feedback/summary", h.Feedback.Summary).Methods(http.MethodGet)
		api.HandleFunc("/analytics/feedback/trends", h.Feedback.Trends).Methods(http.MethodGet)
	}

	// Kitchen operations
	if h.Kitchen != nil {
		api.HandleFunc("/kitchen/requests", h.Kitchen.Create).Methods(http.MethodPost)
		api.HandleFunc("/kitchen/requests", h.Kitchen.List).Methods(http.MethodGet)
		api.HandleFunc("/kitchen/requests/{request_id}", h.Kitchen.Get).Methods(http.MethodGet)
		api.HandleFunc("/kitchen/requests/{request_id}", h.Kitchen.Delete).Methods(http.MethodDelete)
		api.HandleFunc("/kitchen/requests/{request_id}/status", h.Kitchen.UpdateStatus).Methods(http.MethodPut)
		api.HandleFunc("/kitchen/dashboard", h.Kitchen.Dashboard).Methods(http.MethodGet)
	}
}
