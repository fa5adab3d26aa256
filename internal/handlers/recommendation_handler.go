package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/services"
)

// RecommendationHandler handles meal catalog and recommendation endpoints
type RecommendationHandler struct {
	rag    *services.RAGService
	meals  *services.MealService
	logger *log.Logger
}

// NewRecommendationHandler creates a recommendation handler
func NewRecommendationHandler(rag *services.RAGService, meals *services.MealService, logger *log.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		rag:    rag,
		meals:  meals,
		logger: logger,
	}
}

// Recommend returns scored meal recommendations for explicit criteria
// @Summary Get meal recommendations
// @Description Returns catalog meals scored against the given criteria
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body models.RecommendationRequest true "Recommendation criteria"
// @Success 200 {object} models.RecommendationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/recommendations [post]
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	candidates, err := h.meals.FilterMeals(services.MealFilter{
		Category:         req.MealCategory,
		DietaryTags:      req.DietaryRestrictions,
		ExcludeAllergens: req.ExcludeIngredients,
	})
	if err != nil {
		h.logger.Printf("Failed to filter meals: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load meals")
		return
	}

	prefs := models.UserPreferences{
		DietaryRestrictions: req.DietaryRestrictions,
		CalorieTarget:       req.CalorieTarget,
	}

	recommendations := make([]models.MealRecommendation, 0, len(candidates))
	for i := range candidates {
		meal := candidates[i]
		recommendations = append(recommendations, models.MealRecommendation{
			Meal:               &meal,
			RelevanceScore:     services.MealScore(meal, prefs),
			Reasoning:          "Matches your dietary criteria",
			MatchesPreferences: req.DietaryRestrictions,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RelevanceScore > recommendations[j].RelevanceScore
	})

	totalFound := len(recommendations)
	if len(recommendations) > maxResults {
		recommendations = recommendations[:maxResults]
	}

	h.sendJSON(w, http.StatusOK, models.RecommendationResponse{
		Recommendations:    recommendations,
		TotalFound:         totalFound,
		QueryUnderstanding: describeCriteria(req),
	})
}

func describeCriteria(req models.RecommendationRequest) string {
	parts := make([]string, 0, 3)
	if len(req.DietaryRestrictions) > 0 {
		parts = append(parts, "dietary: "+strings.Join(req.DietaryRestrictions, ", "))
	}
	if req.MealCategory != "" {
		parts = append(parts, "category: "+req.MealCategory)
	}
	if req.CalorieTarget > 0 {
		parts = append(parts, "calorie target: "+strconv.Itoa(req.CalorieTarget))
	}
	if len(parts) == 0 {
		return "no specific criteria"
	}
	return strings.Join(parts, "; ")
}

// ListMeals returns the meal catalog, optionally filtered
// @Summary List meals
// @Description Returns catalog meals with optional filters
// @Tags recommendations
// @Produce json
// @Param category query string false "Meal category"
// @Param max_calories query int false "Maximum calories"
// @Success 200 {array} models.Meal
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/recommendations/meals [get]
func (h *RecommendationHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	filter := services.MealFilter{
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("max_calories"); raw != "" {
		if maxCal, err := strconv.Atoi(raw); err == nil {
			filter.MaxCalories = maxCal
		}
	}

	meals, err := h.meals.FilterMeals(filter)
	if err != nil {
		h.logger.Printf("Failed to list meals: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load meals")
		return
	}

	h.sendJSON(w, http.StatusOK, meals)
}

// MealDetail returns one catalog meal
// @Summary Get meal details
// @Description Returns full catalog details for one meal
// @Tags recommendations
// @Produce json
// @Param meal_id path string true "Meal ID"
// @Success 200 {object} models.Meal
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/recommendations/meals/{meal_id} [get]
func (h *RecommendationHandler) MealDetail(w http.ResponseWriter, r *http.Request) {
	mealID := mux.Vars(r)["meal_id"]

	meal, err := h.meals.MealByID(mealID)
	if err != nil {
		h.logger.Printf("Failed to load meal %s: %v", mealID, err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load meal")
		return
	}
	if meal == nil {
		h.sendError(w, http.StatusNotFound, "Meal not found")
		return
	}

	h.sendJSON(w, http.StatusOK, meal)
}

// Popular returns the most popular meals
// @Summary List popular meals
// @Description Returns meals ranked by popularity
// @Tags recommendations
// @Produce json
// @Param limit query int false "Result limit" default(10)
// @Success 200 {array} models.Meal
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/recommendations/meals/popular [get]
func (h *RecommendationHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	meals, err := h.meals.PopularMeals(limit)
	if err != nil {
		h.logger.Printf("Failed to load popular meals: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to load meals")
		return
	}

	h.sendJSON(w, http.StatusOK, meals)
}

// MealPlan generates a multi-day meal plan
// @Summary Generate a meal plan
// @Description Builds a multi-day plan scored against the user's preferences
// @Tags recommendations
// @Accept json
// @Produce json
// @Param request body models.MealPlanRequest true "Meal plan request"
// @Success 200 {object} map[string][]models.MealRecommendation
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/recommendations/meal-plan [post]
func (h *RecommendationHandler) MealPlan(w http.ResponseWriter, r *http.Request) {
	var req models.MealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := h.meals.GenerateMealPlan(req)
	if err != nil {
		h.logger.Printf("Failed to generate meal plan: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to generate meal plan")
		return
	}

	h.sendJSON(w, http.StatusOK, plan)
}

// Search runs a semantic search over the indexed meals
// @Summary Semantic meal search
// @Description Searches the meal index with a natural language query
// @Tags recommendations
// @Produce json
// @Param q query string true "Search query"
// @Param category query string false "Meal category"
// @Param top_k query int false "Number of results" default(5)
// @Success 200 {array} services.MealSearchResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/v1/recommendations/search [get]
func (h *RecommendationHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		h.sendError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	if h.rag == nil {
		h.sendError(w, http.StatusServiceUnavailable, "Meal search is unavailable")
		return
	}

	topK := 5
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			topK = parsed
		}
	}

	results, err := h.rag.SearchMeals(r.Context(), query, r.URL.Query().Get("category"), topK)
	if err != nil {
		if err == services.ErrNotInitialized {
			h.sendError(w, http.StatusServiceUnavailable, "Meal index is still initializing")
			return
		}
		h.logger.Printf("Search failed: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	h.sendJSON(w, http.StatusOK, results)
}

func (h *RecommendationHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *RecommendationHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, models.ErrorResponse{
		Error:  message,
		Status: "error",
	})
}
