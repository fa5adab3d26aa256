package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
)

// ErrNotInitialized indicates the meal index has not been built yet
var ErrNotInitialized = errors.New("rag service not initialized")

// MealSearchResult is one semantic search hit over the meal index
type MealSearchResult struct {
	ID             string                 `json:"id"`
	Metadata       map[string]interface{} `json:"metadata"`
	Document       string                 `json:"document"`
	Distance       float64                `json:"distance"`
	RelevanceScore float64                `json:"relevance_score"`
}

// MealRetriever is the retrieval surface the recommendation agent uses
type MealRetriever interface {
	ContextualSearch(ctx context.Context, query string, prefs models.UserPreferences, topK int) ([]*MealSearchResult, string, error)
}

// RAGService indexes the meal catalog in a vector store and answers
// semantic queries over it
type RAGService struct {
	llm        CompletionClient
	vectorRepo repositories.VectorRepository
	meals      *MealService
	collection string
	logger     *log.Logger

	mu          sync.RWMutex
	initialized bool
}

// NewRAGService creates a RAG service over the given vector repository
func NewRAGService(llm CompletionClient, vectorRepo repositories.VectorRepository, meals *MealService, collection string, logger *log.Logger) *RAGService {
	if logger == nil {
		logger = log.New(log.Writer(), "[RAG] ", log.LstdFlags)
	}
	return &RAGService{
		llm:        llm,
		vectorRepo: vectorRepo,
		meals:      meals,
		collection: collection,
		logger:     logger,
	}
}

// Initialize builds the meal index. An existing non-empty collection is
// reused rather than re-embedded; calling Initialize twice is a no-op.
func (s *RAGService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	exists, err := s.vectorRepo.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		count, err := s.vectorRepo.CountCollection(ctx, s.collection)
		if err != nil {
			return fmt.Errorf("failed to count collection: %w", err)
		}
		if count > 0 {
			s.logger.Printf("Reusing collection %s with %d meals", s.collection, count)
			s.initialized = true
			return nil
		}
	} else {
		if err := s.vectorRepo.CreateCollection(ctx, s.collection, nil); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		s.logger.Printf("Created collection %s", s.collection)
	}

	meals, err := s.meals.AllMeals()
	if err != nil {
		return fmt.Errorf("failed to load meal catalog: %w", err)
	}

	docs := make([]*repositories.MealDocument, 0, len(meals))
	for i := range meals {
		text := MealToDocument(meals[i])

		embedding, err := s.llm.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed meal %s: %w", meals[i].ID, err)
		}

		docs = append(docs, &repositories.MealDocument{
			ID:        meals[i].ID,
			Text:      text,
			Embedding: embedding,
			Metadata:  mealMetadata(meals[i]),
		})
	}

	if err := s.vectorRepo.StoreMeals(ctx, s.collection, docs); err != nil {
		return fmt.Errorf("failed to index meals: %w", err)
	}

	s.logger.Printf("Indexed %d meals into %s", len(docs), s.collection)
	s.initialized = true
	return nil
}

// Initialized reports whether the meal index is ready
func (s *RAGService) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// MealToDocument renders a meal as the text document that gets embedded
func MealToDocument(meal models.Meal) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Meal: %s\n", meal.Name)
	fmt.Fprintf(&sb, "Category: %s\n", meal.Category)
	fmt.Fprintf(&sb, "Description: %s\n", meal.Description)
	fmt.Fprintf(&sb, "Dietary Tags: %s\n", strings.Join(meal.DietaryTags, ", "))
	fmt.Fprintf(&sb, "Nutrition: %d calories, %gg protein, %gg carbs, %gg fat\n",
		meal.Nutrition.Calories, meal.Nutrition.Protein, meal.Nutrition.Carbs, meal.Nutrition.Fats)
	fmt.Fprintf(&sb, "Ingredients: %s\n", strings.Join(meal.Ingredients, ", "))
	fmt.Fprintf(&sb, "Allergens: %s\n", strings.Join(meal.Allergens, ", "))
	fmt.Fprintf(&sb, "Preparation Time: %d minutes\n", meal.PreparationTime)
	fmt.Fprintf(&sb, "Price: $%.2f", meal.Price)

	return sb.String()
}

func mealMetadata(meal models.Meal) map[string]interface{} {
	return map[string]interface{}{
		"id":           meal.ID,
		"name":         meal.Name,
		"category":     meal.Category,
		"dietary_tags": meal.DietaryTags,
		"calories":     strconv.Itoa(meal.Nutrition.Calories),
		"protein":      strconv.FormatFloat(meal.Nutrition.Protein, 'f', -1, 64),
		"popularity":   strconv.FormatFloat(meal.PopularityScore, 'f', -1, 64),
	}
}

// SearchMeals runs a semantic query over the meal index
func (s *RAGService) SearchMeals(ctx context.Context, query string, category string, maxResults int) ([]*MealSearchResult, error) {
	if !s.Initialized() {
		return nil, ErrNotInitialized
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	embedding, err := s.llm.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var filter map[string]interface{}
	if category != "" {
		filter = map[string]interface{}{"category": category}
	}

	hits, err := s.vectorRepo.SearchMeals(ctx, s.collection, embedding, maxResults, filter)
	if err != nil {
		return nil, err
	}

	results := make([]*MealSearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, &MealSearchResult{
			ID:             hit.MealID,
			Metadata:       hit.Metadata,
			Document:       hit.Text,
			Distance:       float64(hit.Distance),
			RelevanceScore: 1.0 - float64(hit.Distance),
		})
	}

	return results, nil
}

// GetMealByID fetches an indexed meal document. A miss is (nil, nil).
func (s *RAGService) GetMealByID(ctx context.Context, mealID string) (*MealSearchResult, error) {
	if !s.Initialized() {
		return nil, ErrNotInitialized
	}

	doc, err := s.vectorRepo.GetMeal(ctx, s.collection, mealID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	return &MealSearchResult{
		ID:       doc.ID,
		Metadata: doc.Metadata,
		Document: doc.Text,
	}, nil
}

// ContextualSearch augments the query with the user's known preferences
// before searching, and returns a short explanation alongside the hits.
func (s *RAGService) ContextualSearch(ctx context.Context, query string, prefs models.UserPreferences, topK int) ([]*MealSearchResult, string, error) {
	enhanced := query
	if !prefs.IsEmpty() {
		enhanced = fmt.Sprintf("%s. User preferences: %s", query, preferencesToText(prefs))
	}

	meals, err := s.SearchMeals(ctx, enhanced, "", topK)
	if err != nil {
		return nil, "", err
	}

	explanation := fmt.Sprintf("Found %d meals matching: %s", len(meals), query)
	return meals, explanation, nil
}

func preferencesToText(prefs models.UserPreferences) string {
	parts := make([]string, 0, 3)
	if len(prefs.DietaryRestrictions) > 0 {
		parts = append(parts, "dietary needs: "+strings.Join(prefs.DietaryRestrictions, ", "))
	}
	if len(prefs.FavoriteCuisines) > 0 {
		parts = append(parts, "favorite cuisines: "+strings.Join(prefs.FavoriteCuisines, ", "))
	}
	if prefs.CalorieTarget > 0 {
		parts = append(parts, fmt.Sprintf("target calories: %d", prefs.CalorieTarget))
	}

	if len(parts) == 0 {
		return "no specific preferences"
	}
	return strings.Join(parts, "; ")
}
