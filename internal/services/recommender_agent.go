package services

import (
	"context"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

const emptyRetrievalReply = "I couldn't find any meals matching your criteria right now. " +
	"Could you tell me more about what you're looking for?"

// recommendationTopK is how many candidates retrieval feeds the model
const recommendationTopK = 5

// maxRecommendedMeals caps the ids surfaced back to the caller
const maxRecommendedMeals = 3

// handleMealRecommendation retrieves candidate meals and asks the model
// to pick from them. With no retrieval hits there is nothing to ground a
// recommendation on, so the agent asks a clarifying question instead of
// calling the model.
func (s *AgentService) handleMealRecommendation(ctx context.Context, userID, message string) (*AgentResult, error) {
	prefs, err := s.preferences.Get(ctx, userID)
	if err != nil {
		// Recommendations still work without stored preferences
		s.logger.Printf("Failed to load preferences for user %s: %v", userID, err)
		prefs = models.UserPreferences{}
	}

	meals, explanation, err := s.retriever.ContextualSearch(ctx, message, prefs, recommendationTopK)
	if err != nil {
		return nil, err
	}

	if len(meals) == 0 {
		return &AgentResult{
			Message:         emptyRetrievalReply,
			AgentUsed:       AgentMealRecommender,
			Confidence:      0.5,
			Recommendations: []string{},
			Context:         explanation,
		}, nil
	}

	reply, err := s.llm.Complete(ctx, CompletionRequest{
		Prompt:       BuildRecommendationPrompt(message, prefs, meals),
		SystemPrompt: MealRecommenderSystem,
		Temperature:  0.7,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, maxRecommendedMeals)
	for _, meal := range meals {
		if len(ids) == maxRecommendedMeals {
			break
		}
		ids = append(ids, meal.ID)
	}

	return &AgentResult{
		Message:         reply,
		AgentUsed:       AgentMealRecommender,
		Confidence:      0.95,
		Recommendations: ids,
		Context:         explanation,
	}, nil
}
