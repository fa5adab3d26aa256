package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// preferenceKeywords maps message phrases to canonical dietary tags
var preferenceKeywords = map[string]string{
	"vegetarian":  models.TagVegetarian,
	"vegan":       models.TagVegan,
	"keto":        models.TagKeto,
	"gluten free": models.TagGlutenFree,
	"gluten-free": models.TagGlutenFree,
	"dairy free":  models.TagDairyFree,
	"dairy-free":  models.TagDairyFree,
	"halal":       models.TagHalal,
}

// Calorie targets outside this range are treated as noise, not goals
const (
	minCalorieTarget = 200
	maxCalorieTarget = 5000
)

// ExtractPreferences pulls dietary restrictions and a calorie target out
// of a free-form message using keyword matching. The LLM reply handles
// conversational nuance; extraction stays deterministic.
func ExtractPreferences(message string) models.UserPreferences {
	lower := strings.ToLower(message)

	var prefs models.UserPreferences
	seen := make(map[string]bool)
	for phrase, tag := range preferenceKeywords {
		if strings.Contains(lower, phrase) && !seen[tag] {
			seen[tag] = true
			prefs.DietaryRestrictions = append(prefs.DietaryRestrictions, tag)
		}
	}

	// Only treat a number as a calorie goal when the message is about calories
	if strings.Contains(lower, "calorie") {
		for _, token := range strings.Fields(lower) {
			token = strings.Trim(token, ".,!?")
			if n, err := strconv.Atoi(token); err == nil && n > minCalorieTarget && n < maxCalorieTarget {
				prefs.CalorieTarget = n
				break
			}
		}
	}

	return prefs
}

// handlePreferenceLearning acknowledges shared preferences and stores
// what it learned. LLM failures propagate: without a reply there is
// nothing useful to say.
func (s *AgentService) handlePreferenceLearning(ctx context.Context, userID, message string, history []models.ChatMessage) (*AgentResult, error) {
	reply, err := s.llm.Complete(ctx, CompletionRequest{
		Prompt:       BuildPreferencePrompt(message, history),
		SystemPrompt: PreferenceLearnerSystem,
		Temperature:  0.8,
	})
	if err != nil {
		return nil, err
	}

	extracted := ExtractPreferences(message)
	if !extracted.IsEmpty() {
		if err := s.preferences.Merge(ctx, userID, extracted); err != nil {
			// The conversation continues even if persistence hiccups
			s.logger.Printf("Failed to store preferences for user %s: %v", userID, err)
		}
	}

	return &AgentResult{
		Message:              reply,
		AgentUsed:            AgentPreferenceLearner,
		Confidence:           0.9,
		ExtractedPreferences: extracted,
	}, nil
}
