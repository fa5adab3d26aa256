package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// ============================================================================
// Preference learner prompt
// ============================================================================

func TestPreferenceLearnerSystemAsksOneFollowUp(t *testing.T) {
	assert.Contains(t, PreferenceLearnerSystem, "ONE follow-up question")
}

func TestBuildPreferencePromptAsksOneFollowUp(t *testing.T) {
	prompt := BuildPreferencePrompt("I'm trying to eat more protein", nil)

	assert.Contains(t, prompt, "User message: I'm trying to eat more protein")
	assert.Contains(t, prompt, "Ask ONE follow-up question")
}

func TestBuildPreferencePromptIncludesHistory(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "I'm vegetarian"},
		{Role: models.RoleAssistant, Content: "Noted, vegetarian it is!"},
	}

	prompt := BuildPreferencePrompt("And no dairy please", history)

	assert.Contains(t, prompt, "user: I'm vegetarian")
	assert.Contains(t, prompt, "assistant: Noted, vegetarian it is!")
	assert.Contains(t, prompt, "And no dairy please")
}

// ============================================================================
// Recommendation prompt
// ============================================================================

func TestBuildRecommendationPromptRendersMealMetadata(t *testing.T) {
	meals := []*MealSearchResult{
		{
			ID:       "meal_001",
			Document: "Meal: Grilled Chicken Quinoa Bowl. A protein-packed bowl with tender grilled chicken.",
			Metadata: map[string]interface{}{
				"name":         "Grilled Chicken Quinoa Bowl",
				"category":     "lunch",
				"calories":     "450",
				"protein":      "38",
				"dietary_tags": []string{"gluten_free", "dairy_free"},
			},
		},
	}

	prompt := BuildRecommendationPrompt("Something healthy for lunch", models.UserPreferences{}, meals)

	assert.Contains(t, prompt, "Grilled Chicken Quinoa Bowl (id: meal_001)")
	assert.Contains(t, prompt, "Category: lunch")
	assert.Contains(t, prompt, "Calories: 450")
	assert.Contains(t, prompt, "Protein: 38g")
	assert.Contains(t, prompt, "Tags: gluten_free, dairy_free")
	assert.Contains(t, prompt, "Description: Meal: Grilled Chicken Quinoa Bowl")
}

func TestBuildRecommendationPromptTagsFromUntypedSlice(t *testing.T) {
	// The vector store returns metadata values as untyped slices
	meals := []*MealSearchResult{
		{
			ID:       "meal_005",
			Document: "Meal: Vegan Buddha Bowl",
			Metadata: map[string]interface{}{
				"name":         "Vegan Buddha Bowl",
				"dietary_tags": []interface{}{"vegan", "gluten_free"},
			},
		},
	}

	prompt := BuildRecommendationPrompt("vegan options", models.UserPreferences{}, meals)

	assert.Contains(t, prompt, "Tags: vegan, gluten_free")
}

func TestBuildRecommendationPromptTruncatesDescriptions(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "0123456789"
	}
	meals := []*MealSearchResult{
		{ID: "meal_002", Document: long, Metadata: map[string]interface{}{"name": "Vegan Lentil Curry"}},
	}

	prompt := BuildRecommendationPrompt("curry", models.UserPreferences{}, meals)

	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, long[:200])
}

func TestBuildRecommendationPromptIncludesPreferences(t *testing.T) {
	prefs := models.UserPreferences{
		DietaryRestrictions: []string{"vegan"},
		CalorieTarget:       1800,
	}

	prompt := BuildRecommendationPrompt("dinner ideas", prefs, nil)

	assert.Contains(t, prompt, "Known preferences:")
	assert.Contains(t, prompt, "vegan")
	assert.Contains(t, prompt, "1800")
}
