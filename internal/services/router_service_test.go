package services

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// ============================================================================
// Route classification
// ============================================================================

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Agent
		matched  bool
	}{
		{"exact preference", "PREFERENCE_LEARNER", AgentPreferenceLearner, true},
		{"exact recommender", "MEAL_RECOMMENDER", AgentMealRecommender, true},
		{"exact feedback", "FEEDBACK_ANALYZER", AgentFeedbackAnalyzer, true},
		{"exact kitchen", "KITCHEN_ROUTER", AgentKitchenRouter, true},
		{"lowercase reply", "meal_recommender", AgentMealRecommender, true},
		{"chatty reply", "Category: MEAL_RECOMMENDER.", AgentMealRecommender, true},
		{"recommend alone", "I would RECOMMEND something", AgentMealRecommender, true},
		{"preference wins over meal", "PREFERENCE_LEARNER or MEAL_RECOMMENDER", AgentPreferenceLearner, true},
		{"unknown reply", "UNKNOWN", "", false},
		{"empty reply", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent, ok := ClassifyRoute(tt.raw)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.expected, agent)
		})
	}
}

// ============================================================================
// Routing fallback
// ============================================================================

func TestRouteFallsBackOnLLMError(t *testing.T) {
	mockLLM := new(MockCompletionClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	router := NewRouterService(mockLLM, log.New(os.Stdout, "[TEST] ", log.LstdFlags))
	agent := router.Route(context.Background(), "Hi there", nil)

	assert.Equal(t, AgentPreferenceLearner, agent)
}

func TestRouteFallsBackOnUnrecognizedReply(t *testing.T) {
	mockLLM := new(MockCompletionClient)
	mockLLM.On("Complete", mock.Anything, mock.Anything).Return("I have no idea", nil)

	router := NewRouterService(mockLLM, log.New(os.Stdout, "[TEST] ", log.LstdFlags))
	agent := router.Route(context.Background(), "Hi there", nil)

	assert.Equal(t, AgentPreferenceLearner, agent)
}

func TestRouteUsesLowTemperature(t *testing.T) {
	mockLLM := new(MockCompletionClient)
	mockLLM.On("Complete", mock.Anything, mock.MatchedBy(func(req CompletionRequest) bool {
		return req.Temperature == 0.3 && req.SystemPrompt == ConversationRouterSystem
	})).Return("KITCHEN_ROUTER", nil)

	router := NewRouterService(mockLLM, log.New(os.Stdout, "[TEST] ", log.LstdFlags))
	agent := router.Route(context.Background(), "Tell the kitchen no onions", nil)

	assert.Equal(t, AgentKitchenRouter, agent)
	mockLLM.AssertExpectations(t)
}

// ============================================================================
// Routing prompt window
// ============================================================================

func TestBuildRoutingPromptWindowsHistory(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "first message"},
		{Role: models.RoleAssistant, Content: "first reply"},
		{Role: models.RoleUser, Content: "second message"},
		{Role: models.RoleAssistant, Content: "second reply"},
		{Role: models.RoleUser, Content: "third message"},
		{Role: models.RoleAssistant, Content: "third reply"},
		{Role: models.RoleUser, Content: "fourth message"},
	}

	prompt := BuildRoutingPrompt("What should I eat?", history)

	// Only the last five messages appear
	assert.NotContains(t, prompt, "first message")
	assert.NotContains(t, prompt, "first reply")
	assert.Contains(t, prompt, "second message")
	assert.Contains(t, prompt, "fourth message")
	assert.Contains(t, prompt, "What should I eat?")
}

func TestBuildRoutingPromptTruncatesLongMessages(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "0123456789"
	}
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: long},
	}

	prompt := BuildRoutingPrompt("hello", history)

	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, long[:100])
}
