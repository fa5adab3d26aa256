package services

import (
	"context"
	"log"
	"strings"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// Agent identifies which conversation agent handles a message
type Agent string

const (
	AgentPreferenceLearner Agent = "PREFERENCE_LEARNER"
	AgentMealRecommender   Agent = "MEAL_RECOMMENDER"
	AgentFeedbackAnalyzer  Agent = "FEEDBACK_ANALYZER"
	AgentKitchenRouter     Agent = "KITCHEN_ROUTER"
)

// RouterService classifies incoming messages to an agent using the LLM
type RouterService struct {
	llm    CompletionClient
	logger *log.Logger
}

// NewRouterService creates a conversation router
func NewRouterService(llm CompletionClient, logger *log.Logger) *RouterService {
	if logger == nil {
		logger = log.New(log.Writer(), "[ROUTER] ", log.LstdFlags)
	}
	return &RouterService{
		llm:    llm,
		logger: logger,
	}
}

// Route classifies a message given recent history. Routing never fails:
// an LLM error or an unrecognizable reply falls back to the preference
// learner, which handles open-ended conversation gracefully.
func (s *RouterService) Route(ctx context.Context, message string, history []models.ChatMessage) Agent {
	raw, err := s.llm.Complete(ctx, CompletionRequest{
		Prompt:       BuildRoutingPrompt(message, history),
		SystemPrompt: ConversationRouterSystem,
		Temperature:  0.3,
	})
	if err != nil {
		s.logger.Printf("Routing failed, falling back to preference learner: %v", err)
		return AgentPreferenceLearner
	}

	agent, ok := ClassifyRoute(raw)
	if !ok {
		s.logger.Printf("Unrecognized routing reply %q, falling back to preference learner", raw)
		return AgentPreferenceLearner
	}

	return agent
}

// ClassifyRoute maps a raw model reply to an agent. Matching is by
// substring so replies like "Category: MEAL_RECOMMENDER." still resolve.
// Checks run in fixed priority order so a reply naming several agents
// resolves deterministically.
func ClassifyRoute(raw string) (Agent, bool) {
	upper := strings.ToUpper(raw)

	switch {
	case strings.Contains(upper, "PREFERENCE"):
		return AgentPreferenceLearner, true
	case strings.Contains(upper, "MEAL"), strings.Contains(upper, "RECOMMEND"):
		return AgentMealRecommender, true
	case strings.Contains(upper, "FEEDBACK"):
		return AgentFeedbackAnalyzer, true
	case strings.Contains(upper, "KITCHEN"):
		return AgentKitchenRouter, true
	}

	return "", false
}
