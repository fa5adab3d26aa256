package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
)

// AgentResult is the outcome of processing one user message
type AgentResult struct {
	Message               string                 `json:"message"`
	AgentUsed             Agent                  `json:"agent_used"`
	Confidence            float64                `json:"confidence"`
	ConversationID        string                 `json:"conversation_id"`
	Recommendations       []string               `json:"recommendations"`
	RequiresKitchenAction bool                   `json:"requires_kitchen_action"`
	ExtractedPreferences  models.UserPreferences `json:"extracted_preferences,omitempty"`
	Analysis              map[string]interface{} `json:"analysis,omitempty"`
	Context               string                 `json:"context,omitempty"`
}

// AgentService orchestrates the multi-agent conversation flow: persist
// the user message, route it, dispatch to the right agent, persist the
// reply.
type AgentService struct {
	llm             CompletionClient
	retriever       MealRetriever
	router          *RouterService
	conversations   repositories.ConversationRepository
	preferences     repositories.PreferenceRepository
	kitchenRequests repositories.KitchenRepository // optional, nil disables recording
	logger          *log.Logger
}

// NewAgentService wires the agents to their dependencies. kitchenRequests
// may be nil when kitchen request persistence is unavailable.
func NewAgentService(
	llm CompletionClient,
	retriever MealRetriever,
	router *RouterService,
	conversations repositories.ConversationRepository,
	preferences repositories.PreferenceRepository,
	kitchenRequests repositories.KitchenRepository,
	logger *log.Logger,
) *AgentService {
	if logger == nil {
		logger = log.New(log.Writer(), "[AGENTS] ", log.LstdFlags)
	}
	return &AgentService{
		llm:             llm,
		retriever:       retriever,
		router:          router,
		conversations:   conversations,
		preferences:     preferences,
		kitchenRequests: kitchenRequests,
		logger:          logger,
	}
}

// NewConversationID mints a conversation id for a user
func NewConversationID(userID string) string {
	return fmt.Sprintf("conv_%s_%s", userID, uuid.NewString())
}

// ProcessMessage runs one turn of the conversation. The user message is
// appended to history before routing; the assistant reply is appended
// only when an agent succeeds.
func (s *AgentService) ProcessMessage(ctx context.Context, userID, conversationID, message string) (*AgentResult, error) {
	if conversationID == "" {
		conversationID = NewConversationID(userID)
	}

	userMsg := models.ChatMessage{
		Role:      models.RoleUser,
		Content:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.conversations.Append(ctx, conversationID, userMsg); err != nil {
		return nil, fmt.Errorf("failed to record user message: %w", err)
	}

	history, err := s.conversations.History(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	agent := s.router.Route(ctx, message, history)
	s.logger.Printf("Routing user=%s conversation=%s to %s", userID, conversationID, agent)

	var result *AgentResult
	switch agent {
	case AgentMealRecommender:
		result, err = s.handleMealRecommendation(ctx, userID, message)
	case AgentFeedbackAnalyzer:
		result, err = s.handleFeedbackAnalysis(ctx, userID, message)
	case AgentKitchenRouter:
		result, err = s.handleKitchenRouting(ctx, userID, message)
	default:
		result, err = s.handlePreferenceLearning(ctx, userID, message, history)
	}
	if err != nil {
		return nil, err
	}

	result.ConversationID = conversationID

	assistantMsg := models.ChatMessage{
		Role:      models.RoleAssistant,
		Content:   result.Message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.conversations.Append(ctx, conversationID, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to record assistant message: %w", err)
	}

	return result, nil
}
