package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// kitchenRoutingSchema is the JSON shape requested from the model
var kitchenRoutingSchema = map[string]string{
	"requires_kitchen_action": "boolean, true if the kitchen must act on this",
	"request_type":            "customization, allergy, preparation, or other",
	"details":                 "object with the specifics the kitchen needs",
	"summary":                 "one-line summary of the request",
}

const (
	kitchenConfirmReply = "I've forwarded your request to our kitchen team. " +
		"They'll review it and get back to you within 24 hours."
	kitchenNoActionReply = "I've noted your message. Is there anything specific you'd like " +
		"our kitchen team to help with, like a customization or allergy accommodation?"
	kitchenDegradedReply = "I've passed your request along to our kitchen team for review."
)

// handleKitchenRouting decides whether a message needs kitchen action
// and records a request when it does. Analysis failures degrade to a
// generic acknowledgment that conservatively assumes action is needed.
func (s *AgentService) handleKitchenRouting(ctx context.Context, userID, message string) (*AgentResult, error) {
	data, err := s.llm.CompleteStructured(ctx, StructuredRequest{
		Prompt:       BuildKitchenRoutingPrompt(message),
		SystemPrompt: KitchenRouterSystem,
		Schema:       kitchenRoutingSchema,
	})
	if err != nil {
		s.logger.Printf("Kitchen routing failed for user %s: %v", userID, err)
		return &AgentResult{
			Message:               kitchenDegradedReply,
			AgentUsed:             AgentKitchenRouter,
			Confidence:            0.7,
			RequiresKitchenAction: true,
		}, nil
	}

	requiresAction, _ := data["requires_kitchen_action"].(bool)
	if !requiresAction {
		return &AgentResult{
			Message:    kitchenNoActionReply,
			AgentUsed:  AgentKitchenRouter,
			Confidence: 0.85,
			Analysis:   data,
		}, nil
	}

	if s.kitchenRequests != nil {
		request := kitchenRequestFromAnalysis(userID, message, data)
		if err := s.kitchenRequests.Create(ctx, request); err != nil {
			// The customer still gets their confirmation
			s.logger.Printf("Failed to store kitchen request for user %s: %v", userID, err)
		}
	}

	return &AgentResult{
		Message:               kitchenConfirmReply,
		AgentUsed:             AgentKitchenRouter,
		Confidence:            0.85,
		RequiresKitchenAction: true,
		Analysis:              data,
	}, nil
}

func kitchenRequestFromAnalysis(userID, message string, data map[string]interface{}) *models.KitchenRequest {
	requestType, _ := data["request_type"].(string)
	if requestType == "" {
		requestType = "other"
	}

	details, _ := data["details"].(map[string]interface{})

	return &models.KitchenRequest{
		RequestID:       "kreq_" + uuid.NewString(),
		UserID:          userID,
		OriginalMessage: message,
		RequestType:     requestType,
		Details:         details,
		Priority:        3,
		Status:          models.KitchenStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
}
