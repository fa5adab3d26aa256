package services

import (
	"context"
	"strings"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// feedbackAnalysisSchema is the JSON shape requested from the model
var feedbackAnalysisSchema = map[string]string{
	"sentiment":           "positive, neutral, or negative",
	"sentiment_score":     "number between 0 and 1",
	"key_themes":          "array of short theme strings",
	"actionable_insights": "array of concrete improvement suggestions",
	"requires_attention":  "boolean, true if a human should follow up",
	"suggested_response":  "short reply draft for the customer",
}

// AnalysisFromMap converts parsed model output into a typed analysis.
// Missing or oddly typed fields take neutral defaults; the score is
// clamped to [0, 1].
func AnalysisFromMap(feedbackID string, data map[string]interface{}) *models.FeedbackAnalysis {
	analysis := &models.FeedbackAnalysis{
		FeedbackID:     feedbackID,
		Sentiment:      models.SentimentNeutral,
		SentimentScore: 0.5,
	}

	if raw, ok := data["sentiment"].(string); ok {
		switch models.SentimentType(strings.ToLower(strings.TrimSpace(raw))) {
		case models.SentimentPositive:
			analysis.Sentiment = models.SentimentPositive
		case models.SentimentNegative:
			analysis.Sentiment = models.SentimentNegative
		case models.SentimentNeutral:
			analysis.Sentiment = models.SentimentNeutral
		}
	}

	if score, ok := data["sentiment_score"].(float64); ok {
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		analysis.SentimentScore = score
	}

	analysis.KeyThemes = stringSlice(data["key_themes"])
	analysis.ActionableInsights = stringSlice(data["actionable_insights"])

	if attention, ok := data["requires_attention"].(bool); ok {
		analysis.RequiresAttention = attention
	}
	if response, ok := data["suggested_response"].(string); ok {
		analysis.SuggestedResponse = response
	}

	return analysis
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// handleFeedbackAnalysis analyzes feedback inline and thanks the
// customer. Analysis failures degrade to a plain acknowledgment rather
// than erroring: the customer's feedback got through either way.
func (s *AgentService) handleFeedbackAnalysis(ctx context.Context, userID, message string) (*AgentResult, error) {
	data, err := s.llm.CompleteStructured(ctx, StructuredRequest{
		Prompt:       BuildFeedbackAnalysisPrompt(message),
		SystemPrompt: FeedbackAnalyzerSystem,
		Schema:       feedbackAnalysisSchema,
	})
	if err != nil {
		s.logger.Printf("Feedback analysis failed for user %s: %v", userID, err)
		return &AgentResult{
			Message:    "Thank you for your feedback! We've recorded it and our team will review it shortly.",
			AgentUsed:  AgentFeedbackAnalyzer,
			Confidence: 0.7,
		}, nil
	}

	analysis := AnalysisFromMap("", data)

	reply := "Thank you for your feedback! We're glad to hear from you and will use this to keep improving."
	if analysis.Sentiment == models.SentimentNegative {
		reply = "Thank you for your feedback. We're sorry your experience fell short, and our team will look into this right away."
	}

	return &AgentResult{
		Message:    reply,
		AgentUsed:  AgentFeedbackAnalyzer,
		Confidence: 0.9,
		Analysis:   data,
	}, nil
}
