package services

import (
	"fmt"
	"strings"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// System prompts for each agent persona. Kept in one place so tone and
// policy changes don't require touching agent logic.
const (
	ConversationRouterSystem = `You are a conversation router for a meal delivery service.
Classify the user's message into exactly one category:
- PREFERENCE_LEARNER: the user shares dietary preferences, restrictions, or goals
- MEAL_RECOMMENDER: the user asks for meal suggestions or recommendations
- FEEDBACK_ANALYZER: the user gives feedback about a meal they received
- KITCHEN_ROUTER: the user makes a special request for the kitchen (customization, allergy handling, delivery notes)
Respond with ONLY the category name, nothing else.`

	PreferenceLearnerSystem = `You are a friendly nutrition assistant for a meal delivery service.
The user is sharing their dietary preferences or goals. Acknowledge what you learned,
confirm it back to them warmly, and ask ONE follow-up question at a time to learn more.
Keep replies short and conversational.`

	MealRecommenderSystem = `You are a meal recommendation assistant for a meal delivery service.
Recommend meals ONLY from the candidate list provided. For each suggestion give the meal
name and a one-line reason it fits the user. Be concise and appetizing.`

	FeedbackAnalyzerSystem = `You are a customer feedback analyst for a meal delivery service.
Analyze the customer's feedback about their meal. Identify sentiment, key themes,
and actionable insights for the kitchen and operations teams.`

	KitchenRouterSystem = `You are an operations assistant for a meal delivery service.
Determine whether the user's message contains a request that the kitchen team must act on,
such as meal customizations, allergy accommodations, or special preparation instructions.`
)

// routingHistoryWindow is how many trailing messages inform routing
const routingHistoryWindow = 5

// routingMessageTruncate caps each history line included in the routing prompt
const routingMessageTruncate = 100

// BuildRoutingPrompt formats a message plus recent history for classification
func BuildRoutingPrompt(message string, history []models.ChatMessage) string {
	var sb strings.Builder

	if len(history) > 0 {
		start := len(history) - routingHistoryWindow
		if start < 0 {
			start = 0
		}
		sb.WriteString("Recent conversation:\n")
		for _, msg := range history[start:] {
			content := msg.Content
			if len(content) > routingMessageTruncate {
				content = content[:routingMessageTruncate]
			}
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Classify this message: %s", message)
	return sb.String()
}

// BuildPreferencePrompt formats a preference-sharing message with context
func BuildPreferencePrompt(message string, history []models.ChatMessage) string {
	var sb strings.Builder

	if len(history) > 0 {
		start := len(history) - routingHistoryWindow
		if start < 0 {
			start = 0
		}
		sb.WriteString("Conversation so far:\n")
		for _, msg := range history[start:] {
			fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "User message: %s\n\n", message)
	sb.WriteString("Continue the conversation naturally. Ask ONE follow-up question to learn more about their preferences.")
	return sb.String()
}

// recommendationDescriptionTruncate caps per-meal descriptions in the prompt
const recommendationDescriptionTruncate = 200

// BuildRecommendationPrompt formats retrieved meal candidates for the model
func BuildRecommendationPrompt(message string, prefs models.UserPreferences, meals []*MealSearchResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "User request: %s\n\n", message)

	if !prefs.IsEmpty() {
		fmt.Fprintf(&sb, "Known preferences: %s\n\n", preferencesToText(prefs))
	}

	sb.WriteString("Candidate meals:\n")
	for i, meal := range meals {
		name := metadataString(meal.Metadata, "name")
		if name == "" {
			name = meal.ID
		}
		desc := meal.Document
		if len(desc) > recommendationDescriptionTruncate {
			desc = desc[:recommendationDescriptionTruncate]
		}
		fmt.Fprintf(&sb, "%d. %s (id: %s)\n", i+1, name, meal.ID)
		fmt.Fprintf(&sb, "   Category: %s\n", metadataString(meal.Metadata, "category"))
		fmt.Fprintf(&sb, "   Calories: %s\n", metadataString(meal.Metadata, "calories"))
		fmt.Fprintf(&sb, "   Protein: %sg\n", metadataString(meal.Metadata, "protein"))
		fmt.Fprintf(&sb, "   Tags: %s\n", metadataTags(meal.Metadata))
		fmt.Fprintf(&sb, "   Description: %s\n", desc)
	}

	sb.WriteString("\nRecommend the best matches from the candidates above.")
	return sb.String()
}

func metadataString(metadata map[string]interface{}, key string) string {
	value, _ := metadata[key].(string)
	return value
}

// metadataTags tolerates both the typed slice used when indexing and the
// untyped slice the vector store hands back
func metadataTags(metadata map[string]interface{}) string {
	switch tags := metadata["dietary_tags"].(type) {
	case []string:
		return strings.Join(tags, ", ")
	case []interface{}:
		parts := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case string:
		return tags
	default:
		return ""
	}
}

// BuildFeedbackAnalysisPrompt formats feedback text for structured analysis
func BuildFeedbackAnalysisPrompt(message string) string {
	return fmt.Sprintf("Customer feedback: %s\n\nAnalyze this feedback.", message)
}

// BuildKitchenRoutingPrompt formats a message for kitchen-action detection
func BuildKitchenRoutingPrompt(message string) string {
	return fmt.Sprintf("Customer message: %s\n\nDoes this require kitchen action?", message)
}
