package models

import "time"

// SentimentType classifies feedback tone
type SentimentType string

const (
	SentimentPositive SentimentType = "positive"
	SentimentNeutral  SentimentType = "neutral"
	SentimentNegative SentimentType = "negative"
)

// FeedbackCategory groups feedback by topic
type FeedbackCategory string

const (
	CategoryTaste         FeedbackCategory = "taste"
	CategoryPortion       FeedbackCategory = "portion"
	CategoryDelivery      FeedbackCategory = "delivery"
	CategoryPackaging     FeedbackCategory = "packaging"
	CategoryNutrition     FeedbackCategory = "nutrition"
	CategoryPrice         FeedbackCategory = "price"
	CategoryVariety       FeedbackCategory = "variety"
	CategoryCustomRequest FeedbackCategory = "custom_request"
)

// Analysis lifecycle for a piece of feedback
type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "pending"
	AnalysisCompleted AnalysisStatus = "completed"
	AnalysisFailed    AnalysisStatus = "failed"
)

// CustomerFeedback is a submitted feedback record. Sentiment and categories
// come from the quick keyword pass at intake; the deep analysis is attached
// asynchronously.
type CustomerFeedback struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	MealID         string             `json:"meal_id,omitempty"`
	Rating         int                `json:"rating"` // 1-5
	Comment        string             `json:"comment"`
	Sentiment      SentimentType      `json:"sentiment"`
	Categories     []FeedbackCategory `json:"categories"`
	Timestamp      time.Time          `json:"timestamp"`
	AnalysisStatus AnalysisStatus     `json:"analysis_status"`
	AnalysisError  string             `json:"analysis_error,omitempty"`
}

// FeedbackAnalysis is the LLM-derived analysis of one feedback record
type FeedbackAnalysis struct {
	FeedbackID         string        `json:"feedback_id"`
	Sentiment          SentimentType `json:"sentiment"`
	SentimentScore     float64       `json:"sentiment_score"` // 0..1
	KeyThemes          []string      `json:"key_themes"`
	ActionableInsights []string      `json:"actionable_insights"`
	RequiresAttention  bool          `json:"requires_attention"`
	SuggestedResponse  string        `json:"suggested_response,omitempty"`
}

// Kitchen request lifecycle states
const (
	KitchenStatusPending    = "pending"
	KitchenStatusInProgress = "in_progress"
	KitchenStatusCompleted  = "completed"
	KitchenStatusCancelled  = "cancelled"
)

// KitchenRequest is a special request routed to the kitchen team
type KitchenRequest struct {
	RequestID       string                 `json:"request_id"`
	UserID          string                 `json:"user_id"`
	OriginalMessage string                 `json:"original_message"`
	RequestType     string                 `json:"request_type"`
	Details         map[string]interface{} `json:"details"`
	Priority        int                    `json:"priority"` // 1-5
	Status          string                 `json:"status"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// AnalyticsSummary aggregates feedback over a time window
type AnalyticsSummary struct {
	TotalFeedback      int                   `json:"total_feedback"`
	AverageRating      float64               `json:"average_rating"`
	SentimentBreakdown map[SentimentType]int `json:"sentiment_breakdown"`
	TopComplaints      []string              `json:"top_complaints"`
	TopPraises         []string              `json:"top_praises"`
	PopularMeals       []string              `json:"popular_meals"`
	ActionItems        []string              `json:"action_items"`
	TimePeriod         string                `json:"time_period"`
}

// DailyTrend is one day's worth of feedback statistics
type DailyTrend struct {
	Date                  string         `json:"date"`
	Count                 int            `json:"count"`
	AverageRating         float64        `json:"average_rating"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
}
