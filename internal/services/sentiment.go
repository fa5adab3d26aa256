package services

import (
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// SentimentClassifier scores free-form feedback text
type SentimentClassifier interface {
	Classify(text string) models.SentimentType
}

var positiveWords = map[string]bool{
	"delicious": true, "tasty": true, "great": true, "amazing": true,
	"love": true, "loved": true, "excellent": true, "fresh": true,
	"perfect": true, "good": true, "wonderful": true, "satisfying": true,
	"yummy": true, "awesome": true, "fantastic": true, "best": true,
}

var negativeWords = map[string]bool{
	"bad": true, "awful": true, "terrible": true, "cold": true,
	"soggy": true, "bland": true, "stale": true, "disappointing": true,
	"disappointed": true, "late": true, "wrong": true, "missing": true,
	"horrible": true, "worst": true, "gross": true, "undercooked": true,
	"overcooked": true, "salty": true, "hate": true, "hated": true,
}

// KeywordSentimentClassifier scores text by counting sentiment-bearing
// tokens. Tokenization uses prose so punctuation and contractions don't
// hide matches; when tokenization fails it falls back to whitespace
// splitting.
type KeywordSentimentClassifier struct{}

// NewKeywordSentimentClassifier creates the default classifier
func NewKeywordSentimentClassifier() *KeywordSentimentClassifier {
	return &KeywordSentimentClassifier{}
}

func tokenize(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return strings.Fields(text)
	}

	tokens := doc.Tokens()
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	return words
}

// Classify returns the dominant sentiment of the text
func (c *KeywordSentimentClassifier) Classify(text string) models.SentimentType {
	positives, negatives := 0, 0
	for _, word := range tokenize(strings.ToLower(text)) {
		if positiveWords[word] {
			positives++
		}
		if negativeWords[word] {
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return models.SentimentPositive
	case negatives > positives:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ClassifyWithRating combines a star rating with comment sentiment. The
// rating anchors the result; the comment can only pull a high rating
// down or a low rating up when it clearly disagrees.
func (c *KeywordSentimentClassifier) ClassifyWithRating(rating int, comment string) models.SentimentType {
	textSentiment := c.Classify(comment)

	switch {
	case rating >= 4 && textSentiment != models.SentimentNegative:
		return models.SentimentPositive
	case rating <= 2 || textSentiment == models.SentimentNegative:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

var categoryKeywords = map[models.FeedbackCategory][]string{
	models.CategoryTaste:     {"taste", "flavor", "delicious", "bland", "salty", "spicy", "sweet"},
	models.CategoryPortion:   {"portion", "size", "small", "large", "enough", "filling"},
	models.CategoryDelivery:  {"delivery", "late", "driver", "arrived", "time"},
	models.CategoryPackaging: {"packaging", "package", "container", "spilled", "leaked", "box"},
	models.CategoryNutrition: {"calories", "protein", "healthy", "nutrition", "macros"},
	models.CategoryPrice:     {"price", "expensive", "cheap", "value", "cost"},
	models.CategoryVariety:   {"variety", "menu", "options", "repetitive", "same"},
}

// CategorizeFeedback tags a comment with the topics it touches
func CategorizeFeedback(comment string) []models.FeedbackCategory {
	lower := strings.ToLower(comment)

	categories := make([]models.FeedbackCategory, 0)
	for _, category := range []models.FeedbackCategory{
		models.CategoryTaste,
		models.CategoryPortion,
		models.CategoryDelivery,
		models.CategoryPackaging,
		models.CategoryNutrition,
		models.CategoryPrice,
		models.CategoryVariety,
	} {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				categories = append(categories, category)
				break
			}
		}
	}

	return categories
}
