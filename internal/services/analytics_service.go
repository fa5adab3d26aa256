package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
)

// AnalyticsService aggregates stored feedback into operational summaries
type AnalyticsService struct {
	feedback repositories.FeedbackRepository
	logger   *log.Logger
}

// NewAnalyticsService creates a feedback analytics service
func NewAnalyticsService(feedback repositories.FeedbackRepository, logger *log.Logger) *AnalyticsService {
	if logger == nil {
		logger = log.New(log.Writer(), "[ANALYTICS] ", log.LstdFlags)
	}
	return &AnalyticsService{
		feedback: feedback,
		logger:   logger,
	}
}

// Summary aggregates feedback over the last N days, optionally scoped to
// one meal
func (s *AnalyticsService) Summary(ctx context.Context, days int, mealID string) (*models.AnalyticsSummary, error) {
	if days <= 0 {
		days = 7
	}

	entries, err := s.recentFeedback(ctx, days, mealID)
	if err != nil {
		return nil, err
	}

	summary := &models.AnalyticsSummary{
		SentimentBreakdown: make(map[models.SentimentType]int),
		TimePeriod:         fmt.Sprintf("last_%d_days", days),
	}

	if len(entries) == 0 {
		return summary, nil
	}

	ratingTotal := 0
	for _, fb := range entries {
		summary.TotalFeedback++
		ratingTotal += fb.Rating
		summary.SentimentBreakdown[fb.Sentiment]++
	}
	summary.AverageRating = float64(ratingTotal) / float64(len(entries))

	summary.TopComplaints = topThemes(ctx, s, entries, models.SentimentNegative)
	summary.TopPraises = topThemes(ctx, s, entries, models.SentimentPositive)
	summary.PopularMeals = popularMealsFromFeedback(entries)
	summary.ActionItems = generateActionItems(summary)

	return summary, nil
}

func (s *AnalyticsService) recentFeedback(ctx context.Context, days int, mealID string) ([]*models.CustomerFeedback, error) {
	all, err := s.feedback.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	entries := make([]*models.CustomerFeedback, 0, len(all))
	for _, fb := range all {
		if fb.Timestamp.Before(cutoff) {
			continue
		}
		if mealID != "" && fb.MealID != mealID {
			continue
		}
		entries = append(entries, fb)
	}

	return entries, nil
}

// topThemes collects analysis themes from feedback of one sentiment,
// ordered by frequency
func topThemes(ctx context.Context, s *AnalyticsService, entries []*models.CustomerFeedback, sentiment models.SentimentType) []string {
	counts := make(map[string]int)
	for _, fb := range entries {
		if fb.Sentiment != sentiment {
			continue
		}

		analysis, err := s.feedback.GetAnalysis(ctx, fb.ID)
		if err != nil || analysis == nil {
			continue
		}
		for _, theme := range analysis.KeyThemes {
			counts[theme]++
		}
	}

	return rankByCount(counts, 5)
}

func rankByCount(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// popularMealsFromFeedback ranks meals by positive feedback volume
func popularMealsFromFeedback(entries []*models.CustomerFeedback) []string {
	counts := make(map[string]int)
	for _, fb := range entries {
		if fb.MealID == "" {
			continue
		}
		if fb.Sentiment == models.SentimentPositive || fb.Rating >= 4 {
			counts[fb.MealID]++
		}
	}
	return rankByCount(counts, 5)
}

// generateActionItems derives follow-ups from a computed summary
func generateActionItems(summary *models.AnalyticsSummary) []string {
	items := make([]string, 0)

	negatives := summary.SentimentBreakdown[models.SentimentNegative]
	if summary.TotalFeedback > 0 {
		rate := float64(negatives) / float64(summary.TotalFeedback)
		if rate > 0.3 {
			items = append(items, fmt.Sprintf("Negative feedback rate is %.0f%%, investigate recent complaints", rate*100))
		}
	}

	if summary.AverageRating > 0 && summary.AverageRating < 3.5 {
		items = append(items, fmt.Sprintf("Average rating dropped to %.1f, review kitchen quality checks", summary.AverageRating))
	}

	for _, complaint := range summary.TopComplaints {
		items = append(items, "Address recurring complaint: "+complaint)
		if len(items) >= 5 {
			break
		}
	}

	return items
}

// Trends returns per-day feedback statistics for the last N days, oldest
// day first. Days without feedback still appear with zero counts.
func (s *AnalyticsService) Trends(ctx context.Context, days int) ([]models.DailyTrend, error) {
	if days <= 0 {
		days = 7
	}

	entries, err := s.recentFeedback(ctx, days, "")
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*models.CustomerFeedback)
	for _, fb := range entries {
		day := fb.Timestamp.UTC().Format("2006-01-02")
		byDay[day] = append(byDay[day], fb)
	}

	trends := make([]models.DailyTrend, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := time.Now().UTC().AddDate(0, 0, -i).Format("2006-01-02")
		dayEntries := byDay[day]

		trend := models.DailyTrend{
			Date:                  day,
			Count:                 len(dayEntries),
			SentimentDistribution: make(map[string]int),
		}

		ratingTotal := 0
		for _, fb := range dayEntries {
			ratingTotal += fb.Rating
			trend.SentimentDistribution[string(fb.Sentiment)]++
		}
		if len(dayEntries) > 0 {
			trend.AverageRating = float64(ratingTotal) / float64(len(dayEntries))
		}

		trends = append(trends, trend)
	}

	return trends, nil
}
