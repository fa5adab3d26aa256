package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// MealService loads and serves the meal catalog. The catalog is a JSON
// file on disk; when it is missing a seed catalog is written so the
// service works out of the box.
type MealService struct {
	dataPath string
	logger   *log.Logger

	mu    sync.RWMutex
	cache []models.Meal
}

// NewMealService creates a meal catalog service backed by a JSON file
func NewMealService(dataPath string, logger *log.Logger) *MealService {
	if logger == nil {
		logger = log.New(log.Writer(), "[MEALS] ", log.LstdFlags)
	}
	return &MealService{
		dataPath: dataPath,
		logger:   logger,
	}
}

// AllMeals returns the full catalog, loading it on first use
func (s *MealService) AllMeals() ([]models.Meal, error) {
	s.mu.RLock()
	if s.cache != nil {
		meals := make([]models.Meal, len(s.cache))
		copy(meals, s.cache)
		s.mu.RUnlock()
		return meals, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		meals := make([]models.Meal, len(s.cache))
		copy(meals, s.cache)
		return meals, nil
	}

	meals, err := s.loadCatalog()
	if err != nil {
		return nil, err
	}
	s.cache = meals

	out := make([]models.Meal, len(meals))
	copy(out, meals)
	return out, nil
}

func (s *MealService) loadCatalog() ([]models.Meal, error) {
	data, err := os.ReadFile(s.dataPath)
	if os.IsNotExist(err) {
		s.logger.Printf("Catalog file %s not found, writing seed catalog", s.dataPath)
		return s.writeSeedCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read meal catalog: %w", err)
	}

	var meals []models.Meal
	if err := json.Unmarshal(data, &meals); err != nil {
		return nil, fmt.Errorf("failed to parse meal catalog: %w", err)
	}

	s.logger.Printf("Loaded %d meals from %s", len(meals), s.dataPath)
	return meals, nil
}

func (s *MealService) writeSeedCatalog() ([]models.Meal, error) {
	meals := SeedMeals()

	data, err := json.MarshalIndent(meals, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seed catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.dataPath), 0o755); err != nil {
		s.logger.Printf("Could not create catalog directory: %v", err)
		return meals, nil
	}
	if err := os.WriteFile(s.dataPath, data, 0o644); err != nil {
		// Seed data still serves from memory if the write fails
		s.logger.Printf("Could not write seed catalog: %v", err)
	}

	return meals, nil
}

// MealByID returns a meal by id. A miss is (nil, nil).
func (s *MealService) MealByID(mealID string) (*models.Meal, error) {
	meals, err := s.AllMeals()
	if err != nil {
		return nil, err
	}

	for i := range meals {
		if meals[i].ID == mealID {
			meal := meals[i]
			return &meal, nil
		}
	}

	return nil, nil
}

// MealFilter narrows catalog queries
type MealFilter struct {
	Category         string
	DietaryTags      []string
	MaxCalories      int
	MinProtein       float64
	ExcludeAllergens []string
}

// FilterMeals returns catalog meals matching every criterion in the filter
func (s *MealService) FilterMeals(filter MealFilter) ([]models.Meal, error) {
	meals, err := s.AllMeals()
	if err != nil {
		return nil, err
	}

	matched := make([]models.Meal, 0)
	for _, meal := range meals {
		if filter.Category != "" && meal.Category != filter.Category {
			continue
		}
		if filter.MaxCalories > 0 && meal.Nutrition.Calories > filter.MaxCalories {
			continue
		}
		if filter.MinProtein > 0 && meal.Nutrition.Protein < filter.MinProtein {
			continue
		}
		if !hasAllTags(meal.DietaryTags, filter.DietaryTags) {
			continue
		}
		if hasAnyAllergen(meal.Allergens, filter.ExcludeAllergens) {
			continue
		}
		matched = append(matched, meal)
	}

	return matched, nil
}

func hasAllTags(mealTags, wanted []string) bool {
	for _, tag := range wanted {
		found := false
		for _, mt := range mealTags {
			if strings.EqualFold(mt, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasAnyAllergen(mealAllergens, excluded []string) bool {
	for _, ex := range excluded {
		for _, al := range mealAllergens {
			if strings.EqualFold(al, ex) {
				return true
			}
		}
	}
	return false
}

// PopularMeals returns the top meals by popularity score
func (s *MealService) PopularMeals(limit int) ([]models.Meal, error) {
	meals, err := s.AllMeals()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].PopularityScore > meals[j].PopularityScore
	})

	if limit > 0 && limit < len(meals) {
		meals = meals[:limit]
	}
	return meals, nil
}

// MealScore rates how well a meal fits the user's preferences, 0..1.
// Each available factor contributes equally.
func MealScore(meal models.Meal, prefs models.UserPreferences) float64 {
	var total float64
	var factors int

	if len(prefs.DietaryRestrictions) > 0 {
		matched := 0
		for _, restriction := range prefs.DietaryRestrictions {
			normalized := strings.ReplaceAll(strings.ToLower(restriction), " ", "_")
			for _, tag := range meal.DietaryTags {
				if strings.EqualFold(tag, normalized) {
					matched++
					break
				}
			}
		}
		total += float64(matched) / float64(len(prefs.DietaryRestrictions))
		factors++
	}

	if prefs.CalorieTarget > 0 {
		diff := math.Abs(float64(meal.Nutrition.Calories - prefs.CalorieTarget))
		closeness := 1.0 - diff/float64(prefs.CalorieTarget)
		if closeness < 0 {
			closeness = 0
		}
		total += closeness
		factors++
	}

	total += meal.PopularityScore
	factors++

	return total / float64(factors)
}

// GenerateMealPlan builds a multi-day plan from the catalog, scored
// against the user's preferences. Categories rotate through breakfast,
// lunch, and dinner for each day.
func (s *MealService) GenerateMealPlan(req models.MealPlanRequest) (map[string][]models.MealRecommendation, error) {
	days := req.Days
	if days <= 0 {
		days = 1
	}
	mealsPerDay := req.MealsPerDay
	if mealsPerDay <= 0 || mealsPerDay > 3 {
		mealsPerDay = 3
	}

	categories := []string{models.CategoryBreakfast, models.CategoryLunch, models.CategoryDinner}

	plan := make(map[string][]models.MealRecommendation, days)
	used := make(map[string]bool)

	for day := 1; day <= days; day++ {
		dayKey := fmt.Sprintf("day_%d", day)
		dayMeals := make([]models.MealRecommendation, 0, mealsPerDay)

		for slot := 0; slot < mealsPerDay; slot++ {
			candidates, err := s.FilterMeals(MealFilter{Category: categories[slot%len(categories)]})
			if err != nil {
				return nil, err
			}

			best := pickBestMeal(candidates, req.Preferences, used)
			if best == nil {
				continue
			}

			used[best.ID] = true
			dayMeals = append(dayMeals, models.MealRecommendation{
				Meal:           best,
				RelevanceScore: MealScore(*best, req.Preferences),
				Reasoning:      fmt.Sprintf("Best %s match for your preferences", best.Category),
			})
		}

		plan[dayKey] = dayMeals
	}

	return plan, nil
}

func pickBestMeal(candidates []models.Meal, prefs models.UserPreferences, used map[string]bool) *models.Meal {
	var best *models.Meal
	bestScore := -1.0

	for i := range candidates {
		if used[candidates[i].ID] {
			continue
		}
		score := MealScore(candidates[i], prefs)
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	// Allow repeats once every unused candidate is exhausted
	if best == nil {
		for i := range candidates {
			score := MealScore(candidates[i], prefs)
			if score > bestScore {
				bestScore = score
				best = &candidates[i]
			}
		}
	}

	return best
}
