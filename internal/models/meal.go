package models

// MealCategory values
const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
	CategorySnack     = "snack"
)

// Dietary tags used across the catalog
const (
	TagVegetarian  = "vegetarian"
	TagVegan       = "vegan"
	TagGlutenFree  = "gluten_free"
	TagDairyFree   = "dairy_free"
	TagKeto        = "keto"
	TagLowCarb     = "low_carb"
	TagHighProtein = "high_protein"
	TagHalal       = "halal"
)

// NutritionInfo holds per-meal nutrition facts. Fiber and sodium are
// optional in the catalog source.
type NutritionInfo struct {
	Calories int      `json:"calories"`
	Protein  float64  `json:"protein"` // grams
	Carbs    float64  `json:"carbs"`   // grams
	Fats     float64  `json:"fats"`    // grams
	Fiber    *float64 `json:"fiber,omitempty"`
	Sodium   *float64 `json:"sodium,omitempty"`
}

// Meal is an immutable catalog item
type Meal struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	DietaryTags     []string      `json:"dietary_tags"`
	Nutrition       NutritionInfo `json:"nutrition"`
	Ingredients     []string      `json:"ingredients"`
	Allergens       []string      `json:"allergens"`
	PreparationTime int           `json:"preparation_time"` // minutes
	Price           float64       `json:"price"`
	ImageURL        string        `json:"image_url,omitempty"`
	PopularityScore float64       `json:"popularity_score"` // 0..1
}

// MealRecommendation pairs a meal with the reasoning behind recommending it
type MealRecommendation struct {
	Meal               *Meal    `json:"meal"`
	RelevanceScore     float64  `json:"relevance_score"`
	Reasoning          string   `json:"reasoning"`
	MatchesPreferences []string `json:"matches_preferences"`
}

// RecommendationRequest is the direct (non-conversational) recommendation query
type RecommendationRequest struct {
	UserID              string   `json:"user_id"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	CalorieTarget       int      `json:"calorie_target,omitempty"`
	MealCategory        string   `json:"meal_category,omitempty"`
	ExcludeIngredients  []string `json:"exclude_ingredients,omitempty"`
	MaxResults          int      `json:"max_results,omitempty"`
}

// RecommendationResponse carries scored recommendations back to the caller
type RecommendationResponse struct {
	Recommendations    []MealRecommendation `json:"recommendations"`
	TotalFound         int                  `json:"total_found"`
	QueryUnderstanding string               `json:"query_understanding"`
}

// MealPlanRequest asks for a multi-day plan built from the catalog
type MealPlanRequest struct {
	UserID      string          `json:"user_id"`
	Preferences UserPreferences `json:"preferences"`
	Days        int             `json:"days,omitempty"`
	MealsPerDay int             `json:"meals_per_day,omitempty"`
}
