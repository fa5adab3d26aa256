package services

import "github.com/Ali-Dakheel/calo-ai-app/internal/models"

func floatPtr(v float64) *float64 { return &v }

// SeedMeals returns the built-in starter catalog. Served when no catalog
// file exists so a fresh install has something to recommend.
func SeedMeals() []models.Meal {
	return []models.Meal{
		{
			ID:          "meal_001",
			Name:        "Grilled Chicken Quinoa Bowl",
			Description: "Tender grilled chicken breast served over fluffy quinoa with roasted vegetables and tahini dressing",
			Category:    models.CategoryLunch,
			DietaryTags: []string{models.TagHighProtein, models.TagGlutenFree, models.TagHalal},
			Nutrition: models.NutritionInfo{
				Calories: 450, Protein: 35, Carbs: 45, Fats: 12,
				Fiber: floatPtr(8), Sodium: floatPtr(520),
			},
			Ingredients:     []string{"chicken breast", "quinoa", "bell peppers", "zucchini", "tahini", "lemon", "garlic"},
			Allergens:       []string{"sesame"},
			PreparationTime: 25,
			Price:           12.99,
			PopularityScore: 0.92,
		},
		{
			ID:          "meal_002",
			Name:        "Mediterranean Falafel Wrap",
			Description: "Crispy baked falafel with fresh vegetables, hummus, and cucumber yogurt sauce in whole wheat wrap",
			Category:    models.CategoryLunch,
			DietaryTags: []string{models.TagVegetarian, models.TagHighProtein},
			Nutrition: models.NutritionInfo{
				Calories: 420, Protein: 18, Carbs: 52, Fats: 16,
				Fiber: floatPtr(12), Sodium: floatPtr(480),
			},
			Ingredients:     []string{"chickpeas", "whole wheat wrap", "cucumber", "tomato", "lettuce", "hummus", "yogurt"},
			Allergens:       []string{"gluten", "dairy"},
			PreparationTime: 20,
			Price:           10.99,
			PopularityScore: 0.88,
		},
		{
			ID:          "meal_003",
			Name:        "Salmon Teriyaki with Brown Rice",
			Description: "Pan-seared salmon glazed with homemade teriyaki sauce, served with steamed brown rice and edamame",
			Category:    models.CategoryDinner,
			DietaryTags: []string{models.TagHighProtein, models.TagDairyFree},
			Nutrition: models.NutritionInfo{
				Calories: 520, Protein: 38, Carbs: 48, Fats: 18,
				Fiber: floatPtr(6), Sodium: floatPtr(620),
			},
			Ingredients:     []string{"salmon", "brown rice", "edamame", "soy sauce", "ginger", "garlic", "honey"},
			Allergens:       []string{"fish", "soy"},
			PreparationTime: 30,
			Price:           15.99,
			PopularityScore: 0.95,
		},
		{
			ID:          "meal_004",
			Name:        "Keto Beef and Veggie Stir Fry",
			Description: "Tender beef strips with low-carb vegetables in savory sauce, served over cauliflower rice",
			Category:    models.CategoryDinner,
			DietaryTags: []string{models.TagKeto, models.TagLowCarb, models.TagHighProtein, models.TagGlutenFree, models.TagHalal},
			Nutrition: models.NutritionInfo{
				Calories: 380, Protein: 32, Carbs: 12, Fats: 24,
				Fiber: floatPtr(4), Sodium: floatPtr(540),
			},
			Ingredients:     []string{"beef sirloin", "cauliflower", "broccoli", "bell peppers", "coconut aminos", "sesame oil"},
			Allergens:       []string{},
			PreparationTime: 25,
			Price:           14.99,
			PopularityScore: 0.85,
		},
		{
			ID:          "meal_005",
			Name:        "Vegan Buddha Bowl",
			Description: "Colorful bowl with roasted chickpeas, sweet potato, kale, quinoa, and creamy tahini dressing",
			Category:    models.CategoryLunch,
			DietaryTags: []string{models.TagVegan, models.TagGlutenFree, models.TagHighProtein},
			Nutrition: models.NutritionInfo{
				Calories: 410, Protein: 16, Carbs: 58, Fats: 14,
				Fiber: floatPtr(14), Sodium: floatPtr(420),
			},
			Ingredients:     []string{"chickpeas", "sweet potato", "kale", "quinoa", "tahini", "lemon", "olive oil"},
			Allergens:       []string{"sesame"},
			PreparationTime: 30,
			Price:           11.99,
			PopularityScore: 0.90,
		},
		{
			ID:          "meal_006",
			Name:        "Protein Oat Pancakes",
			Description: "Fluffy oat pancakes with whey protein, topped with fresh berries and a drizzle of honey",
			Category:    models.CategoryBreakfast,
			DietaryTags: []string{models.TagVegetarian, models.TagHighProtein},
			Nutrition: models.NutritionInfo{
				Calories: 390, Protein: 28, Carbs: 46, Fats: 10,
				Fiber: floatPtr(6), Sodium: floatPtr(310),
			},
			Ingredients:     []string{"oats", "whey protein", "eggs", "milk", "blueberries", "strawberries", "honey"},
			Allergens:       []string{"gluten", "dairy", "eggs"},
			PreparationTime: 15,
			Price:           8.99,
			PopularityScore: 0.87,
		},
		{
			ID:          "meal_007",
			Name:        "Shakshuka with Whole Grain Pita",
			Description: "Eggs poached in spiced tomato and pepper sauce, served with warm whole grain pita",
			Category:    models.CategoryBreakfast,
			DietaryTags: []string{models.TagVegetarian, models.TagHalal},
			Nutrition: models.NutritionInfo{
				Calories: 360, Protein: 17, Carbs: 38, Fats: 15,
				Fiber: floatPtr(7), Sodium: floatPtr(560),
			},
			Ingredients:     []string{"eggs", "tomatoes", "bell peppers", "onion", "cumin", "paprika", "pita bread"},
			Allergens:       []string{"gluten", "eggs"},
			PreparationTime: 20,
			Price:           9.49,
			PopularityScore: 0.83,
		},
		{
			ID:          "meal_008",
			Name:        "Almond Date Energy Bites",
			Description: "No-bake bites of dates, almonds, and cocoa, rolled in shredded coconut",
			Category:    models.CategorySnack,
			DietaryTags: []string{models.TagVegan, models.TagGlutenFree, models.TagDairyFree},
			Nutrition: models.NutritionInfo{
				Calories: 210, Protein: 6, Carbs: 26, Fats: 10,
				Fiber: floatPtr(4), Sodium: floatPtr(15),
			},
			Ingredients:     []string{"dates", "almonds", "cocoa powder", "coconut", "chia seeds"},
			Allergens:       []string{"tree nuts"},
			PreparationTime: 10,
			Price:           5.99,
			PopularityScore: 0.78,
		},
	}
}
