package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
	"github.com/Ali-Dakheel/calo-ai-app/internal/repositories"
)

// ============================================================================
// Mocks
// ============================================================================

type MockVectorRepository struct {
	mock.Mock
}

func (m *MockVectorRepository) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) error {
	args := m.Called(ctx, name, metadata)
	return args.Error(0)
}

func (m *MockVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockVectorRepository) CountCollection(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorRepository) DeleteCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockVectorRepository) StoreMeals(ctx context.Context, collectionName string, docs []*repositories.MealDocument) error {
	args := m.Called(ctx, collectionName, docs)
	return args.Error(0)
}

func (m *MockVectorRepository) SearchMeals(ctx context.Context, collectionName string, queryEmbedding []float32, topK int, filter map[string]interface{}) ([]*repositories.SearchResult, error) {
	args := m.Called(ctx, collectionName, queryEmbedding, topK, filter)
	if hits := args.Get(0); hits != nil {
		return hits.([]*repositories.SearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVectorRepository) GetMeal(ctx context.Context, collectionName string, mealID string) (*repositories.MealDocument, error) {
	args := m.Called(ctx, collectionName, mealID)
	if doc := args.Get(0); doc != nil {
		return doc.(*repositories.MealDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVectorRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ============================================================================
// Test setup
// ============================================================================

func setupTestRAGService(t *testing.T) (*RAGService, *MockCompletionClient, *MockVectorRepository) {
	mockLLM := new(MockCompletionClient)
	mockVector := new(MockVectorRepository)
	meals := NewMealService(filepath.Join(t.TempDir(), "meals.json"), log.New(os.Stdout, "[TEST] ", log.LstdFlags))

	service := NewRAGService(mockLLM, mockVector, meals, "test_meals", log.New(os.Stdout, "[TEST] ", log.LstdFlags))
	return service, mockLLM, mockVector
}

// ============================================================================
// Document rendering
// ============================================================================

func TestMealToDocumentFormat(t *testing.T) {
	meal := models.Meal{
		ID:          "meal_042",
		Name:        "Harissa Chickpea Stew",
		Description: "Slow-simmered chickpeas in spiced tomato broth",
		Category:    models.CategoryDinner,
		DietaryTags: []string{models.TagVegan, models.TagGlutenFree},
		Nutrition: models.NutritionInfo{
			Calories: 390,
			Protein:  18,
			Carbs:    52,
			Fats:     12,
		},
		Ingredients:     []string{"chickpeas", "tomato", "harissa"},
		Allergens:       []string{},
		PreparationTime: 25,
		Price:           11.5,
	}

	doc := MealToDocument(meal)

	assert.Contains(t, doc, "Meal: Harissa Chickpea Stew")
	assert.Contains(t, doc, "Category: dinner")
	assert.Contains(t, doc, "Dietary Tags: vegan, gluten_free")
	assert.Contains(t, doc, "Nutrition: 390 calories, 18g protein, 52g carbs, 12g fat")
	assert.Contains(t, doc, "Ingredients: chickpeas, tomato, harissa")
	assert.Contains(t, doc, "Preparation Time: 25 minutes")
	assert.Contains(t, doc, "Price: $11.50")
}

// ============================================================================
// Preference rendering
// ============================================================================

func TestPreferencesToText(t *testing.T) {
	prefs := models.UserPreferences{
		DietaryRestrictions: []string{models.TagVegan, models.TagGlutenFree},
		FavoriteCuisines:    []string{"thai"},
		CalorieTarget:       1800,
	}

	text := preferencesToText(prefs)

	assert.Equal(t, "dietary needs: vegan, gluten_free; favorite cuisines: thai; target calories: 1800", text)
}

func TestPreferencesToTextEmpty(t *testing.T) {
	text := preferencesToText(models.UserPreferences{})

	assert.Equal(t, "no specific preferences", text)
}

// ============================================================================
// Initialization
// ============================================================================

func TestSearchBeforeInitialize(t *testing.T) {
	service, _, _ := setupTestRAGService(t)

	_, err := service.SearchMeals(context.Background(), "breakfast", "", 5)

	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitializeReusesPopulatedCollection(t *testing.T) {
	service, mockLLM, mockVector := setupTestRAGService(t)
	ctx := context.Background()

	mockVector.On("CollectionExists", mock.Anything, "test_meals").Return(true, nil)
	mockVector.On("CountCollection", mock.Anything, "test_meals").Return(8, nil)

	err := service.Initialize(ctx)

	assert.NoError(t, err)
	assert.True(t, service.Initialized())
	// No embedding or re-indexing happened
	mockLLM.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
	mockVector.AssertNotCalled(t, "StoreMeals", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitializeBuildsIndexFromCatalog(t *testing.T) {
	service, mockLLM, mockVector := setupTestRAGService(t)
	ctx := context.Background()

	mockVector.On("CollectionExists", mock.Anything, "test_meals").Return(false, nil)
	mockVector.On("CreateCollection", mock.Anything, "test_meals", mock.Anything).Return(nil)
	mockLLM.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1, 0.2}, nil)
	mockVector.On("StoreMeals", mock.Anything, "test_meals", mock.MatchedBy(func(docs []*repositories.MealDocument) bool {
		return len(docs) == len(SeedMeals())
	})).Return(nil)

	err := service.Initialize(ctx)

	assert.NoError(t, err)
	assert.True(t, service.Initialized())
	mockVector.AssertExpectations(t)

	// Second call is a no-op
	err = service.Initialize(ctx)
	assert.NoError(t, err)
	mockVector.AssertNumberOfCalls(t, "StoreMeals", 1)
}

// ============================================================================
// Contextual search
// ============================================================================

func TestContextualSearchEnhancesQueryWithPreferences(t *testing.T) {
	service, mockLLM, mockVector := setupTestRAGService(t)
	ctx := context.Background()

	mockVector.On("CollectionExists", mock.Anything, "test_meals").Return(true, nil)
	mockVector.On("CountCollection", mock.Anything, "test_meals").Return(8, nil)
	assert.NoError(t, service.Initialize(ctx))

	expectedQuery := "something light. User preferences: dietary needs: vegan; target calories: 1500"
	mockLLM.On("Embed", mock.Anything, expectedQuery).Return([]float32{0.5}, nil)
	mockVector.On("SearchMeals", mock.Anything, "test_meals", []float32{0.5}, 3, mock.Anything).
		Return([]*repositories.SearchResult{
			{MealID: "meal_005", Text: "Meal: Vegan Buddha Bowl", Distance: 0.2},
		}, nil)

	prefs := models.UserPreferences{
		DietaryRestrictions: []string{models.TagVegan},
		CalorieTarget:       1500,
	}
	hits, explanation, err := service.ContextualSearch(ctx, "something light", prefs, 3)

	assert.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, "meal_005", hits[0].ID)
	assert.InDelta(t, 0.8, hits[0].RelevanceScore, 0.0001)
	// The explanation echoes the original query, not the enhanced one
	assert.Equal(t, "Found 1 meals matching: something light", explanation)
	mockLLM.AssertExpectations(t)
}

func TestContextualSearchWithoutPreferences(t *testing.T) {
	service, mockLLM, mockVector := setupTestRAGService(t)
	ctx := context.Background()

	mockVector.On("CollectionExists", mock.Anything, "test_meals").Return(true, nil)
	mockVector.On("CountCollection", mock.Anything, "test_meals").Return(8, nil)
	assert.NoError(t, service.Initialize(ctx))

	mockLLM.On("Embed", mock.Anything, "pancakes").Return([]float32{0.5}, nil)
	mockVector.On("SearchMeals", mock.Anything, "test_meals", []float32{0.5}, 5, mock.Anything).
		Return([]*repositories.SearchResult{}, nil)

	hits, explanation, err := service.ContextualSearch(ctx, "pancakes", models.UserPreferences{}, 5)

	assert.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, "Found 0 meals matching: pancakes", explanation)
}

// ============================================================================
// Lookup
// ============================================================================

func TestGetMealByIDMiss(t *testing.T) {
	service, _, mockVector := setupTestRAGService(t)
	ctx := context.Background()

	mockVector.On("CollectionExists", mock.Anything, "test_meals").Return(true, nil)
	mockVector.On("CountCollection", mock.Anything, "test_meals").Return(8, nil)
	assert.NoError(t, service.Initialize(ctx))

	mockVector.On("GetMeal", mock.Anything, "test_meals", "meal_999").Return(nil, nil)

	result, err := service.GetMealByID(ctx, "meal_999")

	assert.NoError(t, err)
	assert.Nil(t, result)
}
