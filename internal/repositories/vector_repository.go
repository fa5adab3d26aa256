package repositories

import (
	"context"
)

// VectorRepository abstracts the vector database operations the meal index
// needs. Keeping it narrow makes the ChromaDB implementation swappable and
// the RAG layer testable with mocks.
type VectorRepository interface {
	// Collection management
	CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	CountCollection(ctx context.Context, name string) (int, error)
	DeleteCollection(ctx context.Context, name string) error

	// Document operations
	StoreMeals(ctx context.Context, collectionName string, docs []*MealDocument) error
	SearchMeals(ctx context.Context, collectionName string, queryEmbedding []float32, topK int, filter map[string]interface{}) ([]*SearchResult, error)
	// GetMeal returns (nil, nil) when the id is not indexed
	GetMeal(ctx context.Context, collectionName string, mealID string) (*MealDocument, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// MealDocument is the embeddable projection of a catalog meal
type MealDocument struct {
	ID        string                 `json:"id"`
	Text      string                 `json:"text"`
	Embedding []float32              `json:"embedding,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// SearchResult is a single hit from vector similarity search
type SearchResult struct {
	MealID   string                 `json:"meal_id"`
	Text     string                 `json:"text"`
	Score    float32                `json:"score"` // 1 - distance, higher is better
	Distance float32                `json:"distance"`
	Metadata map[string]interface{} `json:"metadata"`
}

// VectorRepositoryError represents errors from the vector repository
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// CollectionNotFoundError signals a search or store against a missing collection
func CollectionNotFoundError(name string) error {
	return NewVectorRepositoryError("get_collection", nil, "collection not found: "+name)
}
