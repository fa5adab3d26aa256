package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ali-Dakheel/calo-ai-app/internal/db"
)

// ChromaVectorRepository implements VectorRepository using ChromaDB
type ChromaVectorRepository struct {
	client *db.ChromaDBClient
}

// NewChromaVectorRepository creates a new ChromaDB-backed vector repository
func NewChromaVectorRepository(client *db.ChromaDBClient) VectorRepository {
	return &ChromaVectorRepository{
		client: client,
	}
}

// CreateCollection creates a collection if it does not already exist
func (r *ChromaVectorRepository) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) error {
	exists, err := r.CollectionExists(ctx, name)
	if err != nil {
		return NewVectorRepositoryError("create_collection", err, "")
	}
	if exists {
		return nil
	}

	if _, err := r.client.CreateCollection(ctx, name, metadata); err != nil {
		return NewVectorRepositoryError("create_collection", err, "failed to create collection: "+name)
	}

	return nil
}

// CollectionExists checks if a collection exists
func (r *ChromaVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	if _, err := r.client.GetCollection(ctx, name); err != nil {
		// Assume a lookup error means the collection doesn't exist
		return false, nil
	}
	return true, nil
}

// CountCollection returns how many documents a collection holds
func (r *ChromaVectorRepository) CountCollection(ctx context.Context, name string) (int, error) {
	count, err := r.client.CountCollection(ctx, name)
	if err != nil {
		return 0, NewVectorRepositoryError("count_collection", err, "")
	}
	return count, nil
}

// DeleteCollection removes a collection and all its documents
func (r *ChromaVectorRepository) DeleteCollection(ctx context.Context, name string) error {
	if err := r.client.DeleteCollection(ctx, name); err != nil {
		return NewVectorRepositoryError("delete_collection", err, "failed to delete collection: "+name)
	}
	return nil
}

// StoreMeals indexes meal documents with their embeddings and metadata
func (r *ChromaVectorRepository) StoreMeals(ctx context.Context, collectionName string, docs []*MealDocument) error {
	if len(docs) == 0 {
		return nil
	}

	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return NewVectorRepositoryError("store_meals", err, "")
	}
	if !exists {
		return CollectionNotFoundError(collectionName)
	}

	ids := make([]string, len(docs))
	documents := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))
	metadatas := make([]map[string]interface{}, len(docs))

	for i, doc := range docs {
		ids[i] = doc.ID
		documents[i] = doc.Text
		embeddings[i] = doc.Embedding
		metadatas[i] = flattenMetadata(doc.Metadata)
	}

	if err := r.client.AddDocuments(ctx, collectionName, ids, documents, embeddings, metadatas); err != nil {
		return NewVectorRepositoryError("store_meals", err, fmt.Sprintf("failed to store %d meals", len(docs)))
	}

	return nil
}

// flattenMetadata serializes arrays and maps to JSON strings. ChromaDB
// metadata values must be simple types (string, int, float, bool).
func flattenMetadata(metadata map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case []string, []interface{}, map[string]interface{}:
			if jsonBytes, err := json.Marshal(val); err == nil {
				flat[k] = string(jsonBytes)
			}
		default:
			flat[k] = v
		}
	}
	return flat
}

// SearchMeals runs a nearest-neighbor query and maps hits to SearchResults.
// ChromaDB returns hits in ascending-distance order; that order is preserved.
func (r *ChromaVectorRepository) SearchMeals(ctx context.Context, collectionName string, queryEmbedding []float32, topK int, filter map[string]interface{}) ([]*SearchResult, error) {
	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return nil, NewVectorRepositoryError("search_meals", err, "")
	}
	if !exists {
		return nil, CollectionNotFoundError(collectionName)
	}

	results, err := r.client.Query(ctx, collectionName, [][]float32{queryEmbedding}, topK, filter)
	if err != nil {
		return nil, NewVectorRepositoryError("search_meals", err, "query failed")
	}

	searchResults := make([]*SearchResult, 0)
	if len(results.IDs) > 0 {
		for i := 0; i < len(results.IDs[0]); i++ {
			metadata := make(map[string]interface{})
			if len(results.Metadatas) > 0 && len(results.Metadatas[0]) > i {
				metadata = results.Metadatas[0][i]
			}

			var text string
			if len(results.Documents) > 0 && len(results.Documents[0]) > i {
				text = results.Documents[0][i]
			}

			var distance float32
			if len(results.Distances) > 0 && len(results.Distances[0]) > i {
				distance = results.Distances[0][i]
			}

			searchResults = append(searchResults, &SearchResult{
				MealID:   results.IDs[0][i],
				Text:     text,
				Score:    1.0 - distance,
				Distance: distance,
				Metadata: metadata,
			})
		}
	}

	return searchResults, nil
}

// GetMeal fetches a single meal document by id. A miss is (nil, nil).
func (r *ChromaVectorRepository) GetMeal(ctx context.Context, collectionName string, mealID string) (*MealDocument, error) {
	exists, err := r.CollectionExists(ctx, collectionName)
	if err != nil {
		return nil, NewVectorRepositoryError("get_meal", err, "")
	}
	if !exists {
		return nil, CollectionNotFoundError(collectionName)
	}

	result, err := r.client.GetDocuments(ctx, collectionName, []string{mealID}, nil, 0)
	if err != nil {
		return nil, NewVectorRepositoryError("get_meal", err, "failed to get meal: "+mealID)
	}

	if len(result.IDs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]interface{})
	if len(result.Metadatas) > 0 {
		metadata = result.Metadatas[0]
	}

	text := ""
	if len(result.Documents) > 0 {
		text = result.Documents[0]
	}

	return &MealDocument{
		ID:       result.IDs[0],
		Text:     text,
		Metadata: metadata,
	}, nil
}

// Ping checks if ChromaDB is alive
func (r *ChromaVectorRepository) Ping(ctx context.Context) error {
	if err := r.client.Heartbeat(ctx); err != nil {
		return NewVectorRepositoryError("ping", err, "ChromaDB heartbeat failed")
	}
	return nil
}

// Close closes the ChromaDB client
func (r *ChromaVectorRepository) Close() error {
	r.client.Close()
	return nil
}
