package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// RedisKitchenRepository persists kitchen requests in Redis
type RedisKitchenRepository struct {
	client *redis.Client
}

// NewRedisKitchenRepository creates a Redis-backed kitchen repository
func NewRedisKitchenRepository(client *redis.Client) KitchenRepository {
	return &RedisKitchenRepository{
		client: client,
	}
}

// Key patterns:
//   kitchen:request:{id} - JSON-encoded request
//   kitchen:requests     - sorted set of request ids scored by creation time

func kitchenRequestKey(requestID string) string {
	return fmt.Sprintf("kitchen:request:%s", requestID)
}

const kitchenIndexKey = "kitchen:requests"

var validKitchenStatuses = map[string]bool{
	models.KitchenStatusPending:    true,
	models.KitchenStatusInProgress: true,
	models.KitchenStatusCompleted:  true,
	models.KitchenStatusCancelled:  true,
}

// Create persists and indexes a new kitchen request
func (r *RedisKitchenRepository) Create(ctx context.Context, request *models.KitchenRequest) error {
	data, err := json.Marshal(request)
	if err != nil {
		return NewKitchenRepositoryError("create", err, "failed to marshal request")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, kitchenRequestKey(request.RequestID), data, 0)
	pipe.ZAdd(ctx, kitchenIndexKey, redis.Z{
		Score:  float64(request.CreatedAt.UnixNano()),
		Member: request.RequestID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return NewKitchenRepositoryError("create", err, "failed to store request")
	}

	return nil
}

// Get returns a request by id, (nil, nil) on a miss
func (r *RedisKitchenRepository) Get(ctx context.Context, requestID string) (*models.KitchenRequest, error) {
	raw, err := r.client.Get(ctx, kitchenRequestKey(requestID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, NewKitchenRepositoryError("get", err, "failed to read request")
	}

	var request models.KitchenRequest
	if err := json.Unmarshal([]byte(raw), &request); err != nil {
		return nil, NewKitchenRepositoryError("get", err, "failed to unmarshal request")
	}

	return &request, nil
}

// List returns requests matching the filter, newest first
func (r *RedisKitchenRepository) List(ctx context.Context, filter KitchenRequestFilter) ([]*models.KitchenRequest, error) {
	ids, err := r.client.ZRevRange(ctx, kitchenIndexKey, 0, -1).Result()
	if err != nil {
		return nil, NewKitchenRepositoryError("list", err, "failed to read request index")
	}

	results := make([]*models.KitchenRequest, 0, len(ids))
	for _, id := range ids {
		request, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if request == nil {
			continue
		}
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		if filter.MinPriority > 0 && request.Priority < filter.MinPriority {
			continue
		}
		results = append(results, request)
	}

	return results, nil
}

// UpdateStatus transitions a request to a new status
func (r *RedisKitchenRepository) UpdateStatus(ctx context.Context, requestID string, status string, note string) error {
	if !validKitchenStatuses[status] {
		return NewKitchenRepositoryError("update_status",
			fmt.Errorf("invalid status: %s", status), "")
	}

	request, err := r.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return KitchenRequestNotFoundError(requestID)
	}

	request.Status = status
	if note != "" {
		if request.Notes != "" {
			request.Notes += "\n"
		}
		request.Notes += note
	}

	data, err := json.Marshal(request)
	if err != nil {
		return NewKitchenRepositoryError("update_status", err, "failed to marshal request")
	}

	if err := r.client.Set(ctx, kitchenRequestKey(requestID), data, 0).Err(); err != nil {
		return NewKitchenRepositoryError("update_status", err, "failed to update request")
	}

	return nil
}

// Delete removes a request and its index entry
func (r *RedisKitchenRepository) Delete(ctx context.Context, requestID string) error {
	request, err := r.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return KitchenRequestNotFoundError(requestID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, kitchenRequestKey(requestID))
	pipe.ZRem(ctx, kitchenIndexKey, requestID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewKitchenRepositoryError("delete", err, "failed to delete request")
	}

	return nil
}

// Ping checks Redis connectivity
func (r *RedisKitchenRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewKitchenRepositoryError("ping", err, "Redis connection failed")
	}
	return nil
}
