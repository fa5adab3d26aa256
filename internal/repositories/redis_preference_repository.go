package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// RedisPreferenceRepository persists user preferences in Redis.
// List fields use sets so repeated learning naturally deduplicates.
type RedisPreferenceRepository struct {
	client *redis.Client
}

// NewRedisPreferenceRepository creates a Redis-backed preference repository
func NewRedisPreferenceRepository(client *redis.Client) PreferenceRepository {
	return &RedisPreferenceRepository{
		client: client,
	}
}

// Key patterns:
//   user:{id}:preferences:dietary  - set of dietary restrictions
//   user:{id}:preferences:cuisines - set of favorite cuisines
//   user:{id}:preferences:calories - string-encoded calorie target

func preferenceDietaryKey(userID string) string {
	return fmt.Sprintf("user:%s:preferences:dietary", userID)
}

func preferenceCuisinesKey(userID string) string {
	return fmt.Sprintf("user:%s:preferences:cuisines", userID)
}

func preferenceCaloriesKey(userID string) string {
	return fmt.Sprintf("user:%s:preferences:calories", userID)
}

// Get returns the user's preferences, zero-value when nothing is stored
func (r *RedisPreferenceRepository) Get(ctx context.Context, userID string) (models.UserPreferences, error) {
	var prefs models.UserPreferences

	dietary, err := r.client.SMembers(ctx, preferenceDietaryKey(userID)).Result()
	if err != nil {
		return prefs, NewPreferenceRepositoryError("get", err, "failed to read dietary restrictions")
	}

	cuisines, err := r.client.SMembers(ctx, preferenceCuisinesKey(userID)).Result()
	if err != nil {
		return prefs, NewPreferenceRepositoryError("get", err, "failed to read cuisines")
	}

	sort.Strings(dietary)
	sort.Strings(cuisines)
	prefs.DietaryRestrictions = dietary
	prefs.FavoriteCuisines = cuisines

	raw, err := r.client.Get(ctx, preferenceCaloriesKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return prefs, NewPreferenceRepositoryError("get", err, "failed to read calorie target")
	}
	if err == nil {
		if target, convErr := strconv.Atoi(raw); convErr == nil {
			prefs.CalorieTarget = target
		}
	}

	return prefs, nil
}

// Merge folds updates into the stored preferences atomically
func (r *RedisPreferenceRepository) Merge(ctx context.Context, userID string, updates models.UserPreferences) error {
	if updates.IsEmpty() {
		return nil
	}

	pipe := r.client.TxPipeline()

	if len(updates.DietaryRestrictions) > 0 {
		members := make([]interface{}, len(updates.DietaryRestrictions))
		for i, v := range updates.DietaryRestrictions {
			members[i] = v
		}
		pipe.SAdd(ctx, preferenceDietaryKey(userID), members...)
	}

	if len(updates.FavoriteCuisines) > 0 {
		members := make([]interface{}, len(updates.FavoriteCuisines))
		for i, v := range updates.FavoriteCuisines {
			members[i] = v
		}
		pipe.SAdd(ctx, preferenceCuisinesKey(userID), members...)
	}

	if updates.CalorieTarget > 0 {
		pipe.Set(ctx, preferenceCaloriesKey(userID), strconv.Itoa(updates.CalorieTarget), 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return NewPreferenceRepositoryError("merge", err, "failed to store preferences")
	}

	return nil
}

// Ping checks Redis connectivity
func (r *RedisPreferenceRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewPreferenceRepositoryError("ping", err, "Redis connection failed")
	}
	return nil
}
