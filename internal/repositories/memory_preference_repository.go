package repositories

import (
	"context"
	"sync"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// MemoryPreferenceRepository keeps user preferences in process memory.
// Used as a fallback when Redis is unavailable.
type MemoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]models.UserPreferences
}

// NewMemoryPreferenceRepository creates an in-memory preference repository
func NewMemoryPreferenceRepository() PreferenceRepository {
	return &MemoryPreferenceRepository{
		prefs: make(map[string]models.UserPreferences),
	}
}

func (r *MemoryPreferenceRepository) Get(ctx context.Context, userID string) (models.UserPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.prefs[userID]
	out := models.UserPreferences{
		DietaryRestrictions: append([]string(nil), stored.DietaryRestrictions...),
		FavoriteCuisines:    append([]string(nil), stored.FavoriteCuisines...),
		CalorieTarget:       stored.CalorieTarget,
	}
	return out, nil
}

func (r *MemoryPreferenceRepository) Merge(ctx context.Context, userID string, updates models.UserPreferences) error {
	if updates.IsEmpty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.prefs[userID]
	current.MergeFrom(updates)
	r.prefs[userID] = current
	return nil
}

func (r *MemoryPreferenceRepository) Ping(ctx context.Context) error {
	return nil
}
