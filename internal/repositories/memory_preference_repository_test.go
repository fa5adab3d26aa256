package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ali-Dakheel/calo-ai-app/internal/models"
)

// ============================================================================
// Preference merging
// ============================================================================

func TestMemoryPreferenceGetUnknownUser(t *testing.T) {
	repo := NewMemoryPreferenceRepository()

	prefs, err := repo.Get(context.Background(), "nobody")

	assert.NoError(t, err)
	assert.True(t, prefs.IsEmpty())
}

func TestMemoryPreferenceMergeUnionsLists(t *testing.T) {
	repo := NewMemoryPreferenceRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{
		DietaryRestrictions: []string{models.TagVegan},
	}))
	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{
		DietaryRestrictions: []string{models.TagVegan, models.TagGlutenFree},
		FavoriteCuisines:    []string{"thai"},
	}))

	prefs, err := repo.Get(ctx, "user1")

	assert.NoError(t, err)
	assert.Equal(t, []string{models.TagGlutenFree, models.TagVegan}, prefs.DietaryRestrictions)
	assert.Equal(t, []string{"thai"}, prefs.FavoriteCuisines)
}

func TestMemoryPreferenceMergeOverwritesCalorieTarget(t *testing.T) {
	repo := NewMemoryPreferenceRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{CalorieTarget: 2000}))
	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{CalorieTarget: 1600}))

	prefs, err := repo.Get(ctx, "user1")

	assert.NoError(t, err)
	assert.Equal(t, 1600, prefs.CalorieTarget)
}

func TestMemoryPreferenceMergeEmptyIsNoop(t *testing.T) {
	repo := NewMemoryPreferenceRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{CalorieTarget: 1800}))
	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{}))

	prefs, err := repo.Get(ctx, "user1")

	assert.NoError(t, err)
	assert.Equal(t, 1800, prefs.CalorieTarget)
}

func TestMemoryPreferenceGetReturnsCopy(t *testing.T) {
	repo := NewMemoryPreferenceRepository()
	ctx := context.Background()

	assert.NoError(t, repo.Merge(ctx, "user1", models.UserPreferences{
		DietaryRestrictions: []string{models.TagKeto},
	}))

	prefs, err := repo.Get(ctx, "user1")
	assert.NoError(t, err)
	prefs.DietaryRestrictions[0] = "mutated"

	fresh, err := repo.Get(ctx, "user1")
	assert.NoError(t, err)
	assert.Equal(t, []string{models.TagKeto}, fresh.DietaryRestrictions)
}
