package models

import "sort"

// UserPreferences holds the dietary profile learned for a user over time.
// List-valued fields merge by set union, scalar fields by overwrite.
type UserPreferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	FavoriteCuisines    []string `json:"favorite_cuisines,omitempty"`
	CalorieTarget       int      `json:"calorie_target,omitempty"`
}

// IsEmpty reports whether no preference has been learned yet
func (p UserPreferences) IsEmpty() bool {
	return len(p.DietaryRestrictions) == 0 && len(p.FavoriteCuisines) == 0 && p.CalorieTarget == 0
}

// MergeFrom folds updates into the receiver: union for lists, overwrite for
// scalars. Lists stay sorted so repeated merges are deterministic.
func (p *UserPreferences) MergeFrom(updates UserPreferences) {
	p.DietaryRestrictions = unionSorted(p.DietaryRestrictions, updates.DietaryRestrictions)
	p.FavoriteCuisines = unionSorted(p.FavoriteCuisines, updates.FavoriteCuisines)
	if updates.CalorieTarget != 0 {
		p.CalorieTarget = updates.CalorieTarget
	}
}

func unionSorted(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range incoming {
		seen[v] = true
	}
	merged := make([]string, 0, len(seen))
	for v := range seen {
		merged = append(merged, v)
	}
	sort.Strings(merged)
	return merged
}
