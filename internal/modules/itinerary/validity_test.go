package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidFor(t *testing.T) {
	tests := []struct {
		category Category
		primary  string
		want     bool
	}{
		{CategoryCafe, "restaurant", false},
		{CategoryCafe, "bakery", true},
		{CategoryCafe, "coffee_shop", true},
		{CategoryCafe, "cafe", true},
		{CategoryCafe, "tea_house", false},
		{CategoryRestaurant, "japanese_restaurant", true},
		{CategoryRestaurant, "restaurant", true},
		{CategoryRestaurant, "meal_takeaway", true},
		{CategoryRestaurant, "coffee_shop", false},
		{CategoryRestaurant, "bakery", false},
		{CategoryRestaurant, "museum", false},
		{CategoryAttraction, "museum", true},
		{CategoryAttraction, "tourist_attraction", true},
		{CategoryAttraction, "italian_restaurant", false},
		{CategoryAttraction, "cafe", false},
		{CategoryAttraction, "lodging", false},
		{CategoryAttraction, "shopping_mall", false},
		{CategoryAttraction, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+tt.primary, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidFor(tt.category, tt.primary))
		})
	}
}

func TestExclusionsFor(t *testing.T) {
	assert.Contains(t, ExclusionsFor(CategoryCafe), "restaurant")
	assert.Contains(t, ExclusionsFor(CategoryCafe), "lodging")
	assert.Subset(t, ExclusionsFor(CategoryRestaurant), []string{"cafe", "coffee_shop", "bakery", "shopping_mall"})
	assert.Contains(t, ExclusionsFor(CategoryAttraction), "restaurant")
	assert.NotContains(t, ExclusionsFor(CategoryRestaurant), "restaurant")
	// Places (New) rejects legacy-only type names in excludedTypes.
	assert.Contains(t, ExclusionsFor(CategoryCafe), "grocery_store")
	assert.NotContains(t, ExclusionsFor(CategoryCafe), "grocery_or_supermarket")

	// Callers get their own copy.
	a := ExclusionsFor(CategoryCafe)
	a[0] = "mutated"
	assert.Equal(t, "lodging", ExclusionsFor(CategoryCafe)[0])
}
