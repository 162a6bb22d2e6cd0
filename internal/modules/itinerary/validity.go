package itinerary

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

var (
	cafeTypes = setOf("cafe", "coffee_shop", "bakery")

	// cafeSearchTypes may be searched for cafes; results still have to pass cafeTypes.
	cafeSearchTypes = setOf("cafe", "coffee_shop", "bakery", "tea_house", "cafeteria", "coffee_roastery")

	restaurantTypes = setOf(
		"restaurant",
		"american_restaurant", "barbecue_restaurant", "brazilian_restaurant", "breakfast_restaurant",
		"brunch_restaurant", "buffet_restaurant", "chinese_restaurant", "fine_dining_restaurant",
		"fast_food_restaurant", "french_restaurant", "greek_restaurant", "hamburger_restaurant",
		"indian_restaurant", "indonesian_restaurant", "italian_restaurant", "japanese_restaurant",
		"korean_restaurant", "lebanese_restaurant", "mediterranean_restaurant", "mexican_restaurant",
		"middle_eastern_restaurant", "pizza_restaurant", "ramen_restaurant", "seafood_restaurant",
		"spanish_restaurant", "sushi_restaurant", "thai_restaurant", "turkish_restaurant",
		"vegan_restaurant", "vegetarian_restaurant", "vietnamese_restaurant",
		"meal_takeaway", "meal_delivery", "diner", "steak_house", "food_court", "bar_and_grill",
	)

	foodTypesSet = setOf(
		"food", "cafe", "coffee_shop", "bakery", "tea_house", "cafeteria", "coffee_roastery",
		"dessert_shop", "ice_cream_shop", "confectionery", "sandwich_shop",
	)

	lodgingTypes = setOf("lodging", "hotel", "motel", "hostel", "resort_hotel", "bed_and_breakfast", "guest_house", "inn")

	shoppingTypes = setOf(
		"store", "shopping_mall", "department_store", "supermarket", "grocery_or_supermarket",
		"grocery_store", "convenience_store", "clothing_store", "shoe_store", "jewelry_store",
		"electronics_store", "furniture_store", "home_goods_store", "hardware_store", "liquor_store",
	)
)

// excludedTypes are dropped from search results for every category. Plain
// "store" is left out because bakeries and delis carry it as a secondary type.
var excludedTypes = []string{
	"lodging", "shopping_mall", "department_store", "supermarket", "grocery_store", "convenience_store",
}

// ExclusionsFor returns the types whose presence on a result drops it when
// backfilling category c.
func ExclusionsFor(c Category) []string {
	out := append([]string(nil), excludedTypes...)
	switch c {
	case CategoryCafe:
		out = append(out, "restaurant")
	case CategoryRestaurant:
		out = append(out, "cafe", "coffee_shop", "bakery")
	case CategoryAttraction:
		out = append(out, "restaurant", "cafe", "bakery", "meal_takeaway", "meal_delivery")
	}
	return out
}

func isRestaurantType(t string) bool {
	_, ok := restaurantTypes[t]
	return ok
}

func isCafeType(t string) bool {
	_, ok := cafeTypes[t]
	return ok
}

func isFoodType(t string) bool {
	_, ok := foodTypesSet[t]
	return ok || isRestaurantType(t)
}

// IsValidFor reports whether a result whose primary type is primaryType may
// join the pool of category c.
func IsValidFor(c Category, primaryType string) bool {
	switch c {
	case CategoryCafe:
		return isCafeType(primaryType)
	case CategoryRestaurant:
		return isRestaurantType(primaryType) && !isCafeType(primaryType)
	case CategoryAttraction:
		if primaryType == "" || isFoodType(primaryType) {
			return false
		}
		_, lodging := lodgingTypes[primaryType]
		_, shopping := shoppingTypes[primaryType]
		return !lodging && !shopping
	}
	return false
}

// searchableFor reports whether searching with type t can yield candidates
// for category c. Mapper output failing this is skipped.
func searchableFor(c Category, t string) bool {
	switch c {
	case CategoryCafe:
		_, ok := cafeSearchTypes[t]
		return ok
	case CategoryRestaurant:
		return isRestaurantType(t)
	case CategoryAttraction:
		return IsValidFor(CategoryAttraction, t)
	}
	return false
}

// genericTypes is the tier-2 search type per category.
var genericTypes = map[Category]string{
	CategoryAttraction: "tourist_attraction",
	CategoryRestaurant: "restaurant",
	CategoryCafe:       "cafe",
}

// backupTypes are the tier-3 search types per category, in order.
var backupTypes = map[Category][]string{
	CategoryRestaurant: {"meal_takeaway", "fast_food_restaurant", "diner", "food_court", "pizza_restaurant", "seafood_restaurant"},
	CategoryCafe:       {"bakery", "coffee_shop", "tea_house", "cafeteria"},
	CategoryAttraction: {"museum", "park", "art_gallery", "historical_landmark", "zoo", "aquarium"},
}

// textQueries is the tier-4 free-text query per category.
var textQueries = map[Category]string{
	CategoryAttraction: "tourist attraction",
	CategoryRestaurant: "restaurant",
	CategoryCafe:       "cafe",
}
