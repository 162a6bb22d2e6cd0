package itinerary

import "strings"

// interestTypes maps interest labels to provider place types.
var interestTypes = map[string][]string{
	"museum":          {"museum"},
	"art":             {"art_gallery", "museum"},
	"art gallery":     {"art_gallery"},
	"history":         {"historical_landmark", "museum"},
	"historical site": {"historical_landmark"},
	"landmark":        {"tourist_attraction", "historical_landmark"},
	"architecture":    {"historical_landmark", "tourist_attraction"},
	"culture":         {"museum", "cultural_center", "art_gallery"},
	"nature":          {"park", "national_park", "hiking_area"},
	"park":            {"park"},
	"garden":          {"botanical_garden", "park"},
	"outdoor":         {"park", "hiking_area", "campground"},
	"hiking":          {"hiking_area", "national_park"},
	"beach":           {"beach"},
	"religious site":  {"church", "mosque", "hindu_temple", "synagogue"},
	"temple":          {"hindu_temple", "buddhist_temple"},
	"church":          {"church"},
	"nightlife":       {"night_club", "bar"},
	"entertainment":   {"amusement_park", "movie_theater", "bowling_alley"},
	"theme park":      {"amusement_park"},
	"animal":          {"zoo", "aquarium"},
	"zoo":             {"zoo"},
	"aquarium":        {"aquarium"},
	"sport":           {"stadium"},
	"music":           {"concert_hall", "performing_arts_theater"},
	"theater":         {"performing_arts_theater"},
	"library":         {"library"},
	"market":          {"market"},
	"sightseeing":     {"tourist_attraction"},
}

// foodTypes maps food-preference labels to provider place types. Cafe and
// restaurant backfill both read it and keep only the types they can search.
var foodTypes = map[string][]string{
	"italian":        {"italian_restaurant"},
	"pizza":          {"pizza_restaurant"},
	"japanese":       {"japanese_restaurant"},
	"sushi":          {"sushi_restaurant"},
	"ramen":          {"ramen_restaurant"},
	"chinese":        {"chinese_restaurant"},
	"korean":         {"korean_restaurant"},
	"thai":           {"thai_restaurant"},
	"vietnamese":     {"vietnamese_restaurant"},
	"indian":         {"indian_restaurant"},
	"indonesian":     {"indonesian_restaurant"},
	"mexican":        {"mexican_restaurant"},
	"french":         {"french_restaurant"},
	"spanish":        {"spanish_restaurant"},
	"greek":          {"greek_restaurant"},
	"turkish":        {"turkish_restaurant"},
	"lebanese":       {"lebanese_restaurant"},
	"middle eastern": {"middle_eastern_restaurant"},
	"mediterranean":  {"mediterranean_restaurant"},
	"american":       {"american_restaurant"},
	"brazilian":      {"brazilian_restaurant"},
	"seafood":        {"seafood_restaurant"},
	"steak":          {"steak_house"},
	"steakhouse":     {"steak_house"},
	"barbecue":       {"barbecue_restaurant"},
	"bbq":            {"barbecue_restaurant"},
	"burger":         {"hamburger_restaurant"},
	"vegetarian":     {"vegetarian_restaurant"},
	"vegan":          {"vegan_restaurant"},
	"fast food":      {"fast_food_restaurant"},
	"street food":    {"meal_takeaway", "food_court"},
	"fine dining":    {"fine_dining_restaurant"},
	"breakfast":      {"breakfast_restaurant", "cafe"},
	"brunch":         {"brunch_restaurant", "cafe"},
	"coffee":         {"coffee_shop", "cafe"},
	"cafe":           {"cafe"},
	"tea":            {"tea_house", "cafe"},
	"bakery":         {"bakery"},
	"pastry":         {"bakery"},
	"dessert":        {"bakery", "cafe"},
}

// MapPreference translates a preference label into provider place types for
// the given category's domain. Unknown labels yield nil. The returned slice
// must not be modified.
func MapPreference(label string, domain Category) []string {
	table := foodTypes
	if domain == CategoryAttraction {
		table = interestTypes
	}
	key := normalizeLabel(label)
	if key == "" {
		return nil
	}
	if ts, ok := table[key]; ok {
		return ts
	}
	return table[stem(key)]
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// stem drops a plural suffix from the last word ("art galleries" -> "art gallery").
func stem(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 4:
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "ches"), strings.HasSuffix(s, "shes"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		return strings.TrimSuffix(s, "s")
	}
	return s
}
