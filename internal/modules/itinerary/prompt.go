// README: Prompt rendering for itinerary generation (candidate listing, schema and scheduling rules).
package itinerary

import (
	"fmt"
	"strings"

	"wayfarer/internal/types"
)

// SystemPrompt fixes the assistant's role for generation requests.
const SystemPrompt = "You are an expert travel itinerary planner. " +
	"You only answer with a single JSON object inside a ```json fenced code block, with no other text. " +
	"You follow every scheduling rule you are given exactly."

const itinerarySchema = `{
  "Day 1": {
    "Morning": {
      "<place_id>": {
        "name": "<place name>",
        "type": "Cafe | Attraction | Restaurant",
        "duration": <minutes>,
        "start_time": "HH:MM",
        "end_time": "HH:MM",
        "coordinates": {"lat": <lat>, "lng": <lng>}
      }
    },
    "Afternoon": { "<place_id>": { ... } },
    "Evening": { "<place_id>": { ... } }
  },
  "Unused": {
    "Attractions": [{"place_id": "<place_id>", "name": "<place name>"}],
    "Restaurants": [{"place_id": "<place_id>", "name": "<place name>"}],
    "Cafes": [{"place_id": "<place_id>", "name": "<place name>"}]
  }
}`

// BuildPrompt renders the trip and its final candidate pools into the user
// message for the completion call. Output depends only on its inputs.
func BuildPrompt(params TripParameters, pools Pools) string {
	days := params.DayCount()
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a %d-day itinerary for %s", days, destination(params))
	if !params.From.IsZero() && !params.To.IsZero() {
		fmt.Fprintf(&b, " from %s to %s", params.From.Format("2006-01-02"), params.To.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, ". The city center is at %.6f, %.6f.\n", params.Center.Lat, params.Center.Lng)
	fmt.Fprintf(&b, "Traveller interests: %s.\n", listOrNone(params.Interests))
	fmt.Fprintf(&b, "Food preferences: %s.\n\n", listOrNone(params.FoodPreferences))

	b.WriteString("Candidate places (ID, name (Category), coordinates, distance from center):\n")
	var shortages []string
	for _, c := range Categories {
		pool := sortedFromCenter(pools.Of(c), params.Center)
		q := QuotaFor(c, days, len(pool))
		fmt.Fprintf(&b, "\n%s (%d available, %d needed):\n", c.UnusedKey(), len(pool), q.Required)
		if len(pool) == 0 {
			b.WriteString("- none\n")
		}
		for _, p := range pool {
			fmt.Fprintf(&b, "- %s, %s (%s) %.6f, %.6f, %.1f km\n",
				p.PlaceID, p.Name, c.Label(), p.Coordinates.Lat, p.Coordinates.Lng, haversineKm(params.Center, p.Coordinates))
		}
		if q.Shortfall > 0 {
			shortages = append(shortages, fmt.Sprintf("%d more %s", q.Shortfall, strings.ToLower(c.UnusedKey())))
		}
	}

	if len(shortages) > 0 {
		fmt.Fprintf(&b, "\nThe candidate list is short. Suggest %s near the city center that match the traveller's preferences. "+
			"Give suggested places the ids \"suggested_1\", \"suggested_2\", and so on, numbered across the whole itinerary, "+
			"and never reuse a name that already appears above.\n", strings.Join(shortages, ", "))
	}

	fmt.Fprintf(&b, `
Rules:
1. The itinerary has exactly %d days, keyed "Day 1" to "Day %d". Every day has "Morning", "Afternoon" and "Evening" slots.
2. Use each place_id at most once across the whole itinerary. Only use the ids listed above or suggested ids.
3. Every Morning starts with a Cafe. Every Afternoon and every Evening starts with a Restaurant.
4. Morning runs 08:00-12:00, Afternoon 12:00-18:00, Evening 18:00-22:00. Breakfast is 08:00-09:00, lunch 12:00-14:00 and dinner 18:30-20:30.
5. Allow %d minutes of travel per kilometre between consecutive stops and group nearby places on the same day.
6. Times are 24-hour "HH:MM"; duration is in minutes; visits in a slot must not overlap.
7. Every listed place that is not scheduled must appear in "Unused" under its category with its place_id and name. Scheduled places and "Unused" together contain every listed place exactly once.
8. Reply with the JSON object only, wrapped in a `+"```json"+` fenced code block.

JSON format:
%s
`, days, days, travelMinutesPerKm, itinerarySchema)

	return b.String()
}

func destination(p TripParameters) string {
	if p.Country == "" {
		return p.City
	}
	return p.City + ", " + p.Country
}

func listOrNone(items []string) string {
	var kept []string
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "none given"
	}
	return strings.Join(kept, ", ")
}

// sortedFromCenter returns a copy of pool ordered nearest first.
func sortedFromCenter(pool []PlaceCandidate, center types.Point) []PlaceCandidate {
	out := append([]PlaceCandidate(nil), pool...)
	sortByDistance(out, func(p PlaceCandidate) float64 { return haversineKm(center, p.Coordinates) })
	return out
}
