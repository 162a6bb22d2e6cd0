package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"wayfarer/internal/types"
)

var ErrMalformedItinerary = errors.New("malformed itinerary")

// Slots in schedule order.
var Slots = []string{"Morning", "Afternoon", "Evening"}

// ScheduledPlace is one visit of a flattened itinerary. StartMinutes and
// EndMinutes are minutes after midnight, -1 when the time did not parse.
type ScheduledPlace struct {
	PlaceID      string       `json:"place_id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Day          int          `json:"day"`
	Slot         string       `json:"time_slot"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	StartMinutes int          `json:"start_minutes"`
	EndMinutes   int          `json:"end_minutes"`
	Duration     int          `json:"duration"`
	Coordinates  *types.Point `json:"coordinates,omitempty"`
}

type UnusedPlace struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// FlatItinerary is the row-shaped view of a generated itinerary.
type FlatItinerary struct {
	Days      int              `json:"days"`
	Scheduled []ScheduledPlace `json:"scheduled"`
	Unused    []UnusedPlace    `json:"unused"`
}

// Flatten converts the decoded itinerary into ordered rows: by day, slot and
// start time. Unknown top-level keys are ignored. A slot may wrap its places
// in a single "POI" object.
func Flatten(itinerary map[string]any) (FlatItinerary, error) {
	var flat FlatItinerary
	for key, v := range itinerary {
		if key == "Unused" {
			unused, err := flattenUnused(v)
			if err != nil {
				return FlatItinerary{}, err
			}
			flat.Unused = unused
			continue
		}
		day, ok := dayNumber(key)
		if !ok {
			continue
		}
		flat.Days = max(flat.Days, day)
		slots, ok := v.(map[string]any)
		if !ok {
			return FlatItinerary{}, fmt.Errorf("%w: %q is not an object", ErrMalformedItinerary, key)
		}
		for _, slot := range Slots {
			places, err := slotPlaces(slots[slot])
			if err != nil {
				return FlatItinerary{}, fmt.Errorf("%w: %s %s: %v", ErrMalformedItinerary, key, slot, err)
			}
			for id, raw := range places {
				flat.Scheduled = append(flat.Scheduled, scheduledPlace(id, raw, day, slot))
			}
		}
	}

	slotIndex := map[string]int{"Morning": 0, "Afternoon": 1, "Evening": 2}
	sort.Slice(flat.Scheduled, func(i, j int) bool {
		a, b := flat.Scheduled[i], flat.Scheduled[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Slot != b.Slot {
			return slotIndex[a.Slot] < slotIndex[b.Slot]
		}
		if a.StartMinutes != b.StartMinutes {
			return a.StartMinutes < b.StartMinutes
		}
		return a.PlaceID < b.PlaceID
	})
	return flat, nil
}

func dayNumber(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "Day ")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func slotPlaces(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("slot is not an object")
	}
	if inner, ok := m["POI"].(map[string]any); ok && len(m) == 1 {
		return inner, nil
	}
	return m, nil
}

func scheduledPlace(id string, raw any, day int, slot string) ScheduledPlace {
	fields, _ := raw.(map[string]any)
	sp := ScheduledPlace{
		PlaceID:   id,
		Name:      stringField(fields, "name"),
		Type:      stringField(fields, "type"),
		Day:       day,
		Slot:      slot,
		StartTime: stringField(fields, "start_time"),
		EndTime:   stringField(fields, "end_time"),
	}
	sp.StartMinutes = clockMinutes(sp.StartTime)
	sp.EndMinutes = clockMinutes(sp.EndTime)
	sp.Duration = durationMinutes(fields["duration"])
	if sp.Duration <= 0 && sp.StartMinutes >= 0 && sp.EndMinutes > sp.StartMinutes {
		sp.Duration = sp.EndMinutes - sp.StartMinutes
	}
	sp.Coordinates = coordinates(fields["coordinates"])
	return sp
}

func flattenUnused(v any) ([]UnusedPlace, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: Unused is not an object", ErrMalformedItinerary)
	}
	var out []UnusedPlace
	for _, c := range Categories {
		list, _ := m[c.UnusedKey()].([]any)
		for _, item := range list {
			switch it := item.(type) {
			case map[string]any:
				out = append(out, UnusedPlace{PlaceID: stringField(it, "place_id"), Name: stringField(it, "name"), Category: c})
			case string:
				out = append(out, UnusedPlace{PlaceID: it, Category: c})
			}
		}
	}
	return out, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	}
	return ""
}

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "15:04:05"}

func clockMinutes(s string) int {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	return -1
}

// durationMinutes accepts 90, "90", "90 minutes", "1.5 hours" and "2h".
func durationMinutes(v any) int {
	switch d := v.(type) {
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return 0
		}
		return int(f)
	case float64:
		return int(d)
	case string:
		s := strings.ToLower(strings.TrimSpace(d))
		end := 0
		for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
			end++
		}
		f, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return 0
		}
		if unit := strings.TrimSpace(s[end:]); strings.HasPrefix(unit, "h") {
			f *= 60
		}
		return int(f)
	}
	return 0
}

func coordinates(v any) *types.Point {
	num := func(x any) (float64, bool) {
		switch n := x.(type) {
		case json.Number:
			f, err := n.Float64()
			return f, err == nil
		case float64:
			return n, true
		}
		return 0, false
	}
	switch c := v.(type) {
	case map[string]any:
		lat, ok1 := num(c["lat"])
		lng, ok2 := num(c["lng"])
		if !ok1 || !ok2 {
			lat, ok1 = num(c["latitude"])
			lng, ok2 = num(c["longitude"])
		}
		if ok1 && ok2 {
			return &types.Point{Lat: lat, Lng: lng}
		}
	case []any:
		if len(c) == 2 {
			lat, ok1 := num(c[0])
			lng, ok2 := num(c[1])
			if ok1 && ok2 {
				return &types.Point{Lat: lat, Lng: lng}
			}
		}
	}
	return nil
}
