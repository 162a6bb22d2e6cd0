package itinerary

import (
	"fmt"
	"strings"

	"wayfarer/internal/types"
)

// AuditReport lists where a generated itinerary departs from the rules the
// model was given. Generation treats these as advisory and only logs them.
type AuditReport struct {
	// Reused ids appear in more than one scheduled slot.
	Reused []string
	// Unknown ids are scheduled but were never offered (suggested_* excepted).
	Unknown []string
	// Missing ids were offered but are neither scheduled nor listed as unused.
	Missing []string
	// TightTransitions describes consecutive visits with less free time
	// between them than the travel heuristic allows.
	TightTransitions []string
}

func (r AuditReport) OK() bool {
	return len(r.Reused) == 0 && len(r.Unknown) == 0 && len(r.Missing) == 0 && len(r.TightTransitions) == 0
}

// Audit checks a flattened itinerary against the pools it was built from.
func Audit(flat FlatItinerary, pools Pools) AuditReport {
	var report AuditReport

	offered := map[string]PlaceCandidate{}
	var order []string
	for _, c := range Categories {
		for _, p := range pools.Of(c) {
			if _, dup := offered[p.PlaceID]; !dup {
				order = append(order, p.PlaceID)
			}
			offered[p.PlaceID] = p
		}
	}

	uses := map[string]int{}
	for i, sp := range flat.Scheduled {
		uses[sp.PlaceID]++
		if uses[sp.PlaceID] == 2 {
			report.Reused = append(report.Reused, sp.PlaceID)
		}
		if _, ok := offered[sp.PlaceID]; !ok && uses[sp.PlaceID] == 1 && !strings.HasPrefix(sp.PlaceID, "suggested_") {
			report.Unknown = append(report.Unknown, sp.PlaceID)
		}
		if i > 0 {
			if msg, tight := tightTransition(flat.Scheduled[i-1], sp, offered); tight {
				report.TightTransitions = append(report.TightTransitions, msg)
			}
		}
	}

	unused := map[string]bool{}
	for _, u := range flat.Unused {
		unused[u.PlaceID] = true
	}
	for _, id := range order {
		if uses[id] == 0 && !unused[id] {
			report.Missing = append(report.Missing, id)
		}
	}
	return report
}

func tightTransition(prev, next ScheduledPlace, offered map[string]PlaceCandidate) (string, bool) {
	if prev.Day != next.Day || prev.EndMinutes < 0 || next.StartMinutes < 0 {
		return "", false
	}
	from, ok1 := placePoint(prev, offered)
	to, ok2 := placePoint(next, offered)
	if !ok1 || !ok2 {
		return "", false
	}
	need := travelMinutes(from, to)
	gap := next.StartMinutes - prev.EndMinutes
	if gap >= need {
		return "", false
	}
	return fmt.Sprintf("day %d: %s -> %s has %d min, needs %d", prev.Day, prev.PlaceID, next.PlaceID, gap, need), true
}

func placePoint(sp ScheduledPlace, offered map[string]PlaceCandidate) (types.Point, bool) {
	if c, found := offered[sp.PlaceID]; found {
		return c.Coordinates, true
	}
	if sp.Coordinates != nil {
		return *sp.Coordinates, true
	}
	return types.Point{}, false
}
