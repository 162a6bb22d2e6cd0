// README: Firestore persistence for trips and their POI subcollections.
package trips

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store persists trips in Firestore.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Create writes the trip document and both subcollections with a bulk
// writer and returns the new trip id.
func (s *Store) Create(ctx context.Context, d TripDetail) (string, error) {
	ref := s.client.Collection(tripsCollection).NewDoc()

	bw := s.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	enqueue := func(doc *firestore.DocumentRef, data any) error {
		job, err := bw.Create(doc, data)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
		return nil
	}

	if err := enqueue(ref, d.Trip); err != nil {
		bw.End()
		return "", fmt.Errorf("queue trip: %w", err)
	}
	for _, poi := range d.ItineraryPOIs {
		if err := enqueue(ref.Collection(itineraryPOIsColl).NewDoc(), poi); err != nil {
			bw.End()
			return "", fmt.Errorf("queue itinerary poi: %w", err)
		}
	}
	for _, poi := range d.UnusedPOIs {
		if err := enqueue(ref.Collection(unusedPOIsColl).NewDoc(), poi); err != nil {
			bw.End()
			return "", fmt.Errorf("queue unused poi: %w", err)
		}
	}
	bw.End()

	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return "", fmt.Errorf("write trip %s: %w", ref.ID, err)
	}
	return ref.ID, nil
}

func (s *Store) Get(ctx context.Context, id string) (*TripDetail, error) {
	ref := s.client.Collection(tripsCollection).Doc(id)
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}

	var d TripDetail
	if err := snap.DataTo(&d.Trip); err != nil {
		return nil, fmt.Errorf("decode trip %s: %w", id, err)
	}
	d.ID = snap.Ref.ID

	pois, err := ref.Collection(itineraryPOIsColl).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list itinerary pois: %w", err)
	}
	for _, ps := range pois {
		var poi ItineraryPOI
		if err := ps.DataTo(&poi); err != nil {
			return nil, fmt.Errorf("decode itinerary poi %s: %w", ps.Ref.ID, err)
		}
		d.ItineraryPOIs = append(d.ItineraryPOIs, poi)
	}
	sortPOIs(d.ItineraryPOIs)

	unused, err := ref.Collection(unusedPOIsColl).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list unused pois: %w", err)
	}
	for _, us := range unused {
		var poi UnusedPOI
		if err := us.DataTo(&poi); err != nil {
			return nil, fmt.Errorf("decode unused poi %s: %w", us.Ref.ID, err)
		}
		d.UnusedPOIs = append(d.UnusedPOIs, poi)
	}
	sort.SliceStable(d.UnusedPOIs, func(i, j int) bool {
		return d.UnusedPOIs[i].PlaceID < d.UnusedPOIs[j].PlaceID
	})
	return &d, nil
}

var slotOrder = map[string]int{"Morning": 0, "Afternoon": 1, "Evening": 2}

func sortPOIs(pois []ItineraryPOI) {
	sort.SliceStable(pois, func(i, j int) bool {
		a, b := pois[i], pois[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.TimeSlot != b.TimeSlot {
			return slotOrder[a.TimeSlot] < slotOrder[b.TimeSlot]
		}
		return a.StartMinutes < b.StartMinutes
	})
}
