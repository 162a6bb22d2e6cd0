// README: Google Places (New) adapter: nearby and text search normalized into Place records.
package maps

import (
	"context"
	"fmt"
	"strings"

	places "cloud.google.com/go/maps/places/apiv1"
	"cloud.google.com/go/maps/places/apiv1/placespb"
	"github.com/googleapis/gax-go/v2/callctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/type/latlng"

	"wayfarer/internal/types"
)

// MaxResultsLimit is the largest page the Places API returns.
const MaxResultsLimit = 20

// fieldMask selects the response fields Place is built from. Places (New)
// rejects requests without one.
const fieldMask = "places.id,places.displayName,places.primaryType,places.types," +
	"places.location,places.rating,places.userRatingCount,places.formattedAddress"

var tracer = otel.Tracer("wayfarer/maps")

// Place is a normalized provider result. PrimaryType is the provider's
// primaryType, empty when it reports none.
type Place struct {
	ID               string      `json:"place_id"`
	Name             string      `json:"name"`
	PrimaryType      string      `json:"primary_type"`
	Types            []string    `json:"types,omitempty"`
	Location         types.Point `json:"location"`
	Rating           float32     `json:"rating,omitempty"`
	UserRatingsTotal int         `json:"user_ratings_total,omitempty"`
	Address          string      `json:"address,omitempty"`
}

// NearbyQuery searches around Center for one included type. Results carrying
// any of ExcludedTypes are dropped.
type NearbyQuery struct {
	Center        types.Point
	RadiusM       uint
	IncludedType  string
	ExcludedTypes []string
	MaxResults    int
}

// TextQuery is a free-text search biased to Center.
type TextQuery struct {
	Query         string
	Center        types.Point
	RadiusM       uint
	ExcludedTypes []string
	MaxResults    int
}

// Searcher is the places capability the rest of the system depends on.
type Searcher interface {
	SearchNearby(ctx context.Context, q NearbyQuery) ([]Place, error)
	SearchText(ctx context.Context, q TextQuery) ([]Place, error)
}

// PlacesService handles interactions with the Google Places API (New).
type PlacesService struct {
	client *places.Client
}

// NewPlacesService creates a PlacesService authenticated with apiKey. Extra
// options override the endpoint or transport.
func NewPlacesService(ctx context.Context, apiKey string, opts ...option.ClientOption) (*PlacesService, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := places.NewRESTClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

func (s *PlacesService) Close() error {
	return s.client.Close()
}

func (s *PlacesService) SearchNearby(ctx context.Context, q NearbyQuery) ([]Place, error) {
	ctx, span := tracer.Start(ctx, "places.nearby", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("places.type", q.IncludedType))

	req := &placespb.SearchNearbyRequest{
		ExcludedTypes:  q.ExcludedTypes,
		MaxResultCount: resultCount(q.MaxResults),
		RankPreference: placespb.SearchNearbyRequest_POPULARITY,
		LocationRestriction: &placespb.SearchNearbyRequest_LocationRestriction{
			Type: &placespb.SearchNearbyRequest_LocationRestriction_Circle{Circle: circle(q.Center, q.RadiusM)},
		},
	}
	if q.IncludedType != "" {
		req.IncludedTypes = []string{q.IncludedType}
	}
	resp, err := s.client.SearchNearby(withFieldMask(ctx), req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		return nil, fmt.Errorf("places nearby %q: %w", q.IncludedType, err)
	}
	found := toPlaces(resp.GetPlaces(), q.ExcludedTypes, q.MaxResults)
	span.SetAttributes(attribute.Int("places.results", len(found)))
	return found, nil
}

func (s *PlacesService) SearchText(ctx context.Context, q TextQuery) ([]Place, error) {
	ctx, span := tracer.Start(ctx, "places.text", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("places.query", q.Query))

	req := &placespb.SearchTextRequest{
		TextQuery:      q.Query,
		MaxResultCount: resultCount(q.MaxResults),
		LocationBias: &placespb.SearchTextRequest_LocationBias{
			Type: &placespb.SearchTextRequest_LocationBias_Circle{Circle: circle(q.Center, q.RadiusM)},
		},
	}
	resp, err := s.client.SearchText(withFieldMask(ctx), req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "text search failed")
		return nil, fmt.Errorf("places text %q: %w", q.Query, err)
	}
	found := toPlaces(resp.GetPlaces(), q.ExcludedTypes, q.MaxResults)
	span.SetAttributes(attribute.Int("places.results", len(found)))
	return found, nil
}

func withFieldMask(ctx context.Context) context.Context {
	return callctx.SetHeaders(ctx, "x-goog-fieldmask", fieldMask)
}

func circle(center types.Point, radiusM uint) *placespb.Circle {
	return &placespb.Circle{
		Center: &latlng.LatLng{Latitude: center.Lat, Longitude: center.Lng},
		Radius: float64(radiusM),
	}
}

func resultCount(n int) int32 {
	if n <= 0 || n > MaxResultsLimit {
		return MaxResultsLimit
	}
	return int32(n)
}

// toPlaces normalizes raw results, dropping ones without id or name and ones
// tagged with an excluded type, keeping at most limit (capped at MaxResultsLimit).
func toPlaces(results []*placespb.Place, excluded []string, limit int) []Place {
	limit = int(resultCount(limit))
	out := make([]Place, 0, min(len(results), limit))
	for _, r := range results {
		if len(out) >= limit {
			break
		}
		name := strings.TrimSpace(r.GetDisplayName().GetText())
		if r.GetId() == "" || name == "" {
			continue
		}
		if hasAnyType(r.GetTypes(), excluded) {
			continue
		}
		out = append(out, Place{
			ID:               r.GetId(),
			Name:             name,
			PrimaryType:      r.GetPrimaryType(),
			Types:            r.GetTypes(),
			Location:         types.Point{Lat: r.GetLocation().GetLatitude(), Lng: r.GetLocation().GetLongitude()},
			Rating:           float32(r.GetRating()),
			UserRatingsTotal: int(r.GetUserRatingCount()),
			Address:          r.GetFormattedAddress(),
		})
	}
	return out
}

func hasAnyType(have, excluded []string) bool {
	for _, h := range have {
		for _, e := range excluded {
			if strings.EqualFold(h, e) {
				return true
			}
		}
	}
	return false
}
