// README: City geocoding for trips submitted without coordinates.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gmaps "googlemaps.github.io/maps"

	"wayfarer/internal/types"
)

var ErrLocationNotFound = errors.New("location not found")

// Geocoder resolves a city (and optional country) to its center point.
type Geocoder struct {
	client *gmaps.Client
}

func NewGeocoder(apiKey string, opts ...gmaps.ClientOption) (*Geocoder, error) {
	opts = append([]gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}, opts...)
	client, err := gmaps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

func (g *Geocoder) Locate(ctx context.Context, city, country string) (types.Point, error) {
	ctx, span := tracer.Start(ctx, "places.geocode")
	defer span.End()

	address := strings.TrimSpace(city)
	if c := strings.TrimSpace(country); c != "" {
		address += ", " + c
	}
	if address == "" {
		return types.Point{}, ErrLocationNotFound
	}
	results, err := g.client.Geocode(ctx, &gmaps.GeocodingRequest{Address: address})
	if err != nil {
		span.RecordError(err)
		return types.Point{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("%w: %q", ErrLocationNotFound, address)
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
