package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"backhaul/internal/types"
)

// DistanceService handles interactions with the Google Maps API.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a new DistanceService with the given API key.
func NewDistanceService(apiKey string) (*DistanceService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// DistanceKm returns the driving distance in kilometres between two points.
func (s *DistanceService) DistanceKm(ctx context.Context, a, b types.Point) (float64, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", a.Lat, a.Lng)},
		Destinations: []string{fmt.Sprintf("%f,%f", b.Lat, b.Lng)},
		Mode:         maps.TravelModeDriving,
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("no distance result")
	}
	elem := resp.Rows[0].Elements[0]
	if elem.Status != "OK" {
		return 0, fmt.Errorf("distance element status %s", elem.Status)
	}
	return float64(elem.Distance.Meters) / 1000.0, nil
}
