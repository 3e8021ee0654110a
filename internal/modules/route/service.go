// README: Route service implements creation, lookup, and cancellation.
package route

import (
	"context"
	"errors"
	"log"
	"time"

	"backhaul/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidState = errors.New("invalid state transition")
)

// Distancer supplies road distance between two points. The Google Maps
// adapter satisfies this; when unavailable the service falls back to
// great-circle distance.
type Distancer interface {
	DistanceKm(ctx context.Context, a, b types.Point) (float64, error)
}

type Service struct {
	store    *Store
	distance Distancer
}

func NewService(store *Store, distance Distancer) *Service {
	return &Service{store: store, distance: distance}
}

type Waypoint struct {
	TownName string
	Position types.Point
}

type CreateCommand struct {
	DriverID      types.ID
	CapacityM3    float64
	DepartureTime time.Time
	Waypoints     []Waypoint
}

// Create validates the advertised trip and persists it with one segment per
// consecutive waypoint pair. Segment distances come from the Distancer so
// the scoring pass never needs a network call.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.DriverID == "" || cmd.CapacityM3 <= 0 {
		return "", ErrBadRequest
	}
	if len(cmd.Waypoints) < 2 {
		return "", ErrBadRequest
	}
	if !cmd.DepartureTime.After(time.Now()) {
		return "", ErrBadRequest
	}

	id := types.NewID()
	now := time.Now()
	segs := make([]Segment, 0, len(cmd.Waypoints)-1)
	for i := 0; i < len(cmd.Waypoints)-1; i++ {
		from, to := cmd.Waypoints[i], cmd.Waypoints[i+1]
		segs = append(segs, Segment{
			RouteID:    id,
			Index:      i,
			TownName:   from.TownName,
			Start:      from.Position,
			End:        to.Position,
			DistanceKm: s.segmentDistance(ctx, from.Position, to.Position),
		})
	}

	r := &Route{
		ID:            id,
		DriverID:      cmd.DriverID,
		Status:        StatusOpen,
		StatusVersion: 0,
		CapacityM3:    cmd.CapacityM3,
		Segments:      segs,
		DepartureTime: cmd.DepartureTime,
		CreatedAt:     now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Route, error) {
	return s.store.Get(ctx, id)
}

type CancelCommand struct {
	RouteID types.ID
	ActorID types.ID
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	r, err := s.store.Get(ctx, cmd.RouteID)
	if err != nil {
		return err
	}
	if !CanTransition(r.Status, StatusCancelled) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusCancelled, r.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (s *Service) segmentDistance(ctx context.Context, a, b types.Point) float64 {
	if s.distance != nil {
		if km, err := s.distance.DistanceKm(ctx, a, b); err == nil && km > 0 {
			return km
		} else if err != nil {
			log.Printf("route: distance lookup failed, using haversine: %v", err)
		}
	}
	return haversineKm(a, b)
}
