// README: Bid placement window and route-state checks.
package bid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

type fakeRouteReader struct {
	route *route.Route
	err   error
}

func (f fakeRouteReader) Get(ctx context.Context, id types.ID) (*route.Route, error) {
	return f.route, f.err
}

func openRoute(departure time.Time) *route.Route {
	return &route.Route{
		ID:            "r1",
		DriverID:      "d1",
		Status:        route.StatusOpen,
		Segments:      make([]route.Segment, 4),
		DepartureTime: departure,
	}
}

func placeCmd() PlaceCommand {
	return PlaceCommand{
		RouteID:      "r1",
		RequesterID:  "c1",
		OfferedPrice: decimal.NewFromInt(1500),
		VolumeM3:     2,
		StartIndex:   0,
		EndIndex:     1,
	}
}

func TestPlaceRejectsClosedRoute(t *testing.T) {
	r := openRoute(time.Now().Add(24 * time.Hour))
	r.Status = route.StatusBooked
	svc := NewService(nil, fakeRouteReader{route: r}, 3*time.Hour)

	if _, err := svc.Place(context.Background(), placeCmd()); !errors.Is(err, ErrRouteClosed) {
		t.Fatalf("expected ErrRouteClosed, got %v", err)
	}
}

func TestPlaceRejectsElapsedWindow(t *testing.T) {
	// Departure in 2h with a 3h closing lead: the window has already shut.
	svc := NewService(nil, fakeRouteReader{route: openRoute(time.Now().Add(2 * time.Hour))}, 3*time.Hour)

	if _, err := svc.Place(context.Background(), placeCmd()); !errors.Is(err, ErrWindowElapsed) {
		t.Fatalf("expected ErrWindowElapsed, got %v", err)
	}
}

func TestPlaceRejectsInvalidSpan(t *testing.T) {
	svc := NewService(nil, fakeRouteReader{route: openRoute(time.Now().Add(24 * time.Hour))}, 3*time.Hour)

	cmd := placeCmd()
	cmd.EndIndex = 9 // beyond the route's 4 segments
	if _, err := svc.Place(context.Background(), cmd); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestPlaceUnknownRoute(t *testing.T) {
	svc := NewService(nil, fakeRouteReader{err: route.ErrNotFound}, 3*time.Hour)

	if _, err := svc.Place(context.Background(), placeCmd()); !errors.Is(err, route.ErrNotFound) {
		t.Fatalf("expected route.ErrNotFound, got %v", err)
	}
}
