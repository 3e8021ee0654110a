// README: Bid service implements placement and listing against open routes.
package bid

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

var (
	ErrNotFound      = errors.New("bid not found")
	ErrBadRequest    = errors.New("bad request")
	ErrRouteClosed   = errors.New("route is not open for bidding")
	ErrWindowElapsed = errors.New("bidding window has closed")
)

// RouteReader is the slice of the route module the bid service needs.
type RouteReader interface {
	Get(ctx context.Context, id types.ID) (*route.Route, error)
}

type Service struct {
	store       *Store
	routes      RouteReader
	closingLead time.Duration
}

func NewService(store *Store, routes RouteReader, closingLead time.Duration) *Service {
	return &Service{store: store, routes: routes, closingLead: closingLead}
}

type PlaceCommand struct {
	RouteID      types.ID
	RequesterID  types.ID
	OfferedPrice decimal.Decimal
	VolumeM3     float64
	StartIndex   int
	EndIndex     int
}

// Place records a pending bid. Oversized volumes are allowed through here:
// feasibility against capacity is the allocator's call, not the API's.
func (s *Service) Place(ctx context.Context, cmd PlaceCommand) (types.ID, error) {
	r, err := s.routes.Get(ctx, cmd.RouteID)
	if err != nil {
		return "", err
	}
	if r.Status != route.StatusOpen {
		return "", ErrRouteClosed
	}
	if !time.Now().Before(r.ClosingDeadline(s.closingLead)) {
		return "", ErrWindowElapsed
	}

	now := time.Now()
	b := &Bid{
		ID:           types.NewID(),
		RouteID:      cmd.RouteID,
		RequesterID:  cmd.RequesterID,
		OfferedPrice: cmd.OfferedPrice,
		VolumeM3:     cmd.VolumeM3,
		StartIndex:   cmd.StartIndex,
		EndIndex:     cmd.EndIndex,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := b.Validate(len(r.Segments)); err != nil {
		return "", err
	}
	if err := s.store.Create(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Bid, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListForRoute(ctx context.Context, routeID types.ID) ([]Bid, error) {
	if _, err := s.routes.Get(ctx, routeID); err != nil {
		return nil, err
	}
	return s.store.ListByRoute(ctx, routeID)
}
