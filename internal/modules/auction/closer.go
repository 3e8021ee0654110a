// README: Auction closer; idempotent single-route closing with atomic commit.
package auction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"backhaul/internal/modules/bid"
	"backhaul/internal/modules/geo"
	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

var (
	ErrRouteNotFound = errors.New("route not found")
	// ErrAlreadyClosed is returned by the store when a concurrent closer
	// committed first. The caller treats it as a no-op, not a failure.
	ErrAlreadyClosed = errors.New("route bidding already closed")
)

// Outcome is the terminal state of one closing attempt.
type Outcome string

const (
	OutcomeAlreadyClosed Outcome = "already_closed"
	OutcomeNoPendingBids Outcome = "no_pending_bids"
	OutcomeCommitted     Outcome = "committed"
	OutcomeFailed        Outcome = "failed"
)

// Result reports what happened to a single route's closing attempt.
type Result struct {
	RouteID      types.ID
	Outcome      Outcome
	WinningBidID types.ID
	Err          error
}

// Store is everything the closing engine needs from persistence. The pgx
// implementation lives in store.go; tests use in-memory fakes.
type Store interface {
	FindRoute(ctx context.Context, id types.ID) (*route.Route, error)
	ListEligibleRoutes(ctx context.Context, lead time.Duration) ([]types.ID, error)
	ListPendingBids(ctx context.Context, routeID types.ID) ([]bid.Bid, error)
	HasAcceptedBid(ctx context.Context, routeID types.ID) (bool, error)
	// CommitClosing applies winner accepted + losers rejected + route
	// booked as one atomic unit, re-checking the idempotency gate under
	// lock. Returns ErrAlreadyClosed when another writer got there first.
	CommitClosing(ctx context.Context, routeID, winnerID types.ID, rejectedIDs []types.ID) error
}

type Closer struct {
	store            Store
	engine           *Engine
	capacityFallback float64
}

func NewCloser(store Store, engine *Engine, capacityFallback float64) *Closer {
	return &Closer{store: store, engine: engine, capacityFallback: capacityFallback}
}

// CloseRoute runs one closing attempt for the route. Safe to re-run: a
// route that already has an accepted bid (or is no longer open) yields
// OutcomeAlreadyClosed without re-scoring. Current policy is single winner
// per route: the top-ranked bid is accepted, every other pending bid is
// rejected, and the route flips to booked in the same transaction.
func (c *Closer) CloseRoute(ctx context.Context, routeID types.ID) Result {
	r, err := c.store.FindRoute(ctx, routeID)
	if errors.Is(err, route.ErrNotFound) {
		return Result{RouteID: routeID, Outcome: OutcomeFailed, Err: ErrRouteNotFound}
	}
	if err != nil {
		return Result{RouteID: routeID, Outcome: OutcomeFailed, Err: fmt.Errorf("load route: %w", err)}
	}

	if r.Status != route.StatusOpen {
		return Result{RouteID: routeID, Outcome: OutcomeAlreadyClosed}
	}

	// Advisory fast path; the commit re-checks this under lock, since the
	// sweep and a manual close may race on the same route.
	accepted, err := c.store.HasAcceptedBid(ctx, routeID)
	if err != nil {
		return Result{RouteID: routeID, Outcome: OutcomeFailed, Err: fmt.Errorf("check accepted bid: %w", err)}
	}
	if accepted {
		return Result{RouteID: routeID, Outcome: OutcomeAlreadyClosed}
	}

	pending, err := c.store.ListPendingBids(ctx, routeID)
	if err != nil {
		return Result{RouteID: routeID, Outcome: OutcomeFailed, Err: fmt.Errorf("load pending bids: %w", err)}
	}
	if len(pending) == 0 {
		return Result{RouteID: routeID, Outcome: OutcomeNoPendingBids}
	}

	ranked := c.engine.Rank(pending, c.capacity(r), geo.NewGeometry(r))
	if len(ranked) == 0 {
		// Every pending bid was degenerate; nothing rankable to accept.
		return Result{RouteID: routeID, Outcome: OutcomeNoPendingBids}
	}

	winner := ranked[0]
	rejected := make([]types.ID, 0, len(pending)-1)
	for _, b := range pending {
		if b.ID != winner.ID {
			rejected = append(rejected, b.ID)
		}
	}

	err = c.store.CommitClosing(ctx, routeID, winner.ID, rejected)
	if errors.Is(err, ErrAlreadyClosed) {
		return Result{RouteID: routeID, Outcome: OutcomeAlreadyClosed}
	}
	if err != nil {
		// Nothing visible was written; the route stays eligible and the
		// next tick retries naturally.
		return Result{RouteID: routeID, Outcome: OutcomeFailed, Err: fmt.Errorf("commit closing: %w", err)}
	}

	log.Printf("auction: route %s closed, winning bid %s (score %.4f)", routeID, winner.ID, winner.Score)
	return Result{RouteID: routeID, Outcome: OutcomeCommitted, WinningBidID: winner.ID}
}

// RankingPreview scores a route's pending bids without mutating anything.
// Returns both the full ranking and the capacity-aware selection so callers
// can inspect the two allocation policies side by side.
func (c *Closer) RankingPreview(ctx context.Context, routeID types.ID) ([]ScoredBid, []ScoredBid, error) {
	r, err := c.store.FindRoute(ctx, routeID)
	if errors.Is(err, route.ErrNotFound) {
		return nil, nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	pending, err := c.store.ListPendingBids(ctx, routeID)
	if err != nil {
		return nil, nil, err
	}
	ranked := c.engine.Rank(pending, c.capacity(r), geo.NewGeometry(r))
	return RankAll(ranked), SelectOptimal(ranked, c.capacity(r)), nil
}

func (c *Closer) capacity(r *route.Route) float64 {
	if r.CapacityM3 > 0 {
		return r.CapacityM3
	}
	return c.capacityFallback
}
