// README: Auction store backed by PostgreSQL; owns the atomic closing commit.
package auction

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"backhaul/internal/modules/bid"
	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

// PgStore implements Store over the shared connection pool. Reads delegate
// to the route and bid stores; the three-way closing commit runs in its own
// transaction here because it spans both tables.
type PgStore struct {
	db     *pgxpool.Pool
	routes *route.Store
	bids   *bid.Store
}

func NewPgStore(db *pgxpool.Pool, routes *route.Store, bids *bid.Store) *PgStore {
	return &PgStore{db: db, routes: routes, bids: bids}
}

func (s *PgStore) FindRoute(ctx context.Context, id types.ID) (*route.Route, error) {
	return s.routes.Get(ctx, id)
}

func (s *PgStore) ListEligibleRoutes(ctx context.Context, lead time.Duration) ([]types.ID, error) {
	return s.routes.ListEligibleForClosing(ctx, lead)
}

func (s *PgStore) ListPendingBids(ctx context.Context, routeID types.ID) ([]bid.Bid, error) {
	return s.bids.ListPendingByRoute(ctx, routeID)
}

func (s *PgStore) HasAcceptedBid(ctx context.Context, routeID types.ID) (bool, error) {
	return s.bids.HasAccepted(ctx, routeID)
}

// CommitClosing accepts the winner, rejects the losers, and books the route
// as a single atomic unit. The route row is locked first, which serializes
// concurrent closers on the same route; the gate re-check under that lock
// turns the race loser into ErrAlreadyClosed instead of a double commit.
func (s *PgStore) CommitClosing(ctx context.Context, routeID, winnerID types.ID, rejectedIDs []types.ID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status FROM routes WHERE id = $1 FOR UPDATE`,
		string(routeID),
	).Scan(&status)
	if err != nil {
		return err
	}
	if status != string(route.StatusOpen) {
		return ErrAlreadyClosed
	}

	var accepted bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bids WHERE route_id = $1 AND status = $2
		)`, string(routeID), string(bid.StatusAccepted),
	).Scan(&accepted)
	if err != nil {
		return err
	}
	if accepted {
		return ErrAlreadyClosed
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bids SET status = $1, updated_at = NOW()
		WHERE id = $2 AND route_id = $3 AND status = $4`,
		string(bid.StatusAccepted),
		string(winnerID),
		string(routeID),
		string(bid.StatusPending),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		// Winner was withdrawn or mutated between ranking and commit;
		// abort and let the next tick re-rank.
		return ErrAlreadyClosed
	}

	if len(rejectedIDs) > 0 {
		rejected := make([]string, len(rejectedIDs))
		for i, id := range rejectedIDs {
			rejected[i] = string(id)
		}
		_, err = tx.Exec(ctx, `
			UPDATE bids SET status = $1, updated_at = NOW()
			WHERE route_id = $2 AND status = $3 AND id = ANY($4)`,
			string(bid.StatusRejected),
			string(routeID),
			string(bid.StatusPending),
			rejected,
		)
		if err != nil {
			return err
		}
	}

	tag, err = tx.Exec(ctx, `
		UPDATE routes
		SET status = $1, status_version = status_version + 1, booked_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(route.StatusBooked),
		string(routeID),
		string(route.StatusOpen),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrAlreadyClosed
	}

	return tx.Commit(ctx)
}
