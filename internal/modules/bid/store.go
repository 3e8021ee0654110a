// README: Bid store backed by PostgreSQL.
package bid

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backhaul/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, b *Bid) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bids (
			id, route_id, requester_id, offered_price, volume_m3,
			start_index, end_index, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(b.ID),
		string(b.RouteID),
		string(b.RequesterID),
		b.OfferedPrice,
		b.VolumeM3,
		b.StartIndex,
		b.EndIndex,
		string(b.Status),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Bid, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, route_id, requester_id, offered_price, volume_m3,
		       start_index, end_index, status, created_at, updated_at
		FROM bids
		WHERE id = $1`, string(id),
	)
	b, err := scanBid(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *Store) ListByRoute(ctx context.Context, routeID types.ID) ([]Bid, error) {
	return s.listByRoute(ctx, routeID, "")
}

// ListPendingByRoute returns the candidate set for a closing pass, ordered
// by submission time so score ties resolve deterministically downstream.
func (s *Store) ListPendingByRoute(ctx context.Context, routeID types.ID) ([]Bid, error) {
	return s.listByRoute(ctx, routeID, StatusPending)
}

func (s *Store) listByRoute(ctx context.Context, routeID types.ID, status Status) ([]Bid, error) {
	query := `
		SELECT id, route_id, requester_id, offered_price, volume_m3,
		       start_index, end_index, status, created_at, updated_at
		FROM bids
		WHERE route_id = $1`
	args := []any{string(routeID)}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *b)
	}
	return bids, rows.Err()
}

// HasAccepted reports whether the route already carries an accepted bid,
// i.e. whether its auction has been closed.
func (s *Store) HasAccepted(ctx context.Context, routeID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bids WHERE route_id = $1 AND status = $2
		)`, string(routeID), string(StatusAccepted),
	).Scan(&exists)
	return exists, err
}

func scanBid(row pgx.Row) (*Bid, error) {
	var b Bid
	err := row.Scan(
		&b.ID, &b.RouteID, &b.RequesterID, &b.OfferedPrice, &b.VolumeM3,
		&b.StartIndex, &b.EndIndex, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
