// README: Pricing store; aggregates historical accepted prices from closed auctions.
package pricing

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// AverageAcceptedPricePerKm returns the mean winning price per covered
// kilometre across all closed auctions. ok is false when no auction has
// closed yet (cold start).
func (s *Store) AverageAcceptedPricePerKm(ctx context.Context) (float64, bool, error) {
	var avg *float64
	err := s.db.QueryRow(ctx, `
		SELECT AVG(b.offered_price / NULLIF(sd.span_km, 0))
		FROM bids b
		JOIN LATERAL (
			SELECT SUM(s.distance_km) AS span_km
			FROM route_segments s
			WHERE s.route_id = b.route_id
			  AND s.segment_index BETWEEN b.start_index AND b.end_index
		) sd ON TRUE
		WHERE b.status = 'accepted'`,
	).Scan(&avg)
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}
