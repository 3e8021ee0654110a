// README: Route store backed by PostgreSQL (routes + route_segments).
package route

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backhaul/internal/types"
)

var (
	ErrNotFound = errors.New("route not found")
	ErrConflict = errors.New("route state conflict")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create inserts the route and its segments in one transaction.
func (s *Store) Create(ctx context.Context, r *Route) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO routes (
			id, driver_id, status, status_version, capacity_m3,
			departure_time, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(r.ID),
		string(r.DriverID),
		string(r.Status),
		r.StatusVersion,
		r.CapacityM3,
		r.DepartureTime,
		r.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, seg := range r.Segments {
		_, err = tx.Exec(ctx, `
			INSERT INTO route_segments (
				route_id, segment_index, town_name,
				start_lat, start_lng, end_lat, end_lng, distance_km
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			string(r.ID),
			seg.Index,
			seg.TownName,
			seg.Start.Lat, seg.Start.Lng,
			seg.End.Lat, seg.End.Lng,
			seg.DistanceKm,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Route, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, driver_id, status, status_version, capacity_m3,
		       departure_time, created_at, booked_at, cancelled_at
		FROM routes
		WHERE id = $1`, string(id),
	)

	var r Route
	var bookedAt, cancelledAt *time.Time
	err := row.Scan(
		&r.ID, &r.DriverID, &r.Status, &r.StatusVersion, &r.CapacityM3,
		&r.DepartureTime, &r.CreatedAt, &bookedAt, &cancelledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.BookedAt = bookedAt
	r.CancelledAt = cancelledAt

	r.Segments, err = s.ListSegments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListSegments(ctx context.Context, routeID types.ID) ([]Segment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT route_id, segment_index, town_name,
		       start_lat, start_lng, end_lat, end_lng, distance_km
		FROM route_segments
		WHERE route_id = $1
		ORDER BY segment_index`, string(routeID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segs []Segment
	for rows.Next() {
		var seg Segment
		if err := rows.Scan(
			&seg.RouteID, &seg.Index, &seg.TownName,
			&seg.Start.Lat, &seg.Start.Lng,
			&seg.End.Lat, &seg.End.Lng,
			&seg.DistanceKm,
		); err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, rows.Err()
}

// ListEligibleForClosing returns open routes whose closing deadline has
// passed and which have no accepted bid yet. Runs every scheduler tick, so
// it leans on the (status, departure_time) index.
func (s *Store) ListEligibleForClosing(ctx context.Context, lead time.Duration) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id
		FROM routes r
		WHERE r.status = $1
		  AND r.departure_time <= NOW() + $2::interval
		  AND NOT EXISTS (
			SELECT 1 FROM bids b
			WHERE b.route_id = r.id AND b.status = 'accepted'
		  )
		ORDER BY r.departure_time`,
		string(StatusOpen),
		lead.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []types.ID
	for rows.Next() {
		var id types.ID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateStatus performs a guarded transition. Returns false when another
// writer won the race (optimistic check on current status + version).
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE routes
		SET status = $1,
		    status_version = status_version + 1,
		    booked_at = CASE WHEN $1 = 'booked' THEN NOW() ELSE booked_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
