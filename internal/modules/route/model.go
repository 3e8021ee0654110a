// README: Route aggregate, segment model, and status definitions.
package route

import (
	"time"

	"backhaul/internal/types"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Route is a driver's advertised return trip. Bids reference contiguous
// spans of its segments; CapacityM3 is shared across overlapping spans.
type Route struct {
	ID            types.ID
	DriverID      types.ID
	Status        Status
	StatusVersion int
	CapacityM3    float64
	Segments      []Segment
	DepartureTime time.Time
	CreatedAt     time.Time
	BookedAt      *time.Time
	CancelledAt   *time.Time
}

// Segment is one indexed leg of a route between two waypoints. Indexes are
// 0-based and contiguous.
type Segment struct {
	RouteID    types.ID
	Index      int
	TownName   string
	Start      types.Point
	End        types.Point
	DistanceKm float64
}

// AllowedTransitions represents the route lifecycle as code. Only the
// auction closer moves open → booked; cancellation is an external flow.
var AllowedTransitions = map[Status][]Status{
	StatusOpen:   {StatusBooked, StatusCancelled},
	StatusBooked: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// ClosingDeadline is the instant the bidding window shuts: departure minus
// the configured lead time. A route is eligible for closing once now has
// reached it.
func (r *Route) ClosingDeadline(lead time.Duration) time.Time {
	return r.DepartureTime.Add(-lead)
}

// SegmentSpanValid reports whether [start, end] is a valid inclusive
// segment range on this route.
func (r *Route) SegmentSpanValid(start, end int) bool {
	return start >= 0 && start <= end && end < len(r.Segments)
}
