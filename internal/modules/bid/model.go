// README: Bid model and status definitions.
package bid

import (
	"time"

	"github.com/shopspring/decimal"

	"backhaul/internal/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Bid is a customer's offer to ship a parcel along the inclusive segment
// span [StartIndex, EndIndex] of a route. At most one bid per route ends up
// accepted; the rest are rejected when the auction closes.
type Bid struct {
	ID           types.ID
	RouteID      types.ID
	RequesterID  types.ID
	OfferedPrice decimal.Decimal
	VolumeM3     float64
	StartIndex   int
	EndIndex     int
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SpanOverlaps reports whether two inclusive segment spans intersect.
func SpanOverlaps(aStart, aEnd, bStart, bEnd int) bool {
	return !(aEnd < bStart || bEnd < aStart)
}

// Validate checks the bid's shape against the number of route segments.
func (b *Bid) Validate(segmentCount int) error {
	if b.RouteID == "" || b.RequesterID == "" {
		return ErrBadRequest
	}
	if b.StartIndex < 0 || b.StartIndex > b.EndIndex || b.EndIndex >= segmentCount {
		return ErrBadRequest
	}
	if b.VolumeM3 <= 0 {
		return ErrBadRequest
	}
	if !b.OfferedPrice.IsPositive() {
		return ErrBadRequest
	}
	return nil
}
