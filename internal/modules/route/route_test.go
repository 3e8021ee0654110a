// README: Route model tests (state machine, deadlines, span validation).
package route

import (
	"testing"
	"time"

	"backhaul/internal/types"
)

// TestCanTransition verifies the lifecycle transition table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// the closer books an open route
		{StatusOpen, StatusBooked, true},
		// cancellation flows
		{StatusOpen, StatusCancelled, true},
		{StatusBooked, StatusCancelled, true},
		// delivery completion
		{StatusBooked, StatusCompleted, true},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusOpen, false},
		{StatusCancelled, StatusOpen, false},
		{StatusCompleted, StatusBooked, false},
		// invalid: skipping or reversing
		{StatusOpen, StatusCompleted, false},
		{StatusBooked, StatusOpen, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestClosingDeadline(t *testing.T) {
	departure := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	r := &Route{DepartureTime: departure}

	want := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	if got := r.ClosingDeadline(3 * time.Hour); !got.Equal(want) {
		t.Errorf("ClosingDeadline = %v, want %v", got, want)
	}
}

func TestSegmentSpanValid(t *testing.T) {
	r := &Route{Segments: make([]Segment, 5)}
	cases := []struct {
		start, end int
		want       bool
	}{
		{0, 4, true},
		{2, 2, true},
		{0, 0, true},
		{-1, 2, false},
		{3, 2, false},
		{0, 5, false},
	}
	for _, tc := range cases {
		if got := r.SegmentSpanValid(tc.start, tc.end); got != tc.want {
			t.Errorf("SegmentSpanValid(%d, %d) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestHaversineKm(t *testing.T) {
	// Colombo to Kandy is roughly 94 km great-circle.
	colombo := types.Point{Lat: 6.9271, Lng: 79.8612}
	kandy := types.Point{Lat: 7.2906, Lng: 80.6337}

	km := haversineKm(colombo, kandy)
	if km < 90 || km > 100 {
		t.Errorf("haversineKm(colombo, kandy) = %f, want ~94", km)
	}
	if haversineKm(colombo, colombo) != 0 {
		t.Error("distance to self must be 0")
	}
}
