// README: Bid model tests (validation, span overlap).
package bid

import (
	"testing"

	"github.com/shopspring/decimal"
)

func validBid() *Bid {
	return &Bid{
		ID:           "b1",
		RouteID:      "r1",
		RequesterID:  "c1",
		OfferedPrice: decimal.NewFromInt(1500),
		VolumeM3:     2.5,
		StartIndex:   1,
		EndIndex:     3,
		Status:       StatusPending,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Bid)
		wantOK bool
	}{
		{"well-formed", func(b *Bid) {}, true},
		{"single-segment span", func(b *Bid) { b.StartIndex, b.EndIndex = 2, 2 }, true},
		{"missing route", func(b *Bid) { b.RouteID = "" }, false},
		{"missing requester", func(b *Bid) { b.RequesterID = "" }, false},
		{"negative start", func(b *Bid) { b.StartIndex = -1 }, false},
		{"inverted span", func(b *Bid) { b.StartIndex, b.EndIndex = 3, 1 }, false},
		{"end beyond segments", func(b *Bid) { b.EndIndex = 5 }, false},
		{"zero volume", func(b *Bid) { b.VolumeM3 = 0 }, false},
		{"negative volume", func(b *Bid) { b.VolumeM3 = -1 }, false},
		{"zero price", func(b *Bid) { b.OfferedPrice = decimal.Zero }, false},
		{"negative price", func(b *Bid) { b.OfferedPrice = decimal.NewFromInt(-10) }, false},
	}
	for _, tc := range cases {
		b := validBid()
		tc.mutate(b)
		err := b.Validate(5)
		if tc.wantOK && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.wantOK && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestSpanOverlaps(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{0, 2, 1, 3, true},  // partial overlap
		{0, 2, 2, 4, true},  // touching at one segment
		{1, 1, 1, 1, true},  // identical single segment
		{0, 4, 1, 2, true},  // containment
		{0, 2, 3, 5, false}, // adjacent, disjoint
		{4, 5, 0, 2, false}, // disjoint, reversed order
	}
	for _, tc := range cases {
		if got := SpanOverlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Errorf("SpanOverlaps([%d,%d], [%d,%d]) = %v, want %v",
				tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
		}
		// Overlap is symmetric.
		if got := SpanOverlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
			t.Errorf("SpanOverlaps symmetric([%d,%d], [%d,%d]) = %v, want %v",
				tc.bStart, tc.bEnd, tc.aStart, tc.aEnd, got, tc.want)
		}
	}
}
