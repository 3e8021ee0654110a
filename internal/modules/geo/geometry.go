// README: Immutable per-route geometry snapshot used by the scoring pass.
package geo

import (
	"backhaul/internal/modules/route"
)

// Geometry answers distance and detour questions for one route without any
// I/O. Building the snapshot up front keeps bid scoring pure and
// deterministic across re-closings.
type Geometry struct {
	segments  []route.Segment
	segmentKm []float64
	totalKm   float64
}

// NewGeometry computes the snapshot from a route's ordered segments.
// Segments with a missing stored distance fall back to great-circle
// distance between their endpoints.
func NewGeometry(r *route.Route) *Geometry {
	g := &Geometry{
		segments:  r.Segments,
		segmentKm: make([]float64, len(r.Segments)),
	}
	for i, seg := range r.Segments {
		km := seg.DistanceKm
		if km <= 0 {
			km = HaversineKm(seg.Start, seg.End)
		}
		g.segmentKm[i] = km
		g.totalKm += km
	}
	return g
}

// SegmentCount returns the number of route segments.
func (g *Geometry) SegmentCount() int {
	return len(g.segmentKm)
}

// SpanDistanceKm returns the along-route distance covered by the inclusive
// segment span [start, end]. Out-of-range spans yield 0.
func (g *Geometry) SpanDistanceKm(start, end int) float64 {
	if start < 0 || start > end || end >= len(g.segmentKm) {
		return 0
	}
	var km float64
	for i := start; i <= end; i++ {
		km += g.segmentKm[i]
	}
	return km
}

// TotalDistanceKm returns the full route length.
func (g *Geometry) TotalDistanceKm() float64 {
	return g.totalKm
}

// DetourPenalty estimates in [0, 1] how far the span deviates from a
// straight line: 0 means the road hugs the crow-flies path, values toward 1
// mean heavy winding (a proxy for pickup/dropoff detour cost).
func (g *Geometry) DetourPenalty(start, end int) float64 {
	along := g.SpanDistanceKm(start, end)
	if along <= 0 || start < 0 || end >= len(g.segments) {
		return 0
	}
	straight := HaversineKm(g.segments[start].Start, g.segments[end].End)
	penalty := 1.0 - straight/along
	if penalty < 0 {
		return 0
	}
	if penalty > 1 {
		return 1
	}
	return penalty
}
