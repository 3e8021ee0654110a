// README: Bid ranking engine; pure multi-criteria scoring over pending bids.
package auction

import (
	"errors"
	"log"
	"sort"

	"backhaul/internal/config"
	"backhaul/internal/modules/bid"
)

var (
	errNonPositiveVolume = errors.New("non-positive volume")
	errNonPositivePrice  = errors.New("non-positive offered price")
	errInvalidSpan       = errors.New("segment span out of range")
)

// Weights is the score weight vector. Passed in explicitly at call time so
// scoring stays pure and testable; callers use fractions for
// interpretability, but the engine does not require them to sum to 1.0.
type Weights struct {
	Price    float64
	Volume   float64
	Distance float64
	Detour   float64
}

// WeightsFromConfig lifts the externally tuned weight values into the
// engine's vector.
func WeightsFromConfig(cfg config.AuctionConfig) Weights {
	return Weights{
		Price:    cfg.WeightPrice,
		Volume:   cfg.WeightVolume,
		Distance: cfg.WeightDistance,
		Detour:   cfg.WeightDetour,
	}
}

// Geometry is what the engine needs to know about a route's shape. The geo
// module's snapshot satisfies it; tests substitute fixed-value stubs.
type Geometry interface {
	SegmentCount() int
	SpanDistanceKm(start, end int) float64
	TotalDistanceKm() float64
	DetourPenalty(start, end int) float64
}

// ScoredBid is a bid enriched with its normalized sub-scores and final
// weighted score. Ephemeral: never persisted, recomputed on every pass.
type ScoredBid struct {
	bid.Bid
	NormalizedPrice    float64
	NormalizedVolume   float64
	NormalizedDistance float64
	DetourPenalty      float64
	Score              float64
}

type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Rank scores every well-formed pending bid and returns them ordered by
// score descending, ties broken by earliest submission then id. Degenerate
// bids (non-positive volume or price, bad segment span) are excluded with a
// warning rather than aborting the pass. Zero input yields zero output.
func (e *Engine) Rank(bids []bid.Bid, capacity float64, geom Geometry) []ScoredBid {
	if len(bids) == 0 {
		return nil
	}

	candidates := make([]bid.Bid, 0, len(bids))
	for _, b := range bids {
		if err := scoringInputValid(b, geom.SegmentCount()); err != nil {
			log.Printf("auction: excluding bid %s from ranking: %v", b.ID, err)
			continue
		}
		candidates = append(candidates, b)
	}
	if len(candidates) == 0 {
		return nil
	}

	minPrice, maxPrice := priceRange(candidates)
	totalKm := geom.TotalDistanceKm()

	scored := make([]ScoredBid, 0, len(candidates))
	for _, b := range candidates {
		sb := ScoredBid{Bid: b}

		// All-equal prices collapse the range; midpoint keeps the term
		// neutral instead of dividing by zero.
		if maxPrice == minPrice {
			sb.NormalizedPrice = 0.5
		} else {
			price, _ := b.OfferedPrice.Float64()
			sb.NormalizedPrice = (price - minPrice) / (maxPrice - minPrice)
		}

		// Deliberately not clamped at 1.0: a ratio above 1 marks an
		// oversized bid, which the allocator treats as infeasible.
		if capacity > 0 {
			sb.NormalizedVolume = b.VolumeM3 / capacity
		}

		if totalKm > 0 {
			sb.NormalizedDistance = geom.SpanDistanceKm(b.StartIndex, b.EndIndex) / totalKm
		}

		sb.DetourPenalty = geom.DetourPenalty(b.StartIndex, b.EndIndex)

		sb.Score = e.weights.Price*sb.NormalizedPrice +
			e.weights.Volume*sb.NormalizedVolume +
			e.weights.Distance*sb.NormalizedDistance +
			e.weights.Detour*(1-sb.DetourPenalty)

		scored = append(scored, sb)
	}

	sortScored(scored)
	return scored
}

// sortScored orders by score descending with a deterministic total order:
// earlier submission wins ties, id breaks exact timestamp collisions.
func sortScored(scored []ScoredBid) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if !scored[i].CreatedAt.Equal(scored[j].CreatedAt) {
			return scored[i].CreatedAt.Before(scored[j].CreatedAt)
		}
		return scored[i].ID < scored[j].ID
	})
}

func priceRange(bids []bid.Bid) (min, max float64) {
	for i, b := range bids {
		price, _ := b.OfferedPrice.Float64()
		if i == 0 || price < min {
			min = price
		}
		if i == 0 || price > max {
			max = price
		}
	}
	return min, max
}

func scoringInputValid(b bid.Bid, segmentCount int) error {
	if b.VolumeM3 <= 0 {
		return errNonPositiveVolume
	}
	if !b.OfferedPrice.IsPositive() {
		return errNonPositivePrice
	}
	if b.StartIndex < 0 || b.StartIndex > b.EndIndex || b.EndIndex >= segmentCount {
		return errInvalidSpan
	}
	return nil
}
