// README: Capacity-aware greedy allocation over ranked bids.
package auction

import "backhaul/internal/modules/bid"

// SelectOptimal walks bids in rank order and keeps each candidate whose
// volume, summed with every already-selected bid overlapping its segment
// span, still fits the vehicle capacity. Greedy with no backtracking, so
// not globally optimal; it is deterministic and fair given the ranked
// order. A bid whose volume alone exceeds capacity is never selected.
func SelectOptimal(ranked []ScoredBid, capacity float64) []ScoredBid {
	selected := make([]ScoredBid, 0, len(ranked))
	for _, candidate := range ranked {
		overlapping := 0.0
		for _, chosen := range selected {
			if bid.SpanOverlaps(candidate.StartIndex, candidate.EndIndex, chosen.StartIndex, chosen.EndIndex) {
				overlapping += chosen.VolumeM3
			}
		}
		if candidate.VolumeM3+overlapping <= capacity {
			selected = append(selected, candidate)
		}
	}
	return selected
}

// RankAll returns the full ranked list untouched by capacity filtering.
// The single-winner closing policy takes the head of this list.
func RankAll(ranked []ScoredBid) []ScoredBid {
	out := make([]ScoredBid, len(ranked))
	copy(out, ranked)
	return out
}
