// README: Admin auction handlers for manual close, sweep, and ranking preview.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"backhaul/internal/modules/auction"
	"backhaul/internal/types"
)

// AuctionOps is the slice of the scheduler and closer the handlers use.
type AuctionOps interface {
	ManualClose(ctx context.Context, routeID types.ID) (auction.Result, error)
	Sweep(ctx context.Context) auction.Summary
	RankingPreview(ctx context.Context, routeID types.ID) (ranked, optimal []auction.ScoredBid, err error)
}

type AuctionHandler struct {
	ops AuctionOps
}

func NewAuctionHandler(ops AuctionOps) *AuctionHandler {
	return &AuctionHandler{ops: ops}
}

func (h *AuctionHandler) Close(c *gin.Context) {
	routeID := types.ID(c.Param("id"))
	if !routeID.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	res, err := h.ops.ManualClose(c.Request.Context(), routeID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	body := gin.H{"route_id": res.RouteID, "outcome": res.Outcome}
	if res.Outcome == auction.OutcomeCommitted {
		body["winning_bid_id"] = res.WinningBidID
	}
	writeJSON(c, http.StatusOK, body)
}

func (h *AuctionHandler) Sweep(c *gin.Context) {
	summary := h.ops.Sweep(c.Request.Context())
	writeJSON(c, http.StatusOK, summary)
}

type scoredBidResp struct {
	BidID              types.ID `json:"bid_id"`
	OfferedPrice       string   `json:"offered_price"`
	VolumeM3           float64  `json:"volume_m3"`
	StartIndex         int      `json:"start_index"`
	EndIndex           int      `json:"end_index"`
	NormalizedPrice    float64  `json:"normalized_price"`
	NormalizedVolume   float64  `json:"normalized_volume"`
	NormalizedDistance float64  `json:"normalized_distance"`
	DetourPenalty      float64  `json:"detour_penalty"`
	Score              float64  `json:"score"`
}

// RankingPreview exposes both allocation policies read-only: the full
// single-winner ranking and the capacity-aware multi-winner selection.
func (h *AuctionHandler) RankingPreview(c *gin.Context) {
	routeID := types.ID(c.Param("id"))
	if !routeID.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	ranked, optimal, err := h.ops.RankingPreview(c.Request.Context(), routeID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"route_id": routeID,
		"ranked":   toScoredResp(ranked),
		"optimal":  toScoredResp(optimal),
	})
}

func toScoredResp(scored []auction.ScoredBid) []scoredBidResp {
	out := make([]scoredBidResp, len(scored))
	for i, sb := range scored {
		out[i] = scoredBidResp{
			BidID:              sb.ID,
			OfferedPrice:       sb.OfferedPrice.StringFixed(2),
			VolumeM3:           sb.VolumeM3,
			StartIndex:         sb.StartIndex,
			EndIndex:           sb.EndIndex,
			NormalizedPrice:    sb.NormalizedPrice,
			NormalizedVolume:   sb.NormalizedVolume,
			NormalizedDistance: sb.NormalizedDistance,
			DetourPenalty:      sb.DetourPenalty,
			Score:              sb.Score,
		}
	}
	return out
}
