// README: Bid handlers for placement and listing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backhaul/internal/modules/bid"
	"backhaul/internal/types"
)

type BidHandler struct {
	bids *bid.Service
}

func NewBidHandler(svc *bid.Service) *BidHandler {
	return &BidHandler{bids: svc}
}

type placeBidReq struct {
	RequesterID  string  `json:"requester_id"`
	OfferedPrice string  `json:"offered_price"`
	VolumeM3     float64 `json:"volume_m3"`
	StartIndex   int     `json:"start_index"`
	EndIndex     int     `json:"end_index"`
}

func (h *BidHandler) Place(c *gin.Context) {
	routeID := types.ID(c.Param("id"))
	if !routeID.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	var req placeBidReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	price, err := decimal.NewFromString(req.OfferedPrice)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid offered_price")
		return
	}
	id, err := h.bids.Place(c.Request.Context(), bid.PlaceCommand{
		RouteID:      routeID,
		RequesterID:  types.ID(req.RequesterID),
		OfferedPrice: price,
		VolumeM3:     req.VolumeM3,
		StartIndex:   req.StartIndex,
		EndIndex:     req.EndIndex,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"bid_id": id, "status": bid.StatusPending})
}

type bidResp struct {
	BidID        types.ID   `json:"bid_id"`
	RequesterID  types.ID   `json:"requester_id"`
	OfferedPrice string     `json:"offered_price"`
	VolumeM3     float64    `json:"volume_m3"`
	StartIndex   int        `json:"start_index"`
	EndIndex     int        `json:"end_index"`
	Status       bid.Status `json:"status"`
}

func (h *BidHandler) ListForRoute(c *gin.Context) {
	routeID := types.ID(c.Param("id"))
	if !routeID.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	bids, err := h.bids.ListForRoute(c.Request.Context(), routeID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]bidResp, len(bids))
	for i, b := range bids {
		out[i] = bidResp{
			BidID:        b.ID,
			RequesterID:  b.RequesterID,
			OfferedPrice: b.OfferedPrice.StringFixed(2),
			VolumeM3:     b.VolumeM3,
			StartIndex:   b.StartIndex,
			EndIndex:     b.EndIndex,
			Status:       b.Status,
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"route_id": routeID, "bids": out})
}
