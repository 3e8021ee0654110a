// README: Pricing handler for bid price suggestions.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"backhaul/internal/modules/pricing"
	"backhaul/internal/types"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

func (h *PricingHandler) Suggest(c *gin.Context) {
	routeID := types.ID(c.Param("id"))
	if !routeID.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	start, err1 := strconv.Atoi(c.DefaultQuery("start_index", "0"))
	end, err2 := strconv.Atoi(c.DefaultQuery("end_index", "0"))
	volume, err3 := strconv.ParseFloat(c.DefaultQuery("volume_m3", "1"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		writeError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	suggestion, err := h.pricing.Suggest(c.Request.Context(), pricing.SuggestCommand{
		RouteID:    routeID,
		StartIndex: start,
		EndIndex:   end,
		VolumeM3:   volume,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, suggestion)
}
