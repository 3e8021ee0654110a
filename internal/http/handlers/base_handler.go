// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backhaul/internal/modules/auction"
	"backhaul/internal/modules/bid"
	"backhaul/internal/modules/pricing"
	"backhaul/internal/modules/route"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, route.ErrNotFound), errors.Is(err, bid.ErrNotFound), errors.Is(err, auction.ErrRouteNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, route.ErrBadRequest), errors.Is(err, bid.ErrBadRequest), errors.Is(err, pricing.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, route.ErrInvalidState), errors.Is(err, route.ErrConflict),
		errors.Is(err, bid.ErrRouteClosed), errors.Is(err, bid.ErrWindowElapsed):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
