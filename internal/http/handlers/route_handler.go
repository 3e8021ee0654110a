// README: Route handlers for create/get/cancel.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

type RouteHandler struct {
	routes *route.Service
}

func NewRouteHandler(svc *route.Service) *RouteHandler {
	return &RouteHandler{routes: svc}
}

type waypointReq struct {
	TownName string  `json:"town_name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type createRouteReq struct {
	DriverID      string        `json:"driver_id"`
	CapacityM3    float64       `json:"capacity_m3"`
	DepartureTime time.Time     `json:"departure_time"`
	Waypoints     []waypointReq `json:"waypoints"`
}

func (h *RouteHandler) Create(c *gin.Context) {
	var req createRouteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	waypoints := make([]route.Waypoint, len(req.Waypoints))
	for i, w := range req.Waypoints {
		waypoints[i] = route.Waypoint{
			TownName: w.TownName,
			Position: types.Point{Lat: w.Lat, Lng: w.Lng},
		}
	}
	id, err := h.routes.Create(c.Request.Context(), route.CreateCommand{
		DriverID:      types.ID(req.DriverID),
		CapacityM3:    req.CapacityM3,
		DepartureTime: req.DepartureTime,
		Waypoints:     waypoints,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"route_id": id, "status": route.StatusOpen})
}

type segmentResp struct {
	Index      int     `json:"index"`
	TownName   string  `json:"town_name"`
	DistanceKm float64 `json:"distance_km"`
}

func (h *RouteHandler) Get(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !id.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	r, err := h.routes.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	segs := make([]segmentResp, len(r.Segments))
	for i, s := range r.Segments {
		segs[i] = segmentResp{Index: s.Index, TownName: s.TownName, DistanceKm: s.DistanceKm}
	}
	writeJSON(c, http.StatusOK, gin.H{
		"route_id":       r.ID,
		"driver_id":      r.DriverID,
		"status":         r.Status,
		"capacity_m3":    r.CapacityM3,
		"departure_time": r.DepartureTime,
		"segments":       segs,
	})
}

func (h *RouteHandler) Cancel(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if !id.Valid() {
		writeError(c, http.StatusBadRequest, "invalid route id")
		return
	}
	err := h.routes.Cancel(c.Request.Context(), route.CancelCommand{RouteID: id})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"route_id": id, "status": route.StatusCancelled})
}
