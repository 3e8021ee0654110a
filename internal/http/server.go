// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backhaul/internal/http/handlers"
	"backhaul/internal/http/middleware"
	"backhaul/internal/modules/bid"
	"backhaul/internal/modules/pricing"
	"backhaul/internal/modules/route"
)

type ServerDeps struct {
	Route   *route.Service
	Bid     *bid.Service
	Auction handlers.AuctionOps
	Pricing *pricing.Service
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Logging(), middleware.Recovery())

	routeHandler := handlers.NewRouteHandler(s.deps.Route)
	engine.POST("/api/routes", routeHandler.Create)
	engine.GET("/api/routes/:id", routeHandler.Get)
	engine.POST("/api/routes/:id/cancel", routeHandler.Cancel)

	bidHandler := handlers.NewBidHandler(s.deps.Bid)
	engine.POST("/api/routes/:id/bids", bidHandler.Place)
	engine.GET("/api/routes/:id/bids", bidHandler.ListForRoute)

	auctionHandler := handlers.NewAuctionHandler(s.deps.Auction)
	engine.GET("/api/routes/:id/ranking", auctionHandler.RankingPreview)
	engine.POST("/api/admin/routes/:id/close", auctionHandler.Close)
	engine.POST("/api/admin/auction/sweep", auctionHandler.Sweep)

	pricingHandler := handlers.NewPricingHandler(s.deps.Pricing)
	engine.GET("/api/routes/:id/price-suggestion", pricingHandler.Suggest)

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return engine
}
