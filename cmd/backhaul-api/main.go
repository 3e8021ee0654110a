// README: Entry point; loads config, wires services, starts HTTP server and the auction scheduler.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"backhaul/internal/config"
	httptransport "backhaul/internal/http"
	"backhaul/internal/infra"
	"backhaul/internal/maps"
	"backhaul/internal/modules/auction"
	"backhaul/internal/modules/bid"
	"backhaul/internal/modules/geo"
	"backhaul/internal/modules/pricing"
	"backhaul/internal/modules/route"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var distancer route.Distancer
	if cfg.Maps.APIKey != "" {
		svc, err := maps.NewDistanceService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		distancer = svc
	} else {
		log.Print("GOOGLE_MAPS_API_KEY not set; segment distances fall back to haversine")
	}

	routeStore := route.NewStore(dbPool)
	routeSvc := route.NewService(routeStore, distancer)

	bidStore := bid.NewStore(dbPool)
	bidSvc := bid.NewService(bidStore, routeSvc, cfg.Auction.ClosingLead)

	geoSvc := geo.NewService(routeStore, redisClient)

	var advisor pricing.Advisor
	if cfg.AI.GeminiKey != "" {
		gem, err := pricing.NewGeminiAdvisor(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gem.Close()
		advisor = gem
	} else {
		log.Print("GEMINI_API_KEY not set; price suggestions use the heuristic only")
	}
	pricingStore := pricing.NewStore(dbPool)
	pricingSvc := pricing.NewService(pricingStore, geoSvc, advisor)

	auctionStore := auction.NewPgStore(dbPool, routeStore, bidStore)
	engine := auction.NewEngine(auction.WeightsFromConfig(cfg.Auction))
	closer := auction.NewCloser(auctionStore, engine, cfg.Auction.CapacityFallback)
	scheduler := auction.NewScheduler(auctionStore, closer, cfg.Auction)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Route:   routeSvc,
		Bid:     bidSvc,
		Auction: scheduler,
		Pricing: pricingSvc,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go scheduler.Run(ctx)

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("backhaul-api listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
