// README: Recurring auction sweep; discovers elapsed bidding windows and closes them.
package auction

import (
	"context"
	"log"
	"time"

	"backhaul/internal/config"
	"backhaul/internal/types"
)

// Summary aggregates one sweep's per-route outcomes.
type Summary struct {
	RoutesProcessed int `json:"routes_processed"`
	Committed       int `json:"committed"`
	Skipped         int `json:"skipped"`
	Failed          int `json:"failed"`
}

// Scheduler drives the closing engine on a fixed interval. It holds no
// state across ticks beyond the timer: eligibility and idempotency are
// re-derived from the store every pass, so a crash between ticks self-heals
// on the next one.
type Scheduler struct {
	store       Store
	closer      *Closer
	interval    time.Duration
	tickTimeout time.Duration
	closingLead time.Duration
}

func NewScheduler(store Store, closer *Closer, cfg config.AuctionConfig) *Scheduler {
	return &Scheduler{
		store:       store,
		closer:      closer,
		interval:    time.Duration(cfg.TickSeconds) * time.Second,
		tickTimeout: cfg.TickTimeout,
		closingLead: cfg.ClosingLead,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Each tick
// runs under its own timeout so a stuck route cannot stall later ticks.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, s.tickTimeout)
			summary := s.Sweep(tickCtx)
			cancel()
			if summary.RoutesProcessed > 0 {
				log.Printf("auction: sweep done: processed=%d committed=%d skipped=%d failed=%d",
					summary.RoutesProcessed, summary.Committed, summary.Skipped, summary.Failed)
			}
		}
	}
}

// Sweep closes every eligible route once, in deadline order. A failure on
// one route is logged and does not abort the rest of the tick.
func (s *Scheduler) Sweep(ctx context.Context) Summary {
	var summary Summary

	ids, err := s.store.ListEligibleRoutes(ctx, s.closingLead)
	if err != nil {
		log.Printf("auction: eligible-route query failed: %v", err)
		return summary
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			log.Printf("auction: sweep cut short: %v", ctx.Err())
			return summary
		}
		summary.RoutesProcessed++
		res := s.closer.CloseRoute(ctx, id)
		switch res.Outcome {
		case OutcomeCommitted:
			summary.Committed++
		case OutcomeAlreadyClosed, OutcomeNoPendingBids:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
			log.Printf("auction: closing route %s failed: %v", id, res.Err)
		}
	}
	return summary
}

// ManualClose closes one route on demand, bypassing the eligibility
// predicate. Used by the admin endpoint; the idempotency gate makes racing
// a scheduled sweep safe.
func (s *Scheduler) ManualClose(ctx context.Context, routeID types.ID) (Result, error) {
	res := s.closer.CloseRoute(ctx, routeID)
	if res.Outcome == OutcomeFailed && res.Err != nil {
		return res, res.Err
	}
	return res, nil
}

// RankingPreview delegates to the closer's read-only scoring pass.
func (s *Scheduler) RankingPreview(ctx context.Context, routeID types.ID) ([]ScoredBid, []ScoredBid, error) {
	return s.closer.RankingPreview(ctx, routeID)
}
