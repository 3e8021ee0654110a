// README: Pricing service computes suggested bid price bands.
package pricing

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"backhaul/internal/modules/geo"
	"backhaul/internal/types"
)

var ErrBadRequest = errors.New("bad request")

const (
	// Fallback rate before any auction has closed.
	baseRatePerKm = 55.0
	currency      = "LKR"
	// Band half-width around the point estimate.
	bandSpread = 0.15
)

// HistoricalRates is the slice of the store the service needs.
type HistoricalRates interface {
	AverageAcceptedPricePerKm(ctx context.Context) (float64, bool, error)
}

// GeometrySource resolves a route's geometry snapshot.
type GeometrySource interface {
	ForRouteID(ctx context.Context, routeID types.ID) (*geo.Geometry, error)
}

// Advisor refines a heuristic band, typically via an LLM. Optional.
type Advisor interface {
	RefineBand(ctx context.Context, req AdvisorRequest) (min, max float64, err error)
}

// AdvisorRequest carries the facts the advisor may weigh.
type AdvisorRequest struct {
	SpanKm        float64
	VolumeM3      float64
	HeuristicMin  float64
	HeuristicMax  float64
	Currency      string
	HistoricalFit bool
}

type Service struct {
	rates    HistoricalRates
	geometry GeometrySource
	advisor  Advisor
}

// NewService creates a pricing service. advisor may be nil; suggestions
// then rest on the heuristic alone.
func NewService(rates HistoricalRates, geometry GeometrySource, advisor Advisor) *Service {
	return &Service{rates: rates, geometry: geometry, advisor: advisor}
}

type SuggestCommand struct {
	RouteID    types.ID
	StartIndex int
	EndIndex   int
	VolumeM3   float64
}

// Suggest produces a price band for bidding on the given span. Historical
// winning prices drive the rate when available; the LLM advisor may adjust
// the band but its failure never fails the request.
func (s *Service) Suggest(ctx context.Context, cmd SuggestCommand) (Suggestion, error) {
	if cmd.StartIndex < 0 || cmd.StartIndex > cmd.EndIndex || cmd.VolumeM3 <= 0 {
		return Suggestion{}, ErrBadRequest
	}

	g, err := s.geometry.ForRouteID(ctx, cmd.RouteID)
	if err != nil {
		return Suggestion{}, err
	}
	if cmd.EndIndex >= g.SegmentCount() {
		return Suggestion{}, ErrBadRequest
	}
	spanKm := g.SpanDistanceKm(cmd.StartIndex, cmd.EndIndex)

	rate := baseRatePerKm
	basis := BasisBaseRate
	historical := false
	if avg, ok, err := s.rates.AverageAcceptedPricePerKm(ctx); err != nil {
		log.Printf("pricing: historical rate query failed, using base rate: %v", err)
	} else if ok && avg > 0 {
		rate = avg
		basis = BasisHistorical
		historical = true
	}

	// Larger parcels claim more of the shared capacity, which the scoring
	// engine rewards; nudge the estimate up with volume.
	estimate := rate * spanKm * (1 + cmd.VolumeM3/100.0)
	min := estimate * (1 - bandSpread)
	max := estimate * (1 + bandSpread)

	if s.advisor != nil {
		refinedMin, refinedMax, err := s.advisor.RefineBand(ctx, AdvisorRequest{
			SpanKm:        spanKm,
			VolumeM3:      cmd.VolumeM3,
			HeuristicMin:  min,
			HeuristicMax:  max,
			Currency:      currency,
			HistoricalFit: historical,
		})
		if err != nil {
			log.Printf("pricing: advisor refinement failed, keeping heuristic: %v", err)
		} else if refinedMin > 0 && refinedMax >= refinedMin {
			min, max = refinedMin, refinedMax
			basis = BasisAIAdjusted
		}
	}

	return Suggestion{
		MinPrice: decimal.NewFromFloat(min).Round(2),
		MaxPrice: decimal.NewFromFloat(max).Round(2),
		Currency: currency,
		Basis:    basis,
	}, nil
}
