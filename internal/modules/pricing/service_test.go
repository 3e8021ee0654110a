// README: Pricing service tests (heuristic band, historical rates, advisor).
package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"backhaul/internal/modules/geo"
	"backhaul/internal/modules/route"
	"backhaul/internal/types"
)

type fakeRates struct {
	avg float64
	ok  bool
	err error
}

func (f fakeRates) AverageAcceptedPricePerKm(ctx context.Context) (float64, bool, error) {
	return f.avg, f.ok, f.err
}

type fakeGeometry struct {
	g   *geo.Geometry
	err error
}

func (f fakeGeometry) ForRouteID(ctx context.Context, routeID types.ID) (*geo.Geometry, error) {
	return f.g, f.err
}

type fakeAdvisor struct {
	min, max float64
	err      error
	called   bool
}

func (f *fakeAdvisor) RefineBand(ctx context.Context, req AdvisorRequest) (float64, float64, error) {
	f.called = true
	return f.min, f.max, f.err
}

// twoSegmentGeometry is 100 km total, 50 km per segment.
func twoSegmentGeometry() *geo.Geometry {
	return geo.NewGeometry(&route.Route{
		ID: "r1",
		Segments: []route.Segment{
			{Index: 0, DistanceKm: 50, Start: types.Point{Lat: 0, Lng: 0}, End: types.Point{Lat: 0, Lng: 0.45}},
			{Index: 1, DistanceKm: 50, Start: types.Point{Lat: 0, Lng: 0.45}, End: types.Point{Lat: 0, Lng: 0.9}},
		},
	})
}

func suggestCmd() SuggestCommand {
	return SuggestCommand{RouteID: "r1", StartIndex: 0, EndIndex: 1, VolumeM3: 10}
}

func TestSuggestBaseRateBand(t *testing.T) {
	svc := NewService(fakeRates{ok: false}, fakeGeometry{g: twoSegmentGeometry()}, nil)

	got, err := svc.Suggest(context.Background(), suggestCmd())
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got.Basis != BasisBaseRate {
		t.Fatalf("basis = %s, want %s", got.Basis, BasisBaseRate)
	}
	// 55/km * 100km * 1.1 volume factor = 6050, band +/- 15%.
	if !got.MinPrice.Equal(decimal.NewFromFloat(5142.50)) {
		t.Errorf("MinPrice = %s, want 5142.5", got.MinPrice)
	}
	if !got.MaxPrice.Equal(decimal.NewFromFloat(6957.50)) {
		t.Errorf("MaxPrice = %s, want 6957.5", got.MaxPrice)
	}
	if got.Currency != "LKR" {
		t.Errorf("currency = %s, want LKR", got.Currency)
	}
}

func TestSuggestUsesHistoricalRate(t *testing.T) {
	svc := NewService(fakeRates{avg: 80, ok: true}, fakeGeometry{g: twoSegmentGeometry()}, nil)

	got, err := svc.Suggest(context.Background(), suggestCmd())
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if got.Basis != BasisHistorical {
		t.Fatalf("basis = %s, want %s", got.Basis, BasisHistorical)
	}
	// 80/km * 100km * 1.1 = 8800, band +/- 15%.
	if !got.MinPrice.Equal(decimal.NewFromFloat(7480)) {
		t.Errorf("MinPrice = %s, want 7480", got.MinPrice)
	}
}

func TestSuggestRateQueryFailureFallsBack(t *testing.T) {
	svc := NewService(fakeRates{err: errors.New("db down")}, fakeGeometry{g: twoSegmentGeometry()}, nil)

	got, err := svc.Suggest(context.Background(), suggestCmd())
	if err != nil {
		t.Fatalf("a failing rate query must not fail the request: %v", err)
	}
	if got.Basis != BasisBaseRate {
		t.Fatalf("basis = %s, want %s", got.Basis, BasisBaseRate)
	}
}

func TestSuggestAdvisorRefinesBand(t *testing.T) {
	advisor := &fakeAdvisor{min: 5000, max: 6000}
	svc := NewService(fakeRates{ok: false}, fakeGeometry{g: twoSegmentGeometry()}, advisor)

	got, err := svc.Suggest(context.Background(), suggestCmd())
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !advisor.called {
		t.Fatal("advisor was not consulted")
	}
	if got.Basis != BasisAIAdjusted {
		t.Fatalf("basis = %s, want %s", got.Basis, BasisAIAdjusted)
	}
	if !got.MinPrice.Equal(decimal.NewFromInt(5000)) || !got.MaxPrice.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("band = [%s, %s], want [5000, 6000]", got.MinPrice, got.MaxPrice)
	}
}

func TestSuggestAdvisorFailureKeepsHeuristic(t *testing.T) {
	cases := []struct {
		name    string
		advisor *fakeAdvisor
	}{
		{"advisor errors", &fakeAdvisor{err: errors.New("model timeout")}},
		{"inverted band", &fakeAdvisor{min: 6000, max: 5000}},
		{"non-positive band", &fakeAdvisor{min: -1, max: 100}},
	}
	for _, tc := range cases {
		svc := NewService(fakeRates{ok: false}, fakeGeometry{g: twoSegmentGeometry()}, tc.advisor)
		got, err := svc.Suggest(context.Background(), suggestCmd())
		if err != nil {
			t.Fatalf("%s: advisor trouble must not fail the request: %v", tc.name, err)
		}
		if got.Basis != BasisBaseRate {
			t.Errorf("%s: basis = %s, want %s", tc.name, got.Basis, BasisBaseRate)
		}
	}
}

func TestSuggestRejectsBadInput(t *testing.T) {
	svc := NewService(fakeRates{ok: false}, fakeGeometry{g: twoSegmentGeometry()}, nil)

	cases := []struct {
		name string
		cmd  SuggestCommand
	}{
		{"negative start", SuggestCommand{RouteID: "r1", StartIndex: -1, EndIndex: 1, VolumeM3: 10}},
		{"inverted span", SuggestCommand{RouteID: "r1", StartIndex: 1, EndIndex: 0, VolumeM3: 10}},
		{"end beyond segments", SuggestCommand{RouteID: "r1", StartIndex: 0, EndIndex: 2, VolumeM3: 10}},
		{"zero volume", SuggestCommand{RouteID: "r1", StartIndex: 0, EndIndex: 1, VolumeM3: 0}},
	}
	for _, tc := range cases {
		if _, err := svc.Suggest(context.Background(), tc.cmd); !errors.Is(err, ErrBadRequest) {
			t.Errorf("%s: expected ErrBadRequest, got %v", tc.name, err)
		}
	}
}

func TestSuggestUnknownRoute(t *testing.T) {
	svc := NewService(fakeRates{ok: false}, fakeGeometry{err: route.ErrNotFound}, nil)

	if _, err := svc.Suggest(context.Background(), suggestCmd()); !errors.Is(err, route.ErrNotFound) {
		t.Fatalf("expected route.ErrNotFound, got %v", err)
	}
}
