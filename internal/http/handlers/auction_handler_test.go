// README: Auction handler tests with a stubbed scheduler.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"backhaul/internal/modules/auction"
	"backhaul/internal/types"
)

type stubAuctionOps struct {
	closeResult auction.Result
	closeErr    error
	summary     auction.Summary
	ranked      []auction.ScoredBid
	optimal     []auction.ScoredBid
	previewErr  error
}

func (s *stubAuctionOps) ManualClose(ctx context.Context, routeID types.ID) (auction.Result, error) {
	return s.closeResult, s.closeErr
}

func (s *stubAuctionOps) Sweep(ctx context.Context) auction.Summary {
	return s.summary
}

func (s *stubAuctionOps) RankingPreview(ctx context.Context, routeID types.ID) ([]auction.ScoredBid, []auction.ScoredBid, error) {
	return s.ranked, s.optimal, s.previewErr
}

func auctionRouter(ops AuctionOps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuctionHandler(ops)
	r := gin.New()
	r.POST("/api/admin/routes/:id/close", h.Close)
	r.POST("/api/admin/auction/sweep", h.Sweep)
	r.GET("/api/routes/:id/ranking", h.RankingPreview)
	return r
}

const testRouteID = "8f14e45f-ceea-4e7b-9d5c-1b4f0e3c2a91"

func TestCloseCommitted(t *testing.T) {
	ops := &stubAuctionOps{closeResult: auction.Result{
		RouteID:      testRouteID,
		Outcome:      auction.OutcomeCommitted,
		WinningBidID: "b1",
	}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/routes/"+testRouteID+"/close", nil)
	auctionRouter(ops).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["outcome"] != string(auction.OutcomeCommitted) {
		t.Errorf("outcome = %v, want committed", body["outcome"])
	}
	if body["winning_bid_id"] != "b1" {
		t.Errorf("winning_bid_id = %v, want b1", body["winning_bid_id"])
	}
}

func TestCloseNoPendingBidsOmitsWinner(t *testing.T) {
	ops := &stubAuctionOps{closeResult: auction.Result{
		RouteID: testRouteID,
		Outcome: auction.OutcomeNoPendingBids,
	}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/routes/"+testRouteID+"/close", nil)
	auctionRouter(ops).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["winning_bid_id"]; ok {
		t.Error("winning_bid_id must be omitted when nothing was committed")
	}
}

func TestCloseInvalidRouteID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/routes/not-a-uuid/close", nil)
	auctionRouter(&stubAuctionOps{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCloseRouteNotFound(t *testing.T) {
	ops := &stubAuctionOps{closeErr: auction.ErrRouteNotFound}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/routes/"+testRouteID+"/close", nil)
	auctionRouter(ops).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSweepReturnsSummary(t *testing.T) {
	ops := &stubAuctionOps{summary: auction.Summary{RoutesProcessed: 3, Committed: 2, Skipped: 1}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auction/sweep", nil)
	auctionRouter(ops).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var summary auction.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary != ops.summary {
		t.Errorf("summary = %+v, want %+v", summary, ops.summary)
	}
}

func TestRankingPreview(t *testing.T) {
	sb := auction.ScoredBid{Score: 0.84}
	sb.ID = "b1"
	ops := &stubAuctionOps{ranked: []auction.ScoredBid{sb}, optimal: []auction.ScoredBid{sb}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/routes/"+testRouteID+"/ranking", nil)
	auctionRouter(ops).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		RouteID types.ID        `json:"route_id"`
		Ranked  []scoredBidResp `json:"ranked"`
		Optimal []scoredBidResp `json:"optimal"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Ranked) != 1 || body.Ranked[0].BidID != "b1" {
		t.Errorf("unexpected ranked payload: %+v", body.Ranked)
	}
	if body.Ranked[0].Score != 0.84 {
		t.Errorf("score = %f, want 0.84", body.Ranked[0].Score)
	}
}
