// README: Price suggestion model for bidders.
package pricing

import "github.com/shopspring/decimal"

// Suggestion is a recommended offered-price band for a parcel on a given
// span of a route. Advisory only; bidders may offer anything.
type Suggestion struct {
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
	Currency string          `json:"currency"`
	// Basis names how the band was produced: "historical", "base_rate",
	// or "ai_adjusted".
	Basis string `json:"basis"`
}

const (
	BasisHistorical = "historical"
	BasisBaseRate   = "base_rate"
	BasisAIAdjusted = "ai_adjusted"
)
