// README: Gemini-backed price advisor.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAdvisor implements Advisor using Google's Gemini models.
type GeminiAdvisor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiAdvisor initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiAdvisor(ctx context.Context, apiKey string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Use Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature; price bands should be stable, not creative.
	model.SetTemperature(0.2)

	return &GeminiAdvisor{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (a *GeminiAdvisor) Close() {
	a.client.Close()
}

type bandResponse struct {
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// RefineBand asks the model to adjust the heuristic band for market
// plausibility. The caller treats any error as "keep the heuristic".
func (a *GeminiAdvisor) RefineBand(ctx context.Context, req AdvisorRequest) (float64, float64, error) {
	prompt := buildBandPrompt(req)

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, 0, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return 0, 0, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	cleanJSON := cleanJSONString(responseText.String())
	var band bandResponse
	if err := json.Unmarshal([]byte(cleanJSON), &band); err != nil {
		return 0, 0, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	if band.MinPrice <= 0 || band.MaxPrice < band.MinPrice {
		return 0, 0, fmt.Errorf("implausible band from model: %+v", band)
	}
	return band.MinPrice, band.MaxPrice, nil
}

func buildBandPrompt(req AdvisorRequest) string {
	basis := "a flat base rate (no auctions closed yet)"
	if req.HistoricalFit {
		basis = "historical winning prices on this platform"
	}
	return fmt.Sprintf(`Role: You are the pricing assistant for a return-trip parcel delivery marketplace in Sri Lanka.
A customer wants to ship a parcel of %.1f cubic metres along a %.1f km stretch of a driver's route.
Our heuristic, derived from %s, suggests offering between %.2f and %.2f %s.

Adjust this band only if it is clearly implausible for the market; otherwise keep it close.
Respond with JSON only: {"min_price": <number>, "max_price": <number>}`,
		req.VolumeM3, req.SpanKm, basis, req.HeuristicMin, req.HeuristicMax, req.Currency)
}

// cleanJSONString strips markdown code fences the model sometimes adds
// despite JSON response mode.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
