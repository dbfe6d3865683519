// Package summary generates a markdown business summary of a set of
// orders using the Gemini API. The service is deliberately forgiving:
// a missing key, empty input or API failure all produce a descriptive
// text shown in place of a summary, never an error for the caller.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"google.golang.org/genai"

	"jewel-market-backend/internal/models"
)

const defaultModel = "gemini-2.5-flash"

const (
	disabledText = "AI features are disabled because the API key is not configured."
	emptyText    = "There is no order data to analyze."
	failureText  = "An error occurred while generating the AI summary. Please try again later."
)

const promptTemplate = `You are an expert business analyst for a high-end jewelry market.
Analyze the following list of recent orders and provide a concise, insightful summary for the business owner.
The data is provided as a JSON array.

Your summary should be formatted in Markdown and include:
1.  **Overall Status Breakdown:** A quick overview of how many orders are in each status category (e.g., Received, With Vendor, Completed).
2.  **Key Trends & Observations:** Identify any interesting patterns. For example, are certain Karigars (craftsmen) handling more orders? Are there any potential bottlenecks indicated by a large number of orders stuck in a particular status?
3.  **Actionable Advice:** Based on your analysis, provide one or two clear, actionable recommendations for the business owner to improve workflow or manage workload among Karigars.

Here is the order data:
%s`

// simplifiedOrder is the reduced record handed to the model. Pieces is
// a pointer so the NaN sentinel serializes as null.
type simplifiedOrder struct {
	Status  models.OrderStatus `json:"status"`
	Product string             `json:"product"`
	Pieces  *float64           `json:"pieces"`
	Karigar string             `json:"karigar"`
}

// Summarizer wraps the Gemini client. A nil client means the feature
// is disabled (no API key at startup).
type Summarizer struct {
	client *genai.Client
	model  string
}

// New builds a Summarizer. An empty apiKey disables the feature
// instead of failing startup.
func New(ctx context.Context, apiKey string) (*Summarizer, error) {
	if apiKey == "" {
		return &Summarizer{model: defaultModel}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Summarizer{client: client, model: defaultModel}, nil
}

// Enabled reports whether an API key was configured.
func (s *Summarizer) Enabled() bool {
	return s.client != nil
}

// Summarize returns the markdown summary text for the given orders.
func (s *Summarizer) Summarize(ctx context.Context, orders []models.Order) string {
	if s.client == nil {
		return disabledText
	}
	if len(orders) == 0 {
		return emptyText
	}

	simplified := make([]simplifiedOrder, len(orders))
	for i, o := range orders {
		rec := simplifiedOrder{
			Status:  o.Status,
			Product: o.ProductDescription,
			Karigar: o.KarigarName,
		}
		if !math.IsNaN(o.Pieces) {
			pieces := o.Pieces
			rec.Pieces = &pieces
		}
		simplified[i] = rec
	}

	data, err := json.Marshal(simplified)
	if err != nil {
		log.Printf("failed to marshal orders for summary: %v", err)
		return failureText
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(fmt.Sprintf(promptTemplate, data)), nil)
	if err != nil {
		log.Printf("gemini request failed: %v", err)
		return failureText
	}
	return resp.Text()
}
