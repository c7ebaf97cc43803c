package llm

import "github.com/eltonarunga/lugha-learner-kenya/internal/store"

// ModelCost holds per-million-token pricing for a model.
type ModelCost struct {
	InputPerMTok  float64 // USD per 1M input tokens
	OutputPerMTok float64 // USD per 1M output tokens
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the default and common partner models, in USD per
// million tokens.
var modelCosts = map[string]ModelCost{
	"claude-3-5-haiku-latest":   {0.8, 4},
	"claude-haiku-4-5":          {1, 5},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-5":         {3, 15},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-flash-latest":   {0.3, 2.5},
}

// TotalCost sums the estimated cost of recorded requests. priced counts
// the events whose model was in the table.
func TotalCost(events []store.LLMRequestEvent) (usd float64, priced int) {
	for _, e := range events {
		c := LookupCost(e.Model)
		if c == nil {
			continue
		}
		usd += c.Cost(e.InputTokens, e.OutputTokens)
		priced++
	}
	return usd, priced
}
