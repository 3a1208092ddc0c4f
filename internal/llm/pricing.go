package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	Input  float64
	Output float64
}

// Cost prices u in USD.
func (c ModelCost) Cost(u Usage) float64 {
	return (float64(u.InputTokens)*c.Input + float64(u.OutputTokens)*c.Output) / 1e6
}

// EstimateCost prices u for model. OpenRouter ids are matched after their
// vendor prefix. ok is false for models missing from the table.
func EstimateCost(model string, u Usage) (cost float64, ok bool) {
	c, ok := modelCosts[model]
	if !ok {
		if _, bare, found := strings.Cut(model, "/"); found {
			c, ok = modelCosts[bare]
		}
	}
	if !ok {
		return 0, false
	}
	return c.Cost(u), true
}

// Prices as published by each vendor, 2025-10.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-sonnet-4-20250514":   {3, 15},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-001":  {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-pro":        {1.25, 10},
}
