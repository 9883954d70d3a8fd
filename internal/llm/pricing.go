package llm

import "strings"

// price is USD per million tokens.
type price struct{ in, out float64 }

// prices covers the default and aliased tutor models. Served model names
// often carry a date suffix, so lookups fall back to the longest prefix.
var prices = map[string]price{
	"claude-haiku-4-5":            {1, 5},
	"claude-sonnet-4":             {3, 15},
	"gpt-4o":                      {2.5, 10},
	"gpt-4o-mini":                 {0.15, 0.6},
	"gemini-2.0-flash":            {0.1, 0.4},
	"google/gemini-2.0-flash-001": {0.1, 0.4},
}

// Cost estimates the USD cost of a call. ok is false for unpriced models.
func Cost(model string, inputTokens, outputTokens int) (usd float64, ok bool) {
	p, ok := prices[model]
	if !ok {
		best := ""
		for id := range prices {
			if strings.HasPrefix(model, id) && len(id) > len(best) {
				best = id
			}
		}
		if best == "" {
			return 0, false
		}
		p = prices[best]
	}
	return (float64(inputTokens)*p.in + float64(outputTokens)*p.out) / 1e6, true
}
