package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

// modelPrices is matched by longest prefix, so dated snapshots such as
// "claude-haiku-4-5-20251001" share their family's price. OpenRouter IDs
// carry a vendor prefix that LookupCost strips.
var modelPrices = []struct {
	prefix string
	cost   ModelCost
}{
	{"claude-3-5-haiku", ModelCost{0.8, 4}},
	{"claude-3-haiku", ModelCost{0.25, 1.25}},
	{"claude-haiku-4-5", ModelCost{1, 5}},
	{"claude-sonnet-4", ModelCost{3, 15}},
	{"claude-3-7-sonnet", ModelCost{3, 15}},
	{"claude-opus-4-5", ModelCost{5, 25}},
	{"claude-opus-4-1", ModelCost{15, 75}},
	{"claude-opus-4", ModelCost{15, 75}},

	{"gpt-4o-mini", ModelCost{0.15, 0.6}},
	{"gpt-4o", ModelCost{2.5, 10}},
	{"gpt-4.1-nano", ModelCost{0.1, 0.4}},
	{"gpt-4.1-mini", ModelCost{0.4, 1.6}},
	{"gpt-4.1", ModelCost{2, 8}},
	{"gpt-5-nano", ModelCost{0.05, 0.4}},
	{"gpt-5-mini", ModelCost{0.25, 2}},
	{"gpt-5", ModelCost{1.25, 10}},
	{"o4-mini", ModelCost{1.1, 4.4}},
	{"o3-mini", ModelCost{1.1, 4.4}},

	{"gemini-2.0-flash-lite", ModelCost{0.075, 0.3}},
	{"gemini-2.0-flash", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash-lite", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash", ModelCost{0.3, 2.5}},
	{"gemini-2.5-pro", ModelCost{1.25, 10}},
}

// LookupCost returns the price of a model, or nil when it is not listed.
func LookupCost(modelID string) *ModelCost {
	if i := strings.LastIndex(modelID, "/"); i >= 0 {
		modelID = modelID[i+1:]
	}
	var best *ModelCost
	bestLen := 0
	for i := range modelPrices {
		p := &modelPrices[i]
		if strings.HasPrefix(modelID, p.prefix) && len(p.prefix) > bestLen {
			c := p.cost
			best, bestLen = &c, len(p.prefix)
		}
	}
	return best
}
