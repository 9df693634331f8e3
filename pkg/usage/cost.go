package usage

// CostModel maps token counts to estimated spend using per-million
// rates. It is a pure value; the zero model prices everything at zero.
type CostModel struct {
	// PerMillionInput is the USD price per one million prompt tokens.
	PerMillionInput float64

	// PerMillionOutput is the USD price per one million completion
	// tokens.
	PerMillionOutput float64
}

// Cost returns the estimated USD cost for the given token counts:
//
//	inputTokens × PerMillionInput/1e6 + outputTokens × PerMillionOutput/1e6
func (m CostModel) Cost(inputTokens, outputTokens uint64) float64 {
	inputCost := float64(inputTokens) * m.PerMillionInput / 1_000_000
	outputCost := float64(outputTokens) * m.PerMillionOutput / 1_000_000
	return inputCost + outputCost
}
