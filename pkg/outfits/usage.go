package outfits

import (
	"math"
	"time"

	"github.com/getfitted/fitted/pkg/models"
)

// USD per million tokens.
const (
	PricingEmbedding = 0.02 // text-embedding-3-small
	PricingLLMInput  = 2.5  // gpt-4o input
	PricingLLMOutput = 10   // gpt-4o output
)

// Exchange rate (approximate)
const USDToIDR = 15000

// CalculateUsage aggregates token counts into a usage/cost record.
func CalculateUsage(
	embeddingTokens int,
	promptTokens int,
	completionTokens int,
	processingTime time.Duration,
) models.UsageStats {
	embeddingCost := float64(embeddingTokens) / 1_000_000 * PricingEmbedding
	inputCost := float64(promptTokens) / 1_000_000 * PricingLLMInput
	outputCost := float64(completionTokens) / 1_000_000 * PricingLLMOutput
	totalCost := embeddingCost + inputCost + outputCost

	return models.UsageStats{
		EmbeddingTokens:  embeddingTokens,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      embeddingTokens + promptTokens + completionTokens,
		EmbeddingCostUSD: roundUSD(embeddingCost),
		LLMInputCostUSD:  roundUSD(inputCost),
		LLMOutputCostUSD: roundUSD(outputCost),
		TotalCostUSD:     roundUSD(totalCost),
		TotalCostIDR:     int(math.Ceil(totalCost * USDToIDR)),
		ProcessingTimeMS: processingTime.Milliseconds(),
	}
}

// roundUSD rounds to micro-dollar precision for display.
func roundUSD(cost float64) float64 {
	return math.Round(cost*1_000_000) / 1_000_000
}
