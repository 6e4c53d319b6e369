package outfits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateUsage(t *testing.T) {
	usage := CalculateUsage(1_000_000, 1_000_000, 1_000_000, 1500*time.Millisecond)

	assert.Equal(t, 1_000_000, usage.EmbeddingTokens)
	assert.Equal(t, 3_000_000, usage.TotalTokens)
	assert.InDelta(t, 0.02, usage.EmbeddingCostUSD, 1e-9)
	assert.InDelta(t, 2.5, usage.LLMInputCostUSD, 1e-9)
	assert.InDelta(t, 10.0, usage.LLMOutputCostUSD, 1e-9)
	assert.InDelta(t, 12.52, usage.TotalCostUSD, 1e-9)
	assert.Equal(t, 187800, usage.TotalCostIDR)
	assert.EqualValues(t, 1500, usage.ProcessingTimeMS)
}

func TestCalculateUsageRounding(t *testing.T) {
	usage := CalculateUsage(123, 456, 789, time.Millisecond)

	// micro-dollar precision
	assert.InDelta(t, 0.000002, usage.EmbeddingCostUSD, 1e-9)
	assert.InDelta(t, 0.00114, usage.LLMInputCostUSD, 1e-9)
	assert.InDelta(t, 0.00789, usage.LLMOutputCostUSD, 1e-9)
	// IDR is rounded up to the next rupiah
	assert.Equal(t, 137, usage.TotalCostIDR)
}

func TestCalculateUsageZero(t *testing.T) {
	usage := CalculateUsage(0, 0, 0, 0)
	assert.Zero(t, usage.TotalCostUSD)
	assert.Zero(t, usage.TotalCostIDR)
}
