package search

import (
	"testing"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedItems(category string, count int) []models.RankedItem {
	items := make([]models.RankedItem, count)
	for i := range items {
		items[i] = models.RankedItem{
			EmbeddedItem: embeddedItem(category, 1-float64(i)*0.01),
			Similarity:   1 - float64(i)*0.01,
		}
	}
	return items
}

func TestBalanceEnforcesBucketCapacity(t *testing.T) {
	ranked := rankedItems("Top", 20)

	buckets := Balance(ranked)

	require.Len(t, buckets.Tops, TopsCap)
	// the top 15 by similarity, in global rank order
	for i := 0; i < TopsCap; i++ {
		assert.Equal(t, ranked[i].UUID, buckets.Tops[i].UUID)
	}
	assert.Empty(t, buckets.FullBody)
	assert.Empty(t, buckets.Bottoms)
}

func TestBalanceSubstringMatchIsCaseInsensitive(t *testing.T) {
	ranked := []models.RankedItem{
		{EmbeddedItem: embeddedItem("OUTERWEAR", 0.9), Similarity: 0.9},
		{EmbeddedItem: embeddedItem("outerwear", 0.8), Similarity: 0.8},
		{EmbeddedItem: embeddedItem("Winter Outerwear", 0.7), Similarity: 0.7},
	}

	buckets := Balance(ranked)
	assert.Len(t, buckets.Outerwear, 3)
}

func TestBalanceMultiBucketMembership(t *testing.T) {
	// substring matching means a hybrid category label lands in both buckets;
	// there is no de-duplication step
	hybrid := models.RankedItem{
		EmbeddedItem: embeddedItem("Accessory Outerwear", 0.9),
		Similarity:   0.9,
	}

	buckets := Balance([]models.RankedItem{hybrid})
	assert.Len(t, buckets.Outerwear, 1)
	assert.Len(t, buckets.Accessories, 1)

	flattened := Flatten(buckets)
	assert.Len(t, flattened, 2)
}

func TestBalanceUnmatchedCategoryFallsOut(t *testing.T) {
	ranked := []models.RankedItem{
		{EmbeddedItem: embeddedItem("Swimwear", 0.99), Similarity: 0.99},
	}

	buckets := Balance(ranked)
	assert.Empty(t, Flatten(buckets))
}

func TestBalanceIsIdempotent(t *testing.T) {
	ranked := append(rankedItems("Top", 4), rankedItems("Bottom", 3)...)

	first := Balance(ranked)
	second := Balance(ranked)
	assert.Equal(t, first, second)
}

func TestFlattenOrderIsFixed(t *testing.T) {
	// a low-similarity full-body item still leads the flattened sequence
	buckets := models.CategoryBuckets{
		FullBody:    rankedItems("Full Body", 1),
		Tops:        rankedItems("Top", 2),
		Bottoms:     rankedItems("Bottom", 2),
		Outerwear:   rankedItems("Outerwear", 1),
		Footwear:    rankedItems("Footwear", 1),
		Accessories: rankedItems("Accessory", 1),
	}
	buckets.FullBody[0].Similarity = -0.5

	flattened := Flatten(buckets)
	require.Len(t, flattened, 8)

	categories := make([]string, len(flattened))
	for i, item := range flattened {
		categories[i] = item.Category
	}
	assert.Equal(t, []string{
		"Full Body",
		"Top", "Top",
		"Bottom", "Bottom",
		"Outerwear",
		"Footwear",
		"Accessory",
	}, categories)
}
