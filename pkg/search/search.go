package search

import (
	"math"
	"sort"

	"github.com/getfitted/fitted/pkg/models"
)

// Rank scores every item against the query vector and returns the items in
// descending similarity order. The sort is stable so equal scores keep their
// input order. NaN scores (zero-magnitude vectors) sort last.
func Rank(
	items []models.EmbeddedItem,
	queryEmbedding []float32,
) ([]models.RankedItem, error) {
	ranked := make([]models.RankedItem, len(items))
	for i, item := range items {
		similarity, err := CosineSimilarity(queryEmbedding, item.Embedding)
		if err != nil {
			return nil, err
		}
		ranked[i] = models.RankedItem{
			EmbeddedItem: item,
			Similarity:   similarity,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Similarity, ranked[j].Similarity
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})

	return ranked, nil
}

// SemanticSearch is the retrieval pipeline: rank by similarity, balance per
// category, flatten into the candidate sequence handed to outfit generation.
// No retries; any failure is fatal to the whole retrieval.
func SemanticSearch(
	items []models.EmbeddedItem,
	queryEmbedding []float32,
) (*models.SearchResult, error) {
	rankedItems, err := Rank(items, queryEmbedding)
	if err != nil {
		return nil, err
	}

	balancedCategories := Balance(rankedItems)

	return &models.SearchResult{
		SelectedItems:      Flatten(balancedCategories),
		BalancedCategories: balancedCategories,
	}, nil
}
