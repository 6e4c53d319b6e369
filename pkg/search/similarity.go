package search

import (
	"math"

	"github.com/getfitted/fitted/pkg/models"
)

// CosineSimilarity calculates the cosine similarity between two vectors.
// The vectors must be of the same length. A zero-magnitude vector yields NaN,
// which callers must treat as "no signal" rather than an error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, models.NewDimensionMismatchError(len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
