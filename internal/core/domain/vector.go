package domain

import (
	"fmt"
	"math"
)

// CosineSimilarity computes dot(a, b) / (norm(a) * norm(b)).
//
// Both vectors must have the same non-zero length; mismatched lengths
// return ErrDimensionMismatch rather than a silently truncated score.
// A zero vector has no direction and yields a similarity of 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("%w: empty vectors", ErrInvalidInput)
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
