package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSearchOptions_WithDefaults tests that zero values are replaced.
func TestSearchOptions_WithDefaults(t *testing.T) {
	opts := SearchOptions{}.WithDefaults()

	assert.Equal(t, DefaultTopK, opts.TopK)
	assert.Equal(t, DefaultMinSimilarity, opts.MinSimilarity)
}

// TestSearchOptions_WithDefaults_Explicit tests that explicit values
// survive the defaulting pass.
func TestSearchOptions_WithDefaults_Explicit(t *testing.T) {
	opts := SearchOptions{TopK: 12, MinSimilarity: 0.35}.WithDefaults()

	assert.Equal(t, 12, opts.TopK)
	assert.Equal(t, 0.35, opts.MinSimilarity)
}

// TestSearchOptions_WithDefaults_DisabledThreshold tests that a
// negative threshold disables filtering instead of being defaulted.
func TestSearchOptions_WithDefaults_DisabledThreshold(t *testing.T) {
	opts := SearchOptions{MinSimilarity: -1}.WithDefaults()

	assert.Equal(t, -1.0, opts.MinSimilarity)
}
