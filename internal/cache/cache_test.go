package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonworks/kbsearch/internal/core/domain"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  Hello World\n"))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "already normal", Normalize("already normal"))
}

// TestCache_VectorRoundTrip tests that a hit returns exactly what was
// most recently stored for the normalised key.
func TestCache_VectorRoundTrip(t *testing.T) {
	c := New(8, time.Minute)

	_, ok := c.Vector("some text")
	assert.False(t, ok)

	c.SetVector("Some Text ", []float32{1, 2, 3})

	// Logically-identical text must hit the same entry.
	got, ok := c.Vector("  some text")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, got)

	// A later store for the same key wins.
	c.SetVector("some text", []float32{9})
	got, ok = c.Vector("some text")
	require.True(t, ok)
	assert.Equal(t, []float32{9}, got)
}

func TestCache_ChunksRoundTrip(t *testing.T) {
	c := New(8, time.Minute)

	c.SetChunks("doc body", []string{"chunk one", "chunk two"})
	got, ok := c.Chunks("DOC BODY")
	require.True(t, ok)
	assert.Equal(t, []string{"chunk one", "chunk two"}, got)
}

func TestCache_ResultsRoundTrip(t *testing.T) {
	c := New(8, time.Minute)
	results := []domain.SearchResult{
		{DocumentID: "doc1", ChunkIndex: 0, Similarity: 0.93},
	}

	c.SetResults("how do I reset my password?|k=5", results)
	got, ok := c.Results("How do I reset my password?|k=5")
	require.True(t, ok)
	assert.Equal(t, results, got)
}

// TestCache_TTLExpiry tests that entries behave as absent after their
// time-to-live elapses.
func TestCache_TTLExpiry(t *testing.T) {
	c := New(8, 20*time.Millisecond)

	c.SetVector("ephemeral", []float32{1})
	_, ok := c.Vector("ephemeral")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Vector("ephemeral")
	assert.False(t, ok, "entry should expire after TTL")
}

// TestCache_LRUEviction tests that inserting past capacity evicts the
// least-recently-used entry, not an arbitrary one.
func TestCache_LRUEviction(t *testing.T) {
	c := New(2, time.Minute)

	c.SetVector("a", []float32{1})
	c.SetVector("b", []float32{2})

	// Touch "a" so "b" becomes least recently used.
	_, ok := c.Vector("a")
	require.True(t, ok)

	c.SetVector("c", []float32{3})

	_, ok = c.Vector("a")
	assert.True(t, ok, "recently used entry should survive")
	_, ok = c.Vector("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Vector("c")
	assert.True(t, ok)
}

func TestCache_InvalidateResults(t *testing.T) {
	c := New(8, time.Minute)

	c.SetVector("text", []float32{1})
	c.SetResults("query", []domain.SearchResult{{DocumentID: "doc1"}})

	c.InvalidateResults()

	_, ok := c.Results("query")
	assert.False(t, ok)

	// Other stores are untouched.
	_, ok = c.Vector("text")
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New(8, time.Minute)

	for i := 0; i < 5; i++ {
		c.SetVector(fmt.Sprintf("text-%d", i), []float32{float32(i)})
	}
	c.SetChunks("text", []string{"a"})
	c.SetResults("query", nil)

	c.Clear()

	_, ok := c.Vector("text-0")
	assert.False(t, ok)
	_, ok = c.Chunks("text")
	assert.False(t, ok)
}

// TestCache_Defaults tests that non-positive settings fall back.
func TestCache_Defaults(t *testing.T) {
	c := New(0, 0)
	c.SetVector("x", []float32{1})
	_, ok := c.Vector("x")
	assert.True(t, ok)
}
