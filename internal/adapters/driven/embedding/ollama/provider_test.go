package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Embed(t *testing.T) {
	var gotPath string
	var gotBody embedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(embedResponse{
			Embeddings: [][]float64{{0.1, 0.2, 0.3}},
		})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL, Model: "all-minilm", Dimensions: 3})

	vector, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "/api/embed", gotPath)
	assert.Equal(t, "all-minilm", gotBody.Model)
	assert.Equal(t, "hello", gotBody.Input)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestProvider_Embed_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})

	_, err := p.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestProvider_Embed_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})

	_, err := p.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedding")
}

func TestProvider_Defaults(t *testing.T) {
	p := New(Config{})

	assert.Equal(t, DefaultModel, p.ModelName())
	assert.Equal(t, DefaultDimensions, p.Dimensions())
}

func TestProvider_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := New(Config{BaseURL: server.URL})
	assert.NoError(t, p.Ping(context.Background()))
}
