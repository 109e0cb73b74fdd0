package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestProvider_Embed(t *testing.T) {
	var gotAuth string
	var gotBody apiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		resp := apiResponse{}
		resp.Data = append(resp.Data, struct {
			Embedding []float64 `json:"embedding"`
			Index     int       `json:"index"`
		}{Embedding: []float64{1, 0}, Index: 0})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: server.URL, Dimensions: 2})
	require.NoError(t, err)

	vector, err := p.Embed(context.Background(), "query text")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "query text", gotBody.Input)
	assert.Equal(t, 2, gotBody.Dimensions)
	assert.Equal(t, []float32{1, 0}, vector)
}

func TestProvider_Embed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key", "type": "auth"},
		})
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestProvider_KnownModelDimensions(t *testing.T) {
	p, err := New(Config{APIKey: "sk", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, p.Dimensions())

	p, err = New(Config{APIKey: "sk", Model: "unknown-model"})
	require.NoError(t, err)
	assert.Equal(t, 1536, p.Dimensions())
}
