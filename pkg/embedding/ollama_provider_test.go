package embedding

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerateNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "some text", req.Prompt)
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{3, 4, 0}})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "")
	res, err := provider.Generate("some text", "retrieval_document")
	require.NoError(t, err)

	values := res.Embedding.Values
	require.Len(t, values, 3)
	assert.InDelta(t, 0.6, values[0], 0.001)
	assert.InDelta(t, 0.8, values[1], 0.001)

	var magnitude float64
	for _, v := range values {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 0.001)
}

func TestOllamaGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "nomic-embed-text")
	_, err := provider.Generate("text", "retrieval_query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestNormalizeVectorZero(t *testing.T) {
	vec := []float32{0, 0, 0}
	assert.Equal(t, vec, normalizeVector(vec))
}
