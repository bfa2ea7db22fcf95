package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllama_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "llama3.1:8b",
			"response": "SQL_QUERY_START\nSELECT 1\nSQL_QUERY_END",
			"done":     true,
		})
	}))
	defer srv.Close()

	model, err := NewOllama(OllamaConfig{
		Host:        srv.URL,
		Model:       "llama3.1:8b",
		Temperature: 0.7,
		MaxTokens:   8192,
	}, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "llama3.1:8b", model.ModelName())

	out, err := model.Complete(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "SQL_QUERY_START\nSELECT 1\nSQL_QUERY_END", out)

	assert.Equal(t, "llama3.1:8b", got["model"])
	assert.Equal(t, "question", got["prompt"])
	assert.Equal(t, false, got["stream"])
	opts, ok := got["options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.7, opts["temperature"], 1e-9)
	assert.InDelta(t, 8192, opts["num_predict"], 1e-9)
}

func TestOllama_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	model, err := NewOllama(OllamaConfig{Host: srv.URL, Model: "missing"}, srv.Client())
	require.NoError(t, err)

	_, err = model.Complete(context.Background(), "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestNewOllama_RequiresModel(t *testing.T) {
	_, err := NewOllama(OllamaConfig{Host: "http://localhost:11434"}, nil)
	assert.Error(t, err)
}
