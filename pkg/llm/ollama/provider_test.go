package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cridiv/Aedar/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStructuredSendsFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "object", req.Format["type"])
		assert.Equal(t, 0.2, req.Options.Temperature)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   req.Model,
			Message: ollamaMessage{Role: "assistant", Content: `{"goal":"learn go"}`},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	schema := llm.Object(map[string]*llm.Schema{"goal": llm.String()}, []string{"goal"}, "goal")

	out, err := p.GenerateStructured(context.Background(), "extract", schema, llm.WithTemperature(0.2))
	require.NoError(t, err)
	assert.Equal(t, `{"goal":"learn go"}`, out)
}

func TestGenerateStructuredStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing")
	_, err := p.GenerateStructured(context.Background(), "extract", llm.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
