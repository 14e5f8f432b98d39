package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/config"
)

func clientFor(t *testing.T, srv *httptest.Server) *OllamaClient {
	t.Helper()
	// split http://127.0.0.1:port back into address and port
	idx := strings.LastIndex(srv.URL, ":")
	port, err := strconv.Atoi(srv.URL[idx+1:])
	assert.NoError(t, err)

	return NewOllamaClient(config.Ollama{
		Address:        srv.URL[:idx],
		Port:           port,
		TimeoutSeconds: 5,
	}, zap.NewNop().Sugar())
}

func TestInfer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama2", req.Model)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(generateResponse{Response: "a clear trend emerges"})
	}))
	defer srv.Close()

	out, err := clientFor(t, srv).Infer(context.Background(), "llama2", "analyze this")
	assert.NoError(t, err)
	assert.Equal(t, "a clear trend emerges", out)
}

func TestInferErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := clientFor(t, srv).Infer(context.Background(), "nope", "prompt")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("error in body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(generateResponse{Error: "out of memory"})
		}))
		defer srv.Close()

		_, err := clientFor(t, srv).Infer(context.Background(), "llama2", "prompt")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "out of memory")
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := clientFor(t, srv).Infer(context.Background(), "llama2", "prompt")
		assert.Error(t, err)
	})
}
