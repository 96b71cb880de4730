package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{})        {}
func (noopLogger) Infof(string, ...interface{})         {}
func (noopLogger) Warnf(string, ...interface{})         {}
func (noopLogger) Errorf(error, string, ...interface{}) {}

func newTestEmbedder(baseURL string, maxRetries int) *Embedder {
	return NewEmbedder(&cfg.EmbedderCfg{
		BaseURL:    baseURL,
		Model:      "all-minilm-l6-v2",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
	}, noopLogger{})
}

func embeddingHandler(requests *atomic.Int64, vector []float32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)

		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Embedding: vector, Index: 0}},
		})
	}
}

func TestEmbedText(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(embeddingHandler(&requests, []float32{0.1, 0.2, 0.3}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 1)

	vector, err := em.EmbedText(context.Background(), "беспроводные наушники")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestEmbedText_WarmupHappensOnce(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(embeddingHandler(&requests, []float32{0.5}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 1)

	_, err := em.EmbedText(context.Background(), "first")
	require.NoError(t, err)
	_, err = em.EmbedText(context.Background(), "second")
	require.NoError(t, err)

	// прогрев + два рабочих запроса
	assert.Equal(t, int64(3), requests.Load())
}

func TestEmbedText_WarmupFailureIsNotSticky(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Embedding: []float32{0.7}}},
		})
	}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 1)

	// Первый вызов отменяется дедлайном своего запроса во время прогрева.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := em.EmbedText(ctx, "first")
	require.Error(t, err)

	// Неудача одного вызова не должна отравлять последующие:
	// сервис жив, прогрев повторяется и вектор возвращается.
	vector, err := em.EmbedText(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.7}, vector)
}

func TestEmbedText_EmptyText(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(embeddingHandler(&requests, []float32{0.5}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 1)

	_, err := em.EmbedText(context.Background(), "   ")
	assert.ErrorIs(t, err, e.ErrEmptyText)
	assert.Zero(t, requests.Load())
}

func TestEmbedText_RetriesOnServerError(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Embedding: []float32{0.9}}},
		})
	}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 2)

	vector, err := em.EmbedText(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.9}, vector)
	assert.GreaterOrEqual(t, requests.Load(), int64(2))
}

func TestEmbedText_EmptyVectorFromService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{Data: []embeddingData{}})
	}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 1)

	_, err := em.EmbedText(context.Background(), "text")
	assert.ErrorIs(t, err, e.ErrEmptyVector)
}

func TestEmbedText_ServiceErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{
			Error: &apiError{Message: "model overloaded", Type: "server_error"},
		})
	}))
	defer srv.Close()

	em := newTestEmbedder(srv.URL, 1)

	_, err := em.EmbedText(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}
