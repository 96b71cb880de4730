package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{})        {}
func (noopLogger) Infof(string, ...interface{})         {}
func (noopLogger) Warnf(string, ...interface{})         {}
func (noopLogger) Errorf(error, string, ...interface{}) {}

type fakeItemUC struct {
	ingestRes  *usecase.IngestItemRes
	ingestErr  error
	ingestReqs []*usecase.IngestItemReq

	accepted   int
	enqueueErr error

	searchRes *usecase.SearchRes
	searchErr error
	searchReq *usecase.SearchReq

	item    *domain.Item
	itemErr error
}

func (f *fakeItemUC) Ingest(_ context.Context, req *usecase.IngestItemReq) (*usecase.IngestItemRes, error) {
	f.ingestReqs = append(f.ingestReqs, req)
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return f.ingestRes, nil
}

func (f *fakeItemUC) EnqueueBatch(_ context.Context, reqs []*usecase.IngestItemReq) (int, error) {
	f.ingestReqs = append(f.ingestReqs, reqs...)
	if f.enqueueErr != nil {
		return 0, f.enqueueErr
	}
	return f.accepted, nil
}

func (f *fakeItemUC) Search(_ context.Context, req *usecase.SearchReq) (*usecase.SearchRes, error) {
	f.searchReq = req
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchRes, nil
}

func (f *fakeItemUC) GetItem(_ context.Context, itemID string) (*domain.Item, error) {
	if f.itemErr != nil {
		return nil, f.itemErr
	}
	return f.item, nil
}

func newTestRouter(uc usecase.ItemUC) *chi.Mux {
	r := chi.NewRouter()
	NewRouter(r, noopLogger{}).Init(uc)
	return r
}

func doRequest(t *testing.T, router *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIngestItemEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		key := "sku-1.jpg"
		uc := &fakeItemUC{ingestRes: usecase.NewIngestItemRes("sku-1", &key, true)}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/items",
			`{"item_id":"sku-1","description":"наушники","image_url":"http://i/1.png","price":599.99}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "sku-1", body["item_id"])
		assert.Equal(t, "sku-1.jpg", body["image_key"])
		assert.Equal(t, true, body["indexed"])

		require.Len(t, uc.ingestReqs, 1)
		assert.Equal(t, int64(59999), uc.ingestReqs[0].Price)
	})

	t.Run("validation error", func(t *testing.T) {
		uc := &fakeItemUC{}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/items",
			`{"description":"наушники","image_url":"http://i/1.png","price":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, e.ErrItemIDRequired.Error(), body["message"])
		assert.Empty(t, uc.ingestReqs)
	})

	t.Run("pipeline error", func(t *testing.T) {
		uc := &fakeItemUC{ingestErr: assert.AnError}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/items",
			`{"item_id":"sku-1","description":"наушники","image_url":"http://i/1.png","price":1}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestEnqueueBatchEndpoint(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		uc := &fakeItemUC{accepted: 2}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/items/batch",
			`[{"item_id":"a","description":"d","image_url":"u","price":1},
			  {"item_id":"b","description":"d","image_url":"u","price":2}]`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["accepted"])
	})

	t.Run("invalid record rejects batch", func(t *testing.T) {
		uc := &fakeItemUC{}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/items/batch",
			`[{"item_id":"a","description":"d","image_url":"u","price":1},
			  {"item_id":"b","description":"d","image_url":"u"}]`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, e.ErrPriceRequired.Error(), body["message"])
		assert.Empty(t, uc.ingestReqs)
	})

	t.Run("not an array", func(t *testing.T) {
		router := newTestRouter(&fakeItemUC{})

		rec := doRequest(t, router, http.MethodPost, "/api/v1/items/batch", `{"item_id":"a"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetItemEndpoint(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		key := "sku-1.jpg"
		uc := &fakeItemUC{item: domain.NewItem("sku-1", "наушники", "http://i/1.png", &key, 59999)}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/items/sku-1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "sku-1", body["item_id"])
		assert.Equal(t, 599.99, body["price"])
		assert.Equal(t, "sku-1.jpg", body["image_key"])
	})

	t.Run("not found", func(t *testing.T) {
		uc := &fakeItemUC{itemErr: e.ErrItemNotFound}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/items/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, e.ErrItemNotFound.Error(), body["message"])
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("vector results", func(t *testing.T) {
		score := float32(0.87)
		uc := &fakeItemUC{searchRes: usecase.NewSearchRes([]domain.SearchResult{
			domain.NewSearchResult("sku-1", "наушники", 59999, "http://i/1.png", nil, &score),
		}, domain.SearchMethodVector)}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/search?q=наушники&limit=5", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "наушники", body["query"])
		assert.Equal(t, "vector_similarity", body["search_method"])
		assert.Equal(t, float64(1), body["count"])

		require.NotNil(t, uc.searchReq)
		assert.Equal(t, 5, uc.searchReq.Limit)

		results := body["results"].([]interface{})
		first := results[0].(map[string]interface{})
		assert.Equal(t, "sku-1", first["item_id"])
		assert.Equal(t, 599.99, first["price"])
		assert.InDelta(t, 0.87, first["score"].(float64), 1e-6)
	})

	t.Run("fallback results carry no score", func(t *testing.T) {
		uc := &fakeItemUC{searchRes: usecase.NewSearchRes([]domain.SearchResult{
			domain.NewSearchResult("sku-1", "наушники", 59999, "http://i/1.png", nil, nil),
		}, domain.SearchMethodFallback)}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/search?q=наушники", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "text_fallback", body["search_method"])

		first := body["results"].([]interface{})[0].(map[string]interface{})
		_, hasScore := first["score"]
		assert.False(t, hasScore)
	})

	t.Run("empty query", func(t *testing.T) {
		uc := &fakeItemUC{searchErr: e.ErrEmptyQuery}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/search", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		uc := &fakeItemUC{}
		router := newTestRouter(uc)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/search?q=a&limit=abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, e.ErrInvalidQueryLimit.Error(), body["message"])
		assert.Nil(t, uc.searchReq)
	})
}
