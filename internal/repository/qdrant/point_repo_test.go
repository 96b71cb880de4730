package qdrant

import (
	"context"
	"testing"

	qd "github.com/qdrant/go-client/qdrant"
	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *PointRepo {
	return NewPointRepo(nil, &cfg.QdrantCfg{
		CollectionName: "items",
		VectorSize:     3,
	})
}

// Проверки размерности выполняются до обращения к движку,
// поэтому клиент в этих тестах не нужен.
func TestUpsert_DimensionGuard(t *testing.T) {
	repo := testRepo()

	t.Run("empty vector", func(t *testing.T) {
		err := repo.Upsert(context.Background(), domain.NewEmbedding("id", nil, domain.Payload{}))
		assert.ErrorIs(t, err, e.ErrEmptyVector)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		err := repo.Upsert(context.Background(), domain.NewEmbedding("id", []float32{0.1, 0.2}, domain.Payload{}))
		assert.ErrorIs(t, err, e.ErrVectorDimensionMismatch)
	})
}

func TestSearch_DimensionGuard(t *testing.T) {
	repo := testRepo()

	_, err := repo.Search(context.Background(), []float32{0.1}, 10)
	assert.ErrorIs(t, err, e.ErrVectorDimensionMismatch)
}

func TestToSearchResult(t *testing.T) {
	point := &qd.ScoredPoint{
		Score: 0.42,
		Payload: qd.NewValueMap(map[string]any{
			"item_id":     "sku-1",
			"description": "беспроводные наушники",
			"price":       int64(59999),
			"image_url":   "http://images.local/sku-1.png",
			"image_key":   "sku-1.jpg",
		}),
	}

	res := toSearchResult(point)

	assert.Equal(t, "sku-1", res.ItemID)
	assert.Equal(t, "беспроводные наушники", res.Description)
	assert.Equal(t, int64(59999), res.Price)
	assert.Equal(t, "http://images.local/sku-1.png", res.ImageURL)
	require.NotNil(t, res.ImageKey)
	assert.Equal(t, "sku-1.jpg", *res.ImageKey)
	require.NotNil(t, res.Score)
	assert.Equal(t, float32(0.42), *res.Score)
}

func TestToSearchResult_NoImageKey(t *testing.T) {
	point := &qd.ScoredPoint{
		Payload: qd.NewValueMap(map[string]any{
			"item_id":     "sku-2",
			"description": "кофемолка",
			"price":       int64(459990),
			"image_url":   "http://images.local/sku-2.png",
		}),
	}

	res := toSearchResult(point)
	assert.Nil(t, res.ImageKey)
}
