package qdrant

import (
	"context"

	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/pkg/e"
)

// PointRepo репозиторий для работы с векторами товаров в Qdrant
type PointRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewPointRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *PointRepo {
	return &PointRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет вектор товара в коллекции Qdrant.
// Размерность вектора сверяется с размерностью коллекции до обращения к движку:
// при несовпадении существующие точки не затрагиваются.
func (q *PointRepo) Upsert(ctx context.Context, embedding *domain.Embedding) error {
	if len(embedding.Vector) == 0 {
		return e.ErrEmptyVector
	}

	if uint64(len(embedding.Vector)) != q.cfg.VectorSize {
		return e.ErrVectorDimensionMismatch
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.CollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(embedding.ID),
				Vectors: qdrant.NewVectors(embedding.Vector...),
				Payload: qdrant.NewValueMap(embedding.Payload),
			},
		},
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Search возвращает не более limit ближайших точек в порядке, выданном движком.
// Ошибка движка отличима от пустой выдачи: пустой срез с nil-ошибкой — валидный результат.
func (q *PointRepo) Search(ctx context.Context, vector []float32, limit int) ([]domain.SearchResult, error) {
	if uint64(len(vector)) != q.cfg.VectorSize {
		return nil, e.ErrVectorDimensionMismatch
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	results := make([]domain.SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, toSearchResult(point))
	}

	return results, nil
}

// toSearchResult собирает позицию выдачи из payload точки.
func toSearchResult(point *qdrant.ScoredPoint) domain.SearchResult {
	payload := point.GetPayload()

	var imageKey *string
	if v, ok := payload["image_key"]; ok {
		if s := v.GetStringValue(); s != "" {
			imageKey = &s
		}
	}

	score := point.GetScore()

	return domain.NewSearchResult(
		payload["item_id"].GetStringValue(),
		payload["description"].GetStringValue(),
		payload["price"].GetIntegerValue(),
		payload["image_url"].GetStringValue(),
		imageKey,
		&score,
	)
}
