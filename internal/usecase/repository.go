package usecase

import (
	"context"

	"github.com/shopstream-tech/search-backend/internal/domain"
)

type ItemRepository interface {
	Upsert(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, itemID string) (*domain.Item, error)
	SearchByText(ctx context.Context, query string, limit int) ([]domain.Item, error)
}

type VectorRepository interface {
	Upsert(ctx context.Context, embedding *domain.Embedding) error
	Search(ctx context.Context, vector []float32, limit int) ([]domain.SearchResult, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

type CacheRepository interface {
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	SetItem(ctx context.Context, item *domain.Item) error
	DeleteItems(ctx context.Context, itemIDs []string) error
}
