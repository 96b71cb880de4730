package usecase

import (
	"context"

	"github.com/shopstream-tech/search-backend/internal/domain"
)

type ItemUC interface {
	Ingest(ctx context.Context, req *IngestItemReq) (*IngestItemRes, error)
	EnqueueBatch(ctx context.Context, reqs []*IngestItemReq) (int, error)
	Search(ctx context.Context, req *SearchReq) (*SearchRes, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
}
