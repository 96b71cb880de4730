package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

// DefaultSearchLimit — размер выдачи, если limit не передан.
const DefaultSearchLimit = 10

// ItemUseCase реализует конвейер загрузки товаров и оркестрацию поиска.
type ItemUseCase struct {
	itemRepo    ItemRepository
	vectorRepo  VectorRepository
	dbPool      transaction.Transactional
	embedder    EmbedderInfra
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	producer    MessageProducer
	logger      logger.Logger
}

func NewItemUC(
	itemRepo ItemRepository,
	vectorRepo VectorRepository,
	dbPool transaction.Transactional,
	embedder EmbedderInfra,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	producer MessageProducer,
	logger logger.Logger,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:    itemRepo,
		vectorRepo:  vectorRepo,
		dbPool:      dbPool,
		embedder:    embedder,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,
	}
}

// Ingest обрабатывает одну запись товара: изображение → эмбеддинг → каталог → векторный индекс.
// Ошибка изображения не фатальна (товар остаётся без image_key).
// Ошибка эмбеддинга фатальна и происходит строго до записи в каталог,
// поэтому при ней в реляционном хранилище не остаётся следов.
// Ошибка записи вектора после коммита каталога не откатывается — товар
// остаётся доступным через текстовый fallback до повторной загрузки.
func (u *ItemUseCase) Ingest(ctx context.Context, req *IngestItemReq) (*IngestItemRes, error) {
	const op = "ItemUseCase.Ingest"

	var err error
	err = u.validateRecord(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Изображение: единственный не фатальный шаг конвейера.
	var imageKey *string
	imageRes, imgErr := u.imagesInfra.NormalizeImage(ctx, NewNormalizeImageReq(req.ItemID, req.ImageURL))
	if imgErr != nil {
		u.logger.Warnf("image normalization failed, continuing without image. item_id: %s, error: %v", req.ItemID, imgErr)
	} else {
		imageKey = &imageRes.ObjectKey
	}

	// Эмбеддинг считается до любых записей в БД. При его ошибке уже
	// загруженный blob убирается, чтобы в хранилище не копились сироты.
	vector, err := u.embedder.EmbedText(ctx, req.Description)
	if err != nil {
		if imageKey != nil {
			if delErr := u.imagesInfra.RemoveImage(ctx, *imageKey); delErr != nil {
				u.logger.Warnf("orphaned image blob left after embedding failure. item_id: %s, image_key: %s, error: %v",
					req.ItemID, *imageKey, delErr)
			}
		}
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, u.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	item, err := u.itemRepo.Upsert(ctx, domain.NewItem(req.ItemID, req.Description, req.ImageURL, imageKey, req.Price))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша устаревших данных товара
	if cacheErr := u.cacheRepo.DeleteItems(ctx, []string{item.ItemID}); cacheErr != nil {
		u.logger.Warnf("failed to invalidate item cache: %v", e.Wrap(op, cacheErr))
	}

	// Запись вектора. Каталог и индекс не связаны транзакцией: расхождение
	// допускается и отражается флагом Indexed в результате.
	indexed := true
	if idxErr := u.upsertEmbedding(ctx, item, vector); idxErr != nil {
		indexed = false
		u.logger.Warnf("vector upsert failed, item is reachable via text fallback only. item_id: %s, error: %v",
			item.ItemID, e.Wrap(op, idxErr))
	}

	return NewIngestItemRes(item.ItemID, item.ImageKey, indexed), nil
}

// EnqueueBatch валидирует пачку записей и публикует их во входной топик.
// Публикация начинается только после успешной валидации всех записей.
func (u *ItemUseCase) EnqueueBatch(ctx context.Context, reqs []*IngestItemReq) (int, error) {
	const op = "ItemUseCase.EnqueueBatch"

	if len(reqs) == 0 {
		return 0, e.Wrap(op, e.ErrEmptyBatch)
	}

	for _, req := range reqs {
		if err := u.validateRecord(req); err != nil {
			return 0, e.Wrap(op, err)
		}
	}

	accepted := 0
	for _, req := range reqs {
		payload, err := marshalIngestRecord(req)
		if err != nil {
			return accepted, e.Wrap(op, err)
		}

		if err := u.producer.WriteMessage(ctx, NewWriteMessageReq(req.ItemID, payload)); err != nil {
			return accepted, e.Wrap(op, err)
		}
		accepted++
	}

	return accepted, nil
}

// Search выполняет векторный поиск по запросу с fallback на текстовый поиск.
// Fallback срабатывает на ошибке эмбеддинга или индекса, но не на пустой выдаче.
func (u *ItemUseCase) Search(ctx context.Context, req *SearchReq) (*SearchRes, error) {
	const op = "ItemUseCase.Search"

	if strings.TrimSpace(req.Query) == "" {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := u.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		u.logger.Warnf("query embedding failed, falling back to text search. query: %q, error: %v", req.Query, err)
		return u.fallbackSearch(ctx, req.Query, limit)
	}

	results, err := u.vectorRepo.Search(ctx, vector, limit)
	if err != nil {
		u.logger.Warnf("vector search failed, falling back to text search. query: %q, error: %v", req.Query, err)
		return u.fallbackSearch(ctx, req.Query, limit)
	}

	return NewSearchRes(results, domain.SearchMethodVector), nil
}

// GetItem возвращает товар по идентификатору, используя кэш.
func (u *ItemUseCase) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	const op = "ItemUseCase.GetItem"

	if strings.TrimSpace(itemID) == "" {
		return nil, e.Wrap(op, e.ErrItemIDRequired)
	}

	cached, err := u.cacheRepo.GetItem(ctx, itemID)
	if err != nil {
		u.logger.Warnf("item cache read failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	item, err := u.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := u.cacheRepo.SetItem(bgCtx, item); err != nil {
			u.logger.Warnf("failed to cache item in background: %v", e.Wrap(op, err))
		}
	}()

	return item, nil
}

// fallbackSearch выполняет подстрочный поиск по описанию в каталоге.
func (u *ItemUseCase) fallbackSearch(ctx context.Context, query string, limit int) (*SearchRes, error) {
	const op = "ItemUseCase.fallbackSearch"

	items, err := u.itemRepo.SearchByText(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	results := make([]domain.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, domain.NewSearchResult(
			item.ItemID, item.Description, item.Price, item.ImageURL, item.ImageKey, nil,
		))
	}

	return NewSearchRes(results, domain.SearchMethodFallback), nil
}

// upsertEmbedding сохраняет вектор товара в Qdrant с денормализованным снимком метаданных.
func (u *ItemUseCase) upsertEmbedding(ctx context.Context, item *domain.Item, vector []float32) error {
	if len(vector) == 0 {
		return e.ErrEmptyVector
	}

	pointID := PointID(item.ItemID)
	return u.vectorRepo.Upsert(ctx, domain.NewEmbedding(pointID, vector, domain.NewPayload(item)))
}

// validateRecord проверяет корректность записи товара.
func (u *ItemUseCase) validateRecord(req *IngestItemReq) error {
	if strings.TrimSpace(req.ItemID) == "" {
		return e.ErrItemIDRequired
	}

	if strings.TrimSpace(req.Description) == "" {
		return e.ErrDescriptionRequired
	}

	if strings.TrimSpace(req.ImageURL) == "" {
		return e.ErrImageURLRequired
	}

	if req.Price < 0 {
		return e.ErrInvalidPrice
	}

	return nil
}

// PointID детерминированно выводит UUID точки Qdrant из item_id,
// поэтому повторная загрузка того же товара перезаписывает ту же точку.
func PointID(itemID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(itemID)).String()
}

// marshalIngestRecord сериализует запись обратно в wire-формат входного топика.
func marshalIngestRecord(req *IngestItemReq) ([]byte, error) {
	return json.Marshal(map[string]any{
		"item_id":     req.ItemID,
		"description": req.Description,
		"image_url":   req.ImageURL,
		"price":       json.Number(decimal.New(req.Price, -2).String()),
	})
}
