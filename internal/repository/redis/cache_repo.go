package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/internal/repository/redis/converter"
	"github.com/shopstream-tech/search-backend/pkg/clients"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ItemConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ItemConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetItem возвращает закэшированный товар или nil при промахе.
func (c *CacheRepo) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	data, err := c.client.Client.Get(ctx, c.itemKey(itemID)).Bytes()
	if err != nil {
		if err == r.Nil {
			return nil, nil // cache miss
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.ItemRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil // битая запись равносильна промаху
	}

	if model.ItemID != itemID {
		c.logger.Warnf("Cache ID mismatch: key_id: %s, model_id: %s", itemID, model.ItemID)
		if err := c.client.Client.Del(context.Background(), c.itemKey(itemID)).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return c.conv.ToEntity(&model), nil
}

// SetItem кэширует товар с заданным TTL.
func (c *CacheRepo) SetItem(ctx context.Context, item *domain.Item) error {
	data, err := json.Marshal(c.conv.ToRedisModel(item))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.itemKey(item.ItemID), data, c.cfg.ItemTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteItems удаляет товары из кэша по идентификаторам
func (c *CacheRepo) DeleteItems(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = c.itemKey(id)
	}

	if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
	}

	return nil
}

// itemKey возвращает Redis-ключ для одного товара
func (c *CacheRepo) itemKey(itemID string) string {
	return fmt.Sprintf("item:%s", itemID)
}
