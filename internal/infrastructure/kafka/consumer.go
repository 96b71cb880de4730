package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopstream-tech/search-backend/internal/cfg"
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

// Consumer читает записи товаров из входного топика и прогоняет каждую
// через конвейер загрузки. Ошибка одной записи логируется с причиной и не
// останавливает обработку последующих.
type Consumer struct {
	reader *kafka.Reader
	itemUC usecase.ItemUC
	logger logger.Logger
	wg     sync.WaitGroup
}

func NewConsumer(cfg *cfg.KafkaCfg, itemUC usecase.ItemUC, logger logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10 << 20,
		MaxWait:  time.Second,
	})

	return &Consumer{
		reader: reader,
		itemUC: itemUC,
		logger: logger,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()
}

func (c *Consumer) run(ctx context.Context) {
	c.logger.Infof("ingestion consumer started. topic: %s, group: %s", c.reader.Config().Topic, c.reader.Config().GroupID)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Infof("ingestion consumer stopped by context")
				return
			}
			c.logger.Warnf("failed to fetch message: %v", err)
			return
		}

		c.processMessage(ctx, msg)

		// Коммитим и при неуспехе обработки: неуспех одной записи отражён
		// в логах, повторная доставка той же записи проблему не решит.
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warnf("failed to commit message offset: %v", err)
		}
	}
}

// processMessage обрабатывает одну запись, ошибки не фатальны для цикла.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	req, err := usecase.ParseIngestRecord(msg.Value)
	if err != nil {
		c.logger.Warnf("skipping malformed ingest record. partition: %d, offset: %d, error: %v",
			msg.Partition, msg.Offset, err)
		return
	}

	res, err := c.itemUC.Ingest(ctx, req)
	if err != nil {
		c.logger.Warnf("ingestion failed. item_id: %s, error: %v", req.ItemID, err)
		return
	}

	c.logger.Infof("item ingested. item_id: %s, indexed: %t, has_image: %t",
		res.ItemID, res.Indexed, res.ImageKey != nil)
}

// Close останавливает чтение и дожидается завершения обработки текущей записи.
func (c *Consumer) Close() error {
	err := c.reader.Close()
	c.wg.Wait()
	return err
}
