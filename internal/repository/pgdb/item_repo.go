package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/internal/repository/pgdb/converter"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/tr"
)

// ItemRepo реализует репозиторий товаров поверх PostgreSQL.
type ItemRepo struct {
	pool *pgxpool.Pool
	conv converter.ItemConverter
}

func NewItemRepo(pool *pgxpool.Pool, conv converter.ItemConverter) *ItemRepo {
	return &ItemRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert создаёт или полностью перезаписывает товар по item_id.
// Частичного слияния полей нет: повторная загрузка затирает все изменяемые поля.
func (r *ItemRepo) Upsert(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO items (item_id, description, image_url, image_key, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_id)
		DO UPDATE SET
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			image_key = EXCLUDED.image_key,
			price = EXCLUDED.price,
			updated_at = NOW()
		RETURNING
			item_id, description, image_url, image_key, price, created_at, updated_at;
	`

	in := r.conv.ToModel(item)

	var model converter.ItemModel
	err = tx.QueryRow(ctx, query, in.ItemID, in.Description, in.ImageURL, in.ImageKey, in.Price).
		Scan(
			&model.ItemID, &model.Description, &model.ImageURL,
			&model.ImageKey, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}

// GetByID возвращает товар по идентификатору.
func (r *ItemRepo) GetByID(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
		SELECT item_id, description, image_url, image_key, price, created_at, updated_at
		FROM items
		WHERE item_id = $1
	`

	var model converter.ItemModel
	err := r.pool.QueryRow(ctx, query, itemID).
		Scan(
			&model.ItemID, &model.Description, &model.ImageURL,
			&model.ImageKey, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrItemNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}

// SearchByText выполняет регистронезависимый подстрочный поиск по описанию.
// Порядок выдачи — порядок хранения, без ранжирования: это резервный путь
// поиска, а не основной.
func (r *ItemRepo) SearchByText(ctx context.Context, query string, limit int) ([]domain.Item, error) {
	sql := `
		SELECT item_id, description, image_url, image_key, price, created_at, updated_at
		FROM items
		WHERE description ILIKE $1
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, sql, "%"+query+"%", limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ItemModel, 0)
	for rows.Next() {
		var model converter.ItemModel
		if err := rows.Scan(
			&model.ItemID, &model.Description, &model.ImageURL,
			&model.ImageKey, &model.Price, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	return r.conv.ToArrEntity(models), nil
}
