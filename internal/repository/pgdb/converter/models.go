package converter

import "time"

// ItemModel представляет запись таблицы items в PostgreSQL.
type ItemModel struct {
	ItemID      string     `db:"item_id"`
	Description string     `db:"description"`
	ImageURL    string     `db:"image_url"`
	ImageKey    *string    `db:"image_key"`
	Price       int64      `db:"price"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
