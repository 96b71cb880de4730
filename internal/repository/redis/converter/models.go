package converter

import "time"

type ItemRedisModel struct {
	ItemID      string     `json:"item_id"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ImageKey    *string    `json:"image_key"`
	Price       int64      `json:"price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
