package domain

import "time"

// Item описывает товар каталога.
// ImageKey — ключ нормализованного изображения в S3-хранилище;
// nil, если скачать или декодировать исходное изображение не удалось.
type Item struct {
	ItemID      string
	Description string
	ImageURL    string
	ImageKey    *string
	Price       int64 // Цена хранится в копейках
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewItem(itemID, description, imageURL string, imageKey *string, price int64) *Item {
	return &Item{
		ItemID:      itemID,
		Description: description,
		ImageURL:    imageURL,
		ImageKey:    imageKey,
		Price:       price,
	}
}
