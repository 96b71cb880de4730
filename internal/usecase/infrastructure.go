package usecase

import "context"

// EmbedderInfra — клиент модели эмбеддингов. Модель грузится один раз,
// повторные вызовы используют уже инициализированный runtime.
type EmbedderInfra interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ImagesInfra скачивает, нормализует и сохраняет изображение товара,
// а также убирает уже сохранённый blob при фатальной ошибке конвейера.
type ImagesInfra interface {
	NormalizeImage(ctx context.Context, req *NormalizeImageReq) (*NormalizeImageRes, error)
	RemoveImage(ctx context.Context, objectKey string) error
}

type MessageProducer interface {
	WriteMessage(ctx context.Context, req *WriteMessageReq) error
}
