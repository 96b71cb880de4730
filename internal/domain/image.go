package domain

// Image описывает нормализованное изображение, которое хранится в S3
type Image struct {
	ObjectKey string // {item_id}.jpg — повторная загрузка перезаписывает объект
	Bytes     []byte
	// Передайте значение -1 в Size, если размер потока неизвестен
	// (внимание: при передаче значения -1 будет выделен большой объем памяти).
	Size        *int64
	ContentType *string // Example: "image/jpeg"
}

func NewImage(objectKey string, data []byte, size *int64, contentType *string) *Image {
	return &Image{
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        size,
		ContentType: contentType,
	}
}
