package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmptyVector             = fmt.Errorf("embedding vector is empty")
	ErrVectorDimensionMismatch = fmt.Errorf("embedding vector dimension mismatch")
	ErrEmptyText               = fmt.Errorf("text to embed is empty")

	// Внутренние ошибки обработки изображений
	ErrImageFetchFailed   = fmt.Errorf("failed to fetch image")
	ErrInvalidImage       = fmt.Errorf("invalid image payload")
	ErrImageTooLarge      = fmt.Errorf("image payload too large")
	ErrImageStorageFailed = fmt.Errorf("failed to store normalized image")

	// 400 Bad Request
	ErrItemIDRequired      = fmt.Errorf("item_id is required")
	ErrDescriptionRequired = fmt.Errorf("description is required")
	ErrImageURLRequired    = fmt.Errorf("image_url is required")
	ErrPriceRequired       = fmt.Errorf("price is required")
	ErrInvalidPrice        = fmt.Errorf("price must be a non-negative decimal")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidQueryLimit   = fmt.Errorf("limit must be a positive integer")
	ErrEmptyQuery          = fmt.Errorf("query is required")
	ErrEmptyBatch          = fmt.Errorf("batch is empty")

	// HTTP-слой
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrInternalServerError = fmt.Errorf("internal server error")
	ErrItemNotFound        = fmt.Errorf("item not found")

	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
