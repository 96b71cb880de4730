package usecase

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/pkg/e"
)

// ITEM USECASE

// IngestItemReq — одна запись товара на загрузку в каталог.
type IngestItemReq struct {
	ItemID      string
	Description string
	ImageURL    string
	Price       int64 // в копейках
}

// IngestItemRes — результат загрузки одного товара.
// Indexed=false означает, что метаданные сохранены, но вектор не записан:
// товар доступен только через текстовый fallback до повторной загрузки.
type IngestItemRes struct {
	ItemID   string
	ImageKey *string
	Indexed  bool
}

// SearchReq — текстовый поисковый запрос.
type SearchReq struct {
	Query string
	Limit int
}

// SearchRes — выдача поиска с указанием пути, которым она получена.
type SearchRes struct {
	Results []domain.SearchResult
	Method  domain.SearchMethod
}

// INFRASTRUCTURE

// NormalizeImageReq — запрос на скачивание и нормализацию изображения товара.
type NormalizeImageReq struct {
	ItemID   string
	ImageURL string
}

// NormalizeImageRes — ключ нормализованного изображения в S3.
type NormalizeImageRes struct {
	ObjectKey string
}

type WriteMessageReq struct {
	ItemID  string
	Payload []byte
}

// WIRE FORMAT

// ingestRecord — формат записи во входном JSON (HTTP и Kafka идентичны).
// Указатели нужны, чтобы отличить отсутствующее поле от пустого значения.
type ingestRecord struct {
	ItemID      *string      `json:"item_id"`
	Description *string      `json:"description"`
	ImageURL    *string      `json:"image_url"`
	Price       *json.Number `json:"price"`
}

// ParseIngestRecord разбирает JSON-запись товара и валидирует обязательные поля.
// Цена приходит десятичным числом и конвертируется в копейки.
func ParseIngestRecord(data []byte) (*IngestItemReq, error) {
	var rec ingestRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, e.Wrap(e.ErrStatusBadRequest.Error(), err)
	}

	if rec.ItemID == nil || strings.TrimSpace(*rec.ItemID) == "" {
		return nil, e.ErrItemIDRequired
	}
	if rec.Description == nil || strings.TrimSpace(*rec.Description) == "" {
		return nil, e.ErrDescriptionRequired
	}
	if rec.ImageURL == nil || strings.TrimSpace(*rec.ImageURL) == "" {
		return nil, e.ErrImageURLRequired
	}
	if rec.Price == nil {
		return nil, e.ErrPriceRequired
	}

	cents, err := parsePriceToCents(rec.Price.String())
	if err != nil {
		return nil, err
	}

	return NewIngestItemReq(*rec.ItemID, *rec.Description, *rec.ImageURL, cents), nil
}

// parsePriceToCents конвертирует десятичную цену ("599.99", "600") в копейки.
func parsePriceToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Верхняя граница цены — 1 млрд
	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// MAPPERS

func NewIngestItemReq(itemID, description, imageURL string, price int64) *IngestItemReq {
	return &IngestItemReq{
		ItemID:      itemID,
		Description: description,
		ImageURL:    imageURL,
		Price:       price,
	}
}

func NewIngestItemRes(itemID string, imageKey *string, indexed bool) *IngestItemRes {
	return &IngestItemRes{
		ItemID:   itemID,
		ImageKey: imageKey,
		Indexed:  indexed,
	}
}

func NewSearchReq(query string, limit int) *SearchReq {
	return &SearchReq{
		Query: query,
		Limit: limit,
	}
}

func NewSearchRes(results []domain.SearchResult, method domain.SearchMethod) *SearchRes {
	return &SearchRes{
		Results: results,
		Method:  method,
	}
}

func NewNormalizeImageReq(itemID, imageURL string) *NormalizeImageReq {
	return &NormalizeImageReq{
		ItemID:   itemID,
		ImageURL: imageURL,
	}
}

func NewNormalizeImageRes(objectKey string) *NormalizeImageRes {
	return &NormalizeImageRes{ObjectKey: objectKey}
}

func NewWriteMessageReq(itemID string, payload []byte) *WriteMessageReq {
	return &WriteMessageReq{
		ItemID:  itemID,
		Payload: payload,
	}
}
