package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/shopstream-tech/search-backend/internal/domain"
	"github.com/shopstream-tech/search-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrItemIDRequired):
		return http.StatusBadRequest, e.ErrItemIDRequired.Error()
	case errors.Is(err, e.ErrDescriptionRequired):
		return http.StatusBadRequest, e.ErrDescriptionRequired.Error()
	case errors.Is(err, e.ErrImageURLRequired):
		return http.StatusBadRequest, e.ErrImageURLRequired.Error()
	case errors.Is(err, e.ErrPriceRequired):
		return http.StatusBadRequest, e.ErrPriceRequired.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrEmptyQuery):
		return http.StatusBadRequest, e.ErrEmptyQuery.Error()
	case errors.Is(err, e.ErrInvalidQueryLimit):
		return http.StatusBadRequest, e.ErrInvalidQueryLimit.Error()
	case errors.Is(err, e.ErrEmptyBatch):
		return http.StatusBadRequest, e.ErrEmptyBatch.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrItemNotFound):
		return http.StatusNotFound, e.ErrItemNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ItemResponse — представление товара в ответах API.
type ItemResponse struct {
	ItemID      string  `json:"item_id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	ImageKey    *string `json:"image_key"`
}

// SearchResultResponse — одна позиция поисковой выдачи.
// Score присутствует только на векторном пути.
type SearchResultResponse struct {
	ItemID      string   `json:"item_id"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	ImageKey    *string  `json:"image_key"`
	Score       *float32 `json:"score,omitempty"`
}

func toItemResponse(item *domain.Item) *ItemResponse {
	return &ItemResponse{
		ItemID:      item.ItemID,
		Description: item.Description,
		Price:       centsToPrice(item.Price),
		ImageURL:    item.ImageURL,
		ImageKey:    item.ImageKey,
	}
}

func toSearchResultResponses(results []domain.SearchResult) []SearchResultResponse {
	responses := make([]SearchResultResponse, 0, len(results))
	for _, res := range results {
		responses = append(responses, SearchResultResponse{
			ItemID:      res.ItemID,
			Description: res.Description,
			Price:       centsToPrice(res.Price),
			ImageURL:    res.ImageURL,
			ImageKey:    res.ImageKey,
			Score:       res.Score,
		})
	}

	return responses
}

// centsToPrice возвращает цену в десятичном представлении для ответа API.
func centsToPrice(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
