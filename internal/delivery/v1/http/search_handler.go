package http

import (
	"net/http"
	"strconv"

	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

type SearchHandler struct {
	itemUsecase usecase.ItemUC
	logger      logger.Logger
}

func NewSearchHandler(itemUsecase usecase.ItemUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{itemUsecase: itemUsecase, logger: logger}
}

// search
//
//	@Summary		Поиск товаров
//	@Description	Векторный поиск по смыслу запроса с fallback на подстрочный поиск по описанию
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string					true	"Текст запроса"
//	@Param			limit	query		int						false	"Размер выдачи (по умолчанию 10)"
//	@Success		200		{object}	map[string]interface{}	"Выдача с указанием search_method"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse			"Внутренняя ошибка"
//	@Router			/search [get]
func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			h.logger.Warnf("%d %s: limit=%q", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), rawLimit)
			WriteError(w, e.ErrInvalidQueryLimit)
			return
		}
		limit = parsed
	}

	res, err := h.itemUsecase.Search(r.Context(), usecase.NewSearchReq(query, limit))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	results := toSearchResultResponses(res.Results)

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"query":         query,
		"results":       results,
		"count":         len(results),
		"search_method": res.Method,
	})
}
