package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/e"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

// Лимит размера тела запроса на загрузку
const maxIngestBodySize = 1 << 20

type ItemHandler struct {
	itemUsecase usecase.ItemUC
	logger      logger.Logger
}

func NewItemHandler(itemUsecase usecase.ItemUC, logger logger.Logger) *ItemHandler {
	return &ItemHandler{itemUsecase: itemUsecase, logger: logger}
}

// ingestItem
//
//	@Summary		Синхронная загрузка одного товара
//	@Description	Прогоняет товар через конвейер: изображение, эмбеддинг, каталог, векторный индекс
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			item	body		object					true	"Запись товара: item_id, description, image_url, price"
//	@Success		201		{object}	map[string]interface{}	"Товар загружен"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse			"Внутренняя ошибка"
//	@Router			/items [post]
func (h *ItemHandler) ingestItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxIngestBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	req, err := usecase.ParseIngestRecord(body)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.itemUsecase.Ingest(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]interface{}{
		"item_id":   res.ItemID,
		"image_key": res.ImageKey,
		"indexed":   res.Indexed,
	})
}

// enqueueBatch
//
//	@Summary		Пакетная загрузка товаров
//	@Description	Валидирует записи и публикует их во входной топик, обработка асинхронная
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			items	body		[]object				true	"Массив записей товаров"
//	@Success		202		{object}	map[string]interface{}	"Записи приняты"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse			"Внутренняя ошибка"
//	@Router			/items/batch [post]
func (h *ItemHandler) enqueueBatch(w http.ResponseWriter, r *http.Request) {
	var records []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	reqs := make([]*usecase.IngestItemReq, 0, len(records))
	for _, raw := range records {
		req, err := usecase.ParseIngestRecord(raw)
		if err != nil {
			h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
			WriteError(w, err)
			return
		}
		reqs = append(reqs, req)
	}

	accepted, err := h.itemUsecase.EnqueueBatch(r.Context(), reqs)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, map[string]interface{}{
		"accepted": accepted,
	})
}

// getItem
//
//	@Summary	Карточка товара
//	@Tags		items
//	@Produce	json
//	@Param		item_id	path		string			true	"Идентификатор товара"
//	@Success	200		{object}	ItemResponse	"Товар"
//	@Failure	404		{object}	ErrorResponse	"Товар не найден"
//	@Router		/items/{item_id} [get]
func (h *ItemHandler) getItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "item_id")

	item, err := h.itemUsecase.GetItem(r.Context(), itemID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toItemResponse(item))
}
