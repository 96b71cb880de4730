package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/shopstream-tech/search-backend/docs" // Импорт сгенерированных файлов
	"github.com/shopstream-tech/search-backend/internal/usecase"
	"github.com/shopstream-tech/search-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(itemUC usecase.ItemUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		itemHandler := NewItemHandler(itemUC, r.logger)
		searchHandler := NewSearchHandler(itemUC, r.logger)
		registerItemRoutes(v1, itemHandler)
		registerSearchRoutes(v1, searchHandler)
	})
}

func registerItemRoutes(router chi.Router, h *ItemHandler) {
	router.Route("/items", func(items chi.Router) {
		items.Post("/", h.ingestItem)
		items.Post("/batch", h.enqueueBatch)
		items.Get("/{item_id}", h.getItem)
	})
}

func registerSearchRoutes(router chi.Router, h *SearchHandler) {
	router.Get("/search", h.search)
}
