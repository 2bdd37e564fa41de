// Package health реализует проверку готовности: хранилище записей отвечает на чтение.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
)

// Prober проверяет доступность хранилища.
type Prober interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// Handler отвечает на проверку готовности.
type Handler struct {
	log   *slog.Logger
	store Prober
	key   string
}

// New создает новый экземпляр Handler. key - ключ, чтение которого проверяется.
func New(log *slog.Logger, store Prober, key string) *Handler {
	return &Handler{log: log, store: store, key: key}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if _, err := h.store.Exists(r.Context(), h.key); err != nil {
		h.log.Error("storage probe failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage unavailable"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
