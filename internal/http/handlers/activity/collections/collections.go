// Package collections реализует HTTP-обработчики ролевых коллекций свободных записей
// (вехи, команда, сделки, встречи, портфолио, заявки, сообщения).
package collections

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Service добавляет и читает записи коллекций.
type Service interface {
	PutRecord(ctx context.Context, collection string, rec models.Record) (models.Record, bool, error)
	Records(ctx context.Context, collection string) ([]models.Record, error)
}

// PutHandler добавляет запись или заменяет запись с тем же id.
type PutHandler struct {
	log     *slog.Logger
	service Service
}

// NewPut создает новый экземпляр PutHandler.
func NewPut(log *slog.Logger, service Service) *PutHandler {
	return &PutHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запись коллекции
// @Description Запись без id добавляется, запись с существующим id заменяет прежнюю.
// @Tags Activity
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param collection path string true "Имя коллекции, например milestones"
// @Param request body object true "Запись"
// @Success 200 {object} response.Response "Запись заменена"
// @Success 201 {object} response.Response "Запись добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Коллекция недоступна роли"
// @Router /collections/{collection} [post]
func (h *PutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.collections.put"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var rec models.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	name := chi.URLParam(r, "collection")
	saved, inserted, err := h.service.PutRecord(r.Context(), name, rec)
	if err != nil {
		log.Warn("failed to store record", slog.String("collection", name), sl.Err(err))
		response.Render(w, r, err)
		return
	}

	if inserted {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, response.OKWithData(saved))
}

// ListHandler отдаёт записи коллекции.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Записи коллекции
// @Tags Activity
// @Produce  json
// @Security BearerAuth
// @Param collection path string true "Имя коллекции"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse "Коллекция недоступна роли"
// @Router /collections/{collection} [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.collections.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name := chi.URLParam(r, "collection")
	items, err := h.service.Records(r.Context(), name)
	if err != nil {
		log.Warn("failed to list records", slog.String("collection", name), sl.Err(err))
		response.Render(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(items))
}
