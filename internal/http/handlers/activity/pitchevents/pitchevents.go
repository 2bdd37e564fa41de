// Package pitchevents реализует HTTP-обработчики питч-сессий: создание и список.
package pitchevents

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Service создаёт и читает питч-сессии.
type Service interface {
	CreatePitchEvent(ctx context.Context, event models.PitchEvent) (models.PitchEvent, error)
	PitchEvents(ctx context.Context) ([]models.PitchEvent, error)
}

// Request - новая питч-сессия. Организатор берётся из сессии.
type Request struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Venue           string `json:"venue"`
	MaxParticipants int    `json:"maxParticipants"`
	Requirements    string `json:"requirements"`
	Format          string `json:"format"`
}

// CreateHandler создаёт питч-сессию.
type CreateHandler struct {
	log     *slog.Logger
	service Service
}

// NewCreate создает новый экземпляр CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создание питч-сессии
// @Tags Activity
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Питч-сессия"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /pitch-events [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.pitchevents.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	event, err := h.service.CreatePitchEvent(r.Context(), models.PitchEvent{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Time:            req.Time,
		Venue:           req.Venue,
		MaxParticipants: req.MaxParticipants,
		Requirements:    req.Requirements,
		Format:          req.Format,
	})
	if err != nil {
		log.Warn("failed to create pitch event", sl.Err(err))
		response.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(event))
}

// ListHandler отдаёт все питч-сессии.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Питч-сессии
// @Tags Activity
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /pitch-events [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.pitchevents.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	events, err := h.service.PitchEvents(r.Context())
	if err != nil {
		log.Error("failed to list pitch events", sl.Err(err))
		response.Render(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(events))
}
