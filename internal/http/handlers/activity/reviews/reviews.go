// Package reviews реализует HTTP-обработчики отзывов: добавление и список со средней оценкой.
// Параметр peer=true переключает на отзывы между предпринимателями.
package reviews

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Service добавляет и читает отзывы.
type Service interface {
	AddReview(ctx context.Context, peer bool, review models.Review) (models.Review, error)
	Reviews(ctx context.Context, peer bool, toUserID string) ([]models.Review, float64, error)
}

// Request - новый отзыв.
type Request struct {
	ToUserID string `json:"toUserId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// List - отзывы о пользователе и средняя оценка.
type List struct {
	Reviews []models.Review `json:"reviews"`
	Average float64         `json:"averageRating"`
}

// CreateHandler добавляет отзыв.
type CreateHandler struct {
	log     *slog.Logger
	service Service
}

// NewCreate создает новый экземпляр CreateHandler.
func NewCreate(log *slog.Logger, service Service) *CreateHandler {
	return &CreateHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавление отзыва
// @Description Без toUserId отзыв адресуется автору. Оценка от 1 до 5.
// @Tags Activity
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param peer query bool false "Отзыв между предпринимателями"
// @Param request body Request true "Отзыв"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /reviews [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.reviews.create"
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

	review, err := h.service.AddReview(r.Context(), peer(r), models.Review{
		ToUserID: req.ToUserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		log.Warn("failed to add review", sl.Err(err))
		response.Render(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(review))
}

// ListHandler отдаёт отзывы о пользователе.
type ListHandler struct {
	log     *slog.Logger
	service Service
}

// NewList создает новый экземпляр ListHandler.
func NewList(log *slog.Logger, service Service) *ListHandler {
	return &ListHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отзывы
// @Description Без userId возвращаются все отзывы.
// @Tags Activity
// @Produce  json
// @Security BearerAuth
// @Param peer query bool false "Отзывы между предпринимателями"
// @Param userId query string false "Адресат отзывов"
// @Success 200 {object} response.Response
// @Router /reviews [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.activity.reviews.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, avg, err := h.service.Reviews(r.Context(), peer(r), r.URL.Query().Get("userId"))
	if err != nil {
		log.Error("failed to list reviews", sl.Err(err))
		response.Render(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(List{Reviews: items, Average: avg}))
}

func peer(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("peer"))
	return v
}
