// Package verify реализует HTTP-обработчик верификации стартапа в реестре компаний.
package verify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Service верифицирует стартап пользователя.
type Service interface {
	Verify(ctx context.Context, userID string) (models.EntrepreneurProfile, error)
}

// Handler обрабатывает запрос верификации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Верификация стартапа
// @Description Проверяет CIN из профиля стартапа в реестре и сохраняет результат.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "Не указан CIN"
// @Failure 502 {object} response.ErrorResponse "Реестр недоступен"
// @Failure 504 {object} response.ErrorResponse "Реестр не ответил вовремя"
// @Router /profiles/entrepreneur/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	profile, err := h.service.Verify(r.Context(), user.ID)
	if err != nil {
		log.Warn("verification failed", sl.Err(err))
		response.Render(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(profile))
}
