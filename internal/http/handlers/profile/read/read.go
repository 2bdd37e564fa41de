// Package read реализует HTTP-обработчик чтения профиля роли.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Service читает профиль.
type Service interface {
	Get(ctx context.Context, kind models.Role, userID string) (any, bool, error)
}

// Handler обрабатывает чтение профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль роли
// @Description Без параметра userId возвращается профиль текущего пользователя.
// @Tags Profile
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "entrepreneur, investor или freelancer"
// @Param userId query string false "Идентификатор пользователя"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Router /profiles/{kind} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"
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

	kind, err := models.ParseRole(chi.URLParam(r, "kind"))
	if err != nil {
		log.Warn("unknown profile kind", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown profile kind"))
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = user.ID
	}

	profile, found, err := h.service.Get(r.Context(), kind, userID)
	if err != nil {
		log.Error("failed to read profile", sl.Err(err))
		response.Render(w, r, err)
		return
	}
	if !found {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("profile not found"))
		return
	}
	render.JSON(w, r, response.OKWithData(profile))
}
