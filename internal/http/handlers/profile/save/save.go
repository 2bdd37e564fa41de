// Package save реализует HTTP-обработчик частичного обновления профиля роли текущего пользователя.
//
// Тело запроса - JSON-объект с изменяемыми полями. Поля, отсутствующие в теле,
// сохраняют прежние значения; userId всегда берётся из сессии.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
	services "github.com/magabrotheeeer/techvogue/internal/services/profile"
)

// Service сохраняет профиль.
type Service interface {
	Save(ctx context.Context, kind models.Role, userID string, patch map[string]any) (any, error)
}

// Handler обрабатывает сохранение профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сохранение профиля
// @Description Сливает переданные поля с сохранённым профилем роли kind текущего пользователя.
// @Tags Profile
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "entrepreneur, investor или freelancer"
// @Param request body object true "Изменяемые поля профиля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "Не заполнены обязательные поля"
// @Router /profiles/{kind} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.save"
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

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	profile, err := h.service.Save(r.Context(), kind, user.ID, patch)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			log.Warn("profile validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verr.Fields))
			return
		}
		log.Error("failed to save profile", sl.Err(err))
		response.Render(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(profile))
}
