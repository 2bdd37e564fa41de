// Package me реализует HTTP-обработчики текущего пользователя: локальная запись
// и профиль из удалённого сервиса.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Service возвращает текущего пользователя.
type Service interface {
	CurrentUser(ctx context.Context) (models.User, error)
}

// RemoteProfile загружает профиль пользователя из удалённого сервиса.
type RemoteProfile interface {
	Fetch(ctx context.Context) (map[string]any, error)
}

// Handler отдаёт текущего пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		log.Warn("current user unavailable", sl.Err(err))
		response.Render(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(user.Public()))
}

// RemoteHandler отдаёт профиль из удалённого сервиса.
type RemoteHandler struct {
	log    *slog.Logger
	remote RemoteProfile
}

// NewRemote создает новый экземпляр RemoteHandler.
func NewRemote(log *slog.Logger, remote RemoteProfile) *RemoteHandler {
	return &RemoteHandler{log: log, remote: remote}
}

// ServeHTTP godoc
// @Summary Удалённый профиль пользователя
// @Description Ответ 401 удалённого сервиса завершает локальную сессию.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Failure 504 {object} response.ErrorResponse
// @Router /me/remote [get]
func (h *RemoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me.remote"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profile, err := h.remote.Fetch(r.Context())
	if err != nil {
		log.Warn("remote profile unavailable", sl.Err(err))
		response.Render(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(profile))
}
