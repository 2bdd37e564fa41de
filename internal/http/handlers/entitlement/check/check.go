// Package check реализует HTTP-обработчик проверки доступа текущего пользователя к возможности.
package check

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/metrics"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Checker принимает решение о доступе пользователя к возможности по ключу каталога.
type Checker interface {
	CheckFeature(user models.User, key string) (bool, error)
}

// Result - решение о доступе.
type Result struct {
	Feature     string      `json:"feature"`
	Allowed     bool        `json:"allowed"`
	MinimumPlan models.Plan `json:"minimumPlan"`
	CurrentPlan models.Plan `json:"currentPlan,omitempty"`
}

// Handler обрабатывает запросы проверки доступа.
type Handler struct {
	log     *slog.Logger
	checker Checker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, checker Checker) *Handler {
	return &Handler{log: log, checker: checker}
}

// ServeHTTP godoc
// @Summary Проверка доступа к возможности
// @Tags Entitlement
// @Produce  json
// @Security BearerAuth
// @Param feature path string true "Ключ возможности, например VIEW_FINANCIAL_DATA"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Неизвестная возможность"
// @Router /entitlements/{feature} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.check"
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

	key := chi.URLParam(r, "feature")
	f, ok := models.FeatureByKey(key)
	if !ok {
		log.Warn("unknown feature", slog.String("feature", key))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("unknown feature"))
		return
	}

	allowed, err := h.checker.CheckFeature(user, key)
	if err != nil {
		metrics.EntitlementChecks.WithLabelValues(key, "error").Inc()
		log.Error("entitlement check failed", sl.Err(err))
		response.Render(w, r, err)
		return
	}

	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	metrics.EntitlementChecks.WithLabelValues(key, outcome).Inc()

	res := Result{Feature: key, Allowed: allowed, MinimumPlan: f.MinimumPlan}
	if user.Subscription != nil {
		res.CurrentPlan = user.Subscription.Plan
	}
	render.JSON(w, r, response.OKWithData(res))
}
