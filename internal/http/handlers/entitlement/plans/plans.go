// Package plans реализует HTTP-обработчик прайс-листа тарифов с набором возможностей каждого тарифа.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/techvogue/internal/http/response"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// FeatureLister возвращает возможности тарифа для роли.
type FeatureLister interface {
	Features(role models.Role, plan models.Plan) ([]string, error)
}

// Plan - тариф роли с ценой и возможностями.
type Plan struct {
	models.PlanPrice
	Features []string `json:"features"`
}

// Handler отдаёт прайс-лист.
type Handler struct {
	log      *slog.Logger
	features FeatureLister
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, features FeatureLister) *Handler {
	return &Handler{log: log, features: features}
}

// ServeHTTP godoc
// @Summary Тарифы
// @Description Цены и возможности тарифов. Без параметра role возвращаются тарифы всех ролей.
// @Tags Entitlement
// @Produce  json
// @Param role query string false "Роль: entrepreneur, investor или freelancer"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неизвестная роль"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.plans"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	roles := models.Roles
	if q := r.URL.Query().Get("role"); q != "" {
		role, err := models.ParseRole(q)
		if err != nil {
			log.Warn("unknown role", slog.String("role", q))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown role"))
			return
		}
		roles = []models.Role{role}
	}

	out := make(map[models.Role][]Plan, len(roles))
	for _, role := range roles {
		prices := models.PricesFor(role)
		plans := make([]Plan, 0, len(prices))
		for _, p := range prices {
			features, err := h.features.Features(role, p.Plan)
			if err != nil {
				log.Error("failed to list plan features", sl.Err(err))
				response.Render(w, r, err)
				return
			}
			plans = append(plans, Plan{PlanPrice: p, Features: features})
		}
		out[role] = plans
	}

	render.JSON(w, r, response.OKWithData(out))
}
