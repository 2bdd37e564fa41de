package techvogue

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/techvogue/internal/clients/userprofile"
	"github.com/magabrotheeeer/techvogue/internal/config"
	"github.com/magabrotheeeer/techvogue/internal/entitlement"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/activity/collections"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/activity/pitchevents"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/activity/reviews"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/entitlement/check"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/entitlement/plans"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/health"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/profile/read"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/profile/save"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/profile/verify"
	"github.com/magabrotheeeer/techvogue/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	activityservice "github.com/magabrotheeeer/techvogue/internal/services/activity"
	authservice "github.com/magabrotheeeer/techvogue/internal/services/auth"
	profileservice "github.com/magabrotheeeer/techvogue/internal/services/profile"
	subservice "github.com/magabrotheeeer/techvogue/internal/services/subscription"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

// Services - зависимости обработчиков.
type Services struct {
	Store        *records.Store
	Session      *authservice.SessionManager
	Engine       *entitlement.Engine
	Subscription *subservice.SubscriptionService
	Profile      *profileservice.ProfileService
	Activity     *activityservice.ActivityService
	Remote       *userprofile.Client
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/signup", signup.New(logger, svc.Session).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Session).ServeHTTP)
		r.Get("/plans", plans.New(logger, svc.Engine).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Session, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimitRPS, cfg.RateLimitBurst))

			r.Post("/logout", logout.New(logger, svc.Session).ServeHTTP)
			r.Get("/me", me.New(logger, svc.Session).ServeHTTP)
			r.Get("/me/remote", me.NewRemote(logger, svc.Remote).ServeHTTP)

			r.Post("/subscriptions", subscribe.New(logger, svc.Subscription).ServeHTTP)
			r.Get("/entitlements/{feature}", check.New(logger, svc.Engine).ServeHTTP)

			r.Post("/profiles/entrepreneur/verify", verify.New(logger, svc.Profile).ServeHTTP)
			r.Get("/profiles/{kind}", read.New(logger, svc.Profile).ServeHTTP)
			r.Put("/profiles/{kind}", save.New(logger, svc.Profile).ServeHTTP)

			r.Post("/reviews", reviews.NewCreate(logger, svc.Activity).ServeHTTP)
			r.Get("/reviews", reviews.NewList(logger, svc.Activity).ServeHTTP)
			r.Post("/pitch-events", pitchevents.NewCreate(logger, svc.Activity).ServeHTTP)
			r.Get("/pitch-events", pitchevents.NewList(logger, svc.Activity).ServeHTTP)
			r.Post("/collections/{collection}", collections.NewPut(logger, svc.Activity).ServeHTTP)
			r.Get("/collections/{collection}", collections.NewList(logger, svc.Activity).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, svc.Store, records.Users).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
