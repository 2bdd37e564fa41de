// Package techvogue собирает локальное API устройства: хранилище, сессию,
// движок доступа, сервисы и HTTP-сервер.
package techvogue

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/techvogue/internal/app/substrate"
	"github.com/magabrotheeeer/techvogue/internal/clients/userprofile"
	"github.com/magabrotheeeer/techvogue/internal/clients/verification"
	"github.com/magabrotheeeer/techvogue/internal/config"
	"github.com/magabrotheeeer/techvogue/internal/entitlement"
	"github.com/magabrotheeeer/techvogue/internal/lib/jwt"
	"github.com/magabrotheeeer/techvogue/internal/lib/password"
	"github.com/magabrotheeeer/techvogue/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	activityservice "github.com/magabrotheeeer/techvogue/internal/services/activity"
	authservice "github.com/magabrotheeeer/techvogue/internal/services/auth"
	profileservice "github.com/magabrotheeeer/techvogue/internal/services/profile"
	subservice "github.com/magabrotheeeer/techvogue/internal/services/subscription"
	"github.com/magabrotheeeer/techvogue/internal/storage"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

// App - HTTP-приложение устройства.
type App struct {
	server *http.Server
	logger *slog.Logger
	kv     storage.Substrate
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	kv, err := substrate.Open(ctx, cfg.Storage, cfg.RedisConnection, logger)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, kv: kv}

	store := records.New(kv, logger)
	session := authservice.NewSessionManager(
		store,
		password.NewHasher(cfg.BcryptCost),
		jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		logger,
	)

	// Без брокера события о смене тарифа не публикуются.
	var publisher subservice.Publisher
	if cfg.RabbitMQ.URL != "" {
		app.conn, err = rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.ch, err = rabbitmq.SetupChannel(app.conn, cfg.Exchange, rabbitmq.Queues())
		if err != nil {
			app.close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(app.ch, cfg.Exchange)
	} else {
		logger.Warn("rabbitmq url is empty, subscription events are disabled")
	}

	svc := Services{
		Store:        store,
		Session:      session,
		Engine:       entitlement.New(),
		Subscription: subservice.NewSubscriptionService(session, publisher, logger),
		Profile: profileservice.NewProfileService(store, session,
			verification.New(cfg.VerificationURL, cfg.Clients.Timeout, logger), logger),
		Activity: activityservice.NewActivityService(store, session, logger),
		Remote:   userprofile.New(cfg.ProfileURL, cfg.Clients.Timeout, session, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, svc)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.kv.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
