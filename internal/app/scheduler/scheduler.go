// Package scheduler собирает планировщик уведомлений об истекающих подписках.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/techvogue/internal/app/substrate"
	"github.com/magabrotheeeer/techvogue/internal/config"
	"github.com/magabrotheeeer/techvogue/internal/lib/jwt"
	"github.com/magabrotheeeer/techvogue/internal/lib/password"
	"github.com/magabrotheeeer/techvogue/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	authservice "github.com/magabrotheeeer/techvogue/internal/services/auth"
	schedulerservice "github.com/magabrotheeeer/techvogue/internal/services/scheduler"
	"github.com/magabrotheeeer/techvogue/internal/storage"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	spec             string
	kv               storage.Substrate
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("rabbitmq url is required for scheduler")
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.Queues())
	if err != nil {
		closeResources(nil, conn, nil, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	kv, err := substrate.Open(ctx, cfg.Storage, cfg.RedisConnection, logger)
	if err != nil {
		closeResources(ch, conn, nil, logger)
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	session := authservice.NewSessionManager(
		records.New(kv, logger),
		password.NewHasher(cfg.BcryptCost),
		jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		logger,
	)
	publisher := rabbitmq.NewPublisher(ch, cfg.Exchange)

	return &App{
		schedulerService: schedulerservice.NewSchedulerService(session, publisher, cfg.Window, logger),
		spec:             cfg.Spec,
		kv:               kv,
		conn:             conn,
		ch:               ch,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, kv storage.Substrate, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if kv != nil {
		if err := kv.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
}

// Run запускает планировщик и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	if err := a.schedulerService.Start(ctx, a.spec); err != nil {
		closeResources(a.ch, a.conn, a.kv, a.logger)
		return err
	}

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.schedulerService.Stop(stopCtx)

	closeResources(a.ch, a.conn, a.kv, a.logger)
	return nil
}
