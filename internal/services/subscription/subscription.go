// Package services содержит оформление подписки текущего пользователя на тариф.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// Session - часть менеджера сессии, через которую меняется запись пользователя.
type Session interface {
	UpdateCurrent(ctx context.Context, userID string, mutate func(*models.User) error) (models.User, error)
}

// Publisher отправляет события во внешнюю шину.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// SubscriptionService оформляет подписки.
type SubscriptionService struct {
	session   Session
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewSubscriptionService создает SubscriptionService. publisher может быть nil.
func NewSubscriptionService(session Session, publisher Publisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		session:   session,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *SubscriptionService) WithClock(now func() time.Time) *SubscriptionService {
	s.now = now
	return s
}

// Subscribe оформляет подписку plan с периодом period для текущего пользователя userID.
// Запись в users и указатель текущего пользователя обновляются одной операцией.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID string, plan models.Plan, period models.BillingPeriod) (models.Subscription, error) {
	const op = "services.Subscribe"
	log := s.log.With(sl.Op(op), slog.String("user_id", userID))

	if !plan.Valid() {
		return models.Subscription{}, fmt.Errorf("%s: unknown plan %q: %w", op, plan, errs.ErrValidation)
	}
	if !period.Valid() {
		return models.Subscription{}, fmt.Errorf("%s: unknown billing period %q: %w", op, period, errs.ErrValidation)
	}

	start := s.now().UTC()
	var sub models.Subscription
	_, err := s.session.UpdateCurrent(ctx, userID, func(u *models.User) error {
		sub = models.Subscription{
			Plan:          plan,
			Type:          u.Role,
			BillingPeriod: period,
			StartDate:     start,
			EndDate:       start.Add(period.Duration()),
		}
		u.Subscription = &sub
		return nil
	})
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("subscription updated",
		slog.String("plan", string(plan)),
		slog.String("billing_period", string(period)),
		slog.Time("end_date", sub.EndDate),
	)

	if s.publisher != nil {
		event := models.SubscriptionEvent{UserID: userID, Subscription: sub, OccurredAt: start}
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingSubscription, event); err != nil {
			log.Warn("failed to publish subscription event", sl.Err(err))
		}
	}
	return sub, nil
}
