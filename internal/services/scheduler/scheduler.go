// Package services содержит планировщик уведомлений об истекающих подписках.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/techvogue/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

// UserLister возвращает всех пользователей хранилища.
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Publisher отправляет уведомления во внешнюю шину.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// SchedulerService по расписанию ищет подписки, истекающие в пределах окна, и публикует уведомления.
type SchedulerService struct {
	users     UserLister
	publisher Publisher
	window    time.Duration
	log       *slog.Logger
	now       func() time.Time
	cron      *cron.Cron

	mu       sync.Mutex
	notified map[string]time.Time // userID -> EndDate последнего опубликованного уведомления
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(users UserLister, publisher Publisher, window time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		users:     users,
		publisher: publisher,
		window:    window,
		log:       log,
		now:       time.Now,
		cron:      cron.New(),
		notified:  make(map[string]time.Time),
	}
}

// FindExpiring возвращает уведомления для подписок, чей EndDate лежит в (now, now+window].
// Уже истёкшие подписки не попадают в выборку.
func (s *SchedulerService) FindExpiring(ctx context.Context) ([]models.ExpiryNotice, error) {
	const op = "services.FindExpiring"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	deadline := now.Add(s.window)

	var out []models.ExpiryNotice
	for _, u := range users {
		sub := u.Subscription
		if sub == nil || !sub.EndDate.After(now) || sub.EndDate.After(deadline) {
			continue
		}
		out = append(out, models.ExpiryNotice{
			UserID:  u.ID,
			Email:   u.Email,
			Name:    u.Name,
			Plan:    sub.Plan,
			Type:    sub.Type,
			EndDate: sub.EndDate,
		})
	}
	return out, nil
}

// RunExpiryCheck выполняет один проход: находит истекающие подписки и публикует уведомления.
// Возвращает число опубликованных уведомлений. Ошибки публикации логируются.
// Для одной пары (пользователь, EndDate) уведомление публикуется один раз за время жизни
// процесса; продлённая подписка с новым EndDate уведомляется заново.
func (s *SchedulerService) RunExpiryCheck(ctx context.Context) int {
	log := s.log.With(sl.Op("services.RunExpiryCheck"))
	log.Info("starting expiring subscriptions check")

	found, err := s.FindExpiring(ctx)
	if err != nil {
		log.Error("failed to find expiring subscriptions", sl.Err(err))
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forgetExpired()
	notices := make([]models.ExpiryNotice, 0, len(found))
	for _, n := range found {
		if last, ok := s.notified[n.UserID]; ok && last.Equal(n.EndDate) {
			continue
		}
		notices = append(notices, n)
	}
	if len(notices) == 0 {
		log.Info("no expiring subscriptions found")
		return 0
	}
	log.Info("found expiring subscriptions", slog.Int("count", len(notices)))

	var published int
	for _, n := range notices {
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingExpiring, n); err != nil {
			log.Error("failed to publish message", slog.String("user_id", n.UserID), sl.Err(err))
			continue
		}
		s.notified[n.UserID] = n.EndDate
		published++
	}
	return published
}

func (s *SchedulerService) forgetExpired() {
	now := s.now()
	for id, end := range s.notified {
		if !end.After(now) {
			delete(s.notified, id)
		}
	}
}

// Start регистрирует проверку по расписанию spec и запускает планировщик.
func (s *SchedulerService) Start(ctx context.Context, spec string) error {
	const op = "services.SchedulerStart"
	if _, err := s.cron.AddFunc(spec, func() { s.RunExpiryCheck(ctx) }); err != nil {
		return fmt.Errorf("%s: invalid schedule %q: %w", op, spec, err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", slog.String("spec", spec))
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенной проверки или отмены ctx.
func (s *SchedulerService) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}
