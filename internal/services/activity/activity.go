// Package services содержит пользовательскую активность: отзывы, питч-сессии
// и записи ролевых коллекций (вехи, команда, сделки, встречи, портфолио, заявки, сообщения).
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

// PitchStatusUpcoming - статус новой питч-сессии.
const PitchStatusUpcoming = "upcoming"

// Session даёт доступ к текущему пользователю.
type Session interface {
	CurrentUser(ctx context.Context) (models.User, error)
}

// Коллекции свободных записей, доступные роли. messages доступна всем.
var roleCollections = map[models.Role][]string{
	models.RoleEntrepreneur: {records.Milestones, records.TeamMembers},
	models.RoleInvestor:     {records.Deals, records.Meetings},
	models.RoleFreelancer:   {records.Portfolio, records.Applications},
}

// ActivityService добавляет и читает записи активности текущего пользователя.
type ActivityService struct {
	store       *records.Store
	session     Session
	validate    *validator.Validate
	log         *slog.Logger
	now         func() time.Time
	newID       func() string
	reviews     records.Collection[models.Review]
	peerReviews records.Collection[models.Review]
	pitchEvents records.Collection[models.PitchEvent]
}

// NewActivityService создает ActivityService.
func NewActivityService(store *records.Store, session Session, log *slog.Logger) *ActivityService {
	validate := validator.New()
	return &ActivityService{
		store:       store,
		session:     session,
		validate:    validate,
		log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
		reviews:     records.NewCollection(store, records.Reviews, records.WithValidator(validateReview(validate))),
		peerReviews: records.NewCollection(store, records.PeerReviews, records.WithValidator(validateReview(validate))),
		pitchEvents: records.NewCollection[models.PitchEvent](store, records.PitchEvents),
	}
}

func validateReview(v *validator.Validate) func(models.Review) error {
	return func(r models.Review) error { return v.Struct(r) }
}

// AddReview сохраняет отзыв текущего пользователя. Если получатель не указан,
// отзыв относится к самому автору. peer - отзыв между предпринимателями.
func (s *ActivityService) AddReview(ctx context.Context, peer bool, review models.Review) (models.Review, error) {
	const op = "services.AddReview"
	cur, err := s.session.CurrentUser(ctx)
	if err != nil {
		return models.Review{}, fmt.Errorf("%s: %w", op, err)
	}
	if peer && cur.Role != models.RoleEntrepreneur {
		return models.Review{}, fmt.Errorf("%s: peer reviews are available to entrepreneurs only: %w", op, errs.ErrValidation)
	}

	if review.ToUserID == "" {
		review.ToUserID = cur.ID
	}
	review.ID = s.newID()
	review.Role = cur.Role
	review.CreatedAt = s.now().UTC()
	if err := s.check(review); err != nil {
		return models.Review{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.reviewCollection(peer).Append(ctx, review); err != nil {
		return models.Review{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("review added", sl.Op(op), slog.String("to_user_id", review.ToUserID), slog.Int("rating", review.Rating))
	return review, nil
}

// Reviews возвращает отзывы о пользователе toUserID (все, если пусто) и их средний рейтинг.
func (s *ActivityService) Reviews(ctx context.Context, peer bool, toUserID string) ([]models.Review, float64, error) {
	const op = "services.Reviews"
	all, err := s.reviewCollection(peer).Get(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]models.Review, 0, len(all))
	var sum int
	for _, r := range all {
		if toUserID != "" && r.ToUserID != toUserID {
			continue
		}
		out = append(out, r)
		sum += r.Rating
	}
	if len(out) == 0 {
		return out, 0, nil
	}
	return out, float64(sum) / float64(len(out)), nil
}

func (s *ActivityService) reviewCollection(peer bool) records.Collection[models.Review] {
	if peer {
		return s.peerReviews
	}
	return s.reviews
}

// CreatePitchEvent создаёт питч-сессию от имени текущего пользователя.
func (s *ActivityService) CreatePitchEvent(ctx context.Context, event models.PitchEvent) (models.PitchEvent, error) {
	const op = "services.CreatePitchEvent"
	cur, err := s.session.CurrentUser(ctx)
	if err != nil {
		return models.PitchEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	event.ID = s.newID()
	event.OrganizerID = cur.ID
	event.OrganizerName = cur.Name
	event.Status = PitchStatusUpcoming
	event.Participants = []string{}
	event.CreatedAt = s.now().UTC()
	if err := s.check(event); err != nil {
		return models.PitchEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.pitchEvents.Append(ctx, event); err != nil {
		return models.PitchEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("pitch event created", sl.Op(op), slog.String("event_id", event.ID))
	return event, nil
}

// PitchEvents возвращает все питч-сессии.
func (s *ActivityService) PitchEvents(ctx context.Context) ([]models.PitchEvent, error) {
	const op = "services.PitchEvents"
	events, err := s.pitchEvents.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// PutRecord добавляет запись в ролевую коллекцию или заменяет запись с тем же id.
// Возвращает сохранённую запись и признак добавления.
func (s *ActivityService) PutRecord(ctx context.Context, collection string, rec models.Record) (models.Record, bool, error) {
	const op = "services.PutRecord"
	cur, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !allowed(cur.Role, collection) {
		return nil, false, fmt.Errorf("%s: collection %q is not available to %s: %w", op, collection, cur.Role, errs.ErrValidation)
	}

	out := make(models.Record, len(rec)+3)
	for k, v := range rec {
		out[k] = v
	}
	if out.ID() == "" {
		out["id"] = s.newID()
	}
	out["ownerId"] = cur.ID
	if _, ok := out["createdAt"]; !ok {
		out["createdAt"] = s.now().UTC().Format(time.RFC3339)
	}

	inserted, err := records.NewCollection[models.Record](s.store, collection).Upsert(ctx, out, models.Record.ID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return out, inserted, nil
}

// Records возвращает записи ролевой коллекции.
func (s *ActivityService) Records(ctx context.Context, collection string) ([]models.Record, error) {
	const op = "services.Records"
	cur, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !allowed(cur.Role, collection) {
		return nil, fmt.Errorf("%s: collection %q is not available to %s: %w", op, collection, cur.Role, errs.ErrValidation)
	}
	recs, err := records.NewCollection[models.Record](s.store, collection).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recs, nil
}

func allowed(role models.Role, collection string) bool {
	if collection == records.Messages {
		return true
	}
	for _, c := range roleCollections[role] {
		if c == collection {
			return true
		}
	}
	return false
}

// check валидирует структуру и приводит ошибку валидатора к ErrValidation.
func (s *ActivityService) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", errs.ErrValidation, verrs.Error())
		}
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}
