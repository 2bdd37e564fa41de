// Package services содержит хранение профилей ролей: слияние частичных изменений
// с существующим профилем, проверку обязательных полей и верификацию стартапа в реестре.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

// RegistryMCA - реестр компаний, в котором проверяется CIN стартапа.
const RegistryMCA = "mca"

// Session даёт доступ к текущему пользователю.
type Session interface {
	CurrentUser(ctx context.Context) (models.User, error)
}

// Verifier проверяет компанию во внешнем реестре.
type Verifier interface {
	Verify(ctx context.Context, registry, companyID, entityName string) (*models.VerificationResult, error)
}

// ProfileService сохраняет и читает профили ролей. Связь профиля с существующим
// пользователем не проверяется.
type ProfileService struct {
	store         *records.Store
	session       Session
	verifier      Verifier
	validate      *validator.Validate
	log           *slog.Logger
	entrepreneurs records.Collection[models.EntrepreneurProfile]
	investors     records.Collection[models.InvestorProfile]
	freelancers   records.Collection[models.FreelancerProfile]
}

// NewProfileService создает ProfileService. verifier может быть nil, тогда Verify недоступен.
func NewProfileService(store *records.Store, session Session, verifier Verifier, log *slog.Logger) *ProfileService {
	return &ProfileService{
		store:         store,
		session:       session,
		verifier:      verifier,
		validate:      validator.New(),
		log:           log,
		entrepreneurs: records.NewCollection[models.EntrepreneurProfile](store, records.EntrepreneurProfiles),
		investors:     records.NewCollection[models.InvestorProfile](store, records.InvestorProfiles),
		freelancers:   records.NewCollection[models.FreelancerProfile](store, records.FreelancerProfiles),
	}
}

// Save сливает patch с профилем роли kind пользователя userID и сохраняет результат.
// Поля, отсутствующие в patch, сохраняют прежние значения.
func (s *ProfileService) Save(ctx context.Context, kind models.Role, userID string, patch map[string]any) (any, error) {
	const op = "services.SaveProfile"
	if err := s.authorize(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		out any
		err error
	)
	switch kind {
	case models.RoleEntrepreneur:
		out, err = save(ctx, s, s.entrepreneurs, userID, patch, func(p models.EntrepreneurProfile) string { return p.UserID })
	case models.RoleInvestor:
		out, err = save(ctx, s, s.investors, userID, patch, func(p models.InvestorProfile) string { return p.UserID })
	case models.RoleFreelancer:
		out, err = save(ctx, s, s.freelancers, userID, patch, func(p models.FreelancerProfile) string { return p.UserID })
	default:
		err = fmt.Errorf("unknown profile kind %q: %w", kind, errs.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile saved", sl.Op(op), slog.String("kind", string(kind)), slog.String("user_id", userID))
	return out, nil
}

// SaveEntrepreneur - типизированный вариант Save для профиля стартапа.
func (s *ProfileService) SaveEntrepreneur(ctx context.Context, userID string, patch map[string]any) (models.EntrepreneurProfile, error) {
	out, err := s.Save(ctx, models.RoleEntrepreneur, userID, patch)
	if err != nil {
		return models.EntrepreneurProfile{}, err
	}
	return out.(models.EntrepreneurProfile), nil
}

// Get возвращает профиль роли kind пользователя userID и признак его наличия.
func (s *ProfileService) Get(ctx context.Context, kind models.Role, userID string) (any, bool, error) {
	const op = "services.GetProfile"
	var (
		out   any
		found bool
		err   error
	)
	switch kind {
	case models.RoleEntrepreneur:
		out, found, err = find(ctx, s.entrepreneurs, func(p models.EntrepreneurProfile) bool { return p.UserID == userID })
	case models.RoleInvestor:
		out, found, err = find(ctx, s.investors, func(p models.InvestorProfile) bool { return p.UserID == userID })
	case models.RoleFreelancer:
		out, found, err = find(ctx, s.freelancers, func(p models.FreelancerProfile) bool { return p.UserID == userID })
	default:
		err = fmt.Errorf("unknown profile kind %q: %w", kind, errs.ErrValidation)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return out, found, nil
}

// Verify проверяет CIN стартапа пользователя в реестре и сохраняет результат в профиле.
func (s *ProfileService) Verify(ctx context.Context, userID string) (models.EntrepreneurProfile, error) {
	const op = "services.VerifyStartup"
	log := s.log.With(sl.Op(op), slog.String("user_id", userID))

	if s.verifier == nil {
		return models.EntrepreneurProfile{}, fmt.Errorf("%s: verification is not configured: %w", op, errs.ErrConfiguration)
	}
	if err := s.authorize(ctx, userID); err != nil {
		return models.EntrepreneurProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	profile, found, err := s.entrepreneurs.Find(ctx, func(p models.EntrepreneurProfile) bool { return p.UserID == userID })
	if err != nil {
		return models.EntrepreneurProfile{}, fmt.Errorf("%s: %w", op, err)
	}
	cin := strings.ToUpper(strings.TrimSpace(profile.CIN))
	if !found || cin == "" {
		return models.EntrepreneurProfile{}, fmt.Errorf("%s: company identification number is required: %w", op, errs.ErrValidation)
	}

	result, err := s.verifier.Verify(ctx, RegistryMCA, cin, profile.StartupName)
	if err != nil {
		log.Warn("startup verification failed", sl.Err(err))
		return models.EntrepreneurProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.EntrepreneurProfile
	err = s.store.Update(ctx, func(tx *records.Tx) error {
		items, err := s.entrepreneurs.Load(tx)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].UserID == userID {
				items[i].Verification = result
				saved = items[i]
				return s.entrepreneurs.Save(tx, items)
			}
		}
		return fmt.Errorf("profile removed during verification: %w", errs.ErrValidation)
	})
	if err != nil {
		return models.EntrepreneurProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("startup verification stored", slog.String("status", result.Status))
	return saved, nil
}

func (s *ProfileService) authorize(ctx context.Context, userID string) error {
	cur, err := s.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if cur.ID != userID {
		return errs.ErrNotAuthenticated
	}
	return nil
}

// Поля, которые нельзя задать через patch. Ключи сравниваются без учёта регистра,
// как их сопоставляет encoding/json.
var protectedFields = []string{"userId", "mcaVerification"}

func isProtected(key string) bool {
	for _, f := range protectedFields {
		if strings.EqualFold(key, f) {
			return true
		}
	}
	return false
}

// save выполняет слияние и upsert в одной операции хранилища.
func save[T any](ctx context.Context, s *ProfileService, col records.Collection[T], userID string, patch map[string]any, key func(T) string) (T, error) {
	var out T
	err := s.store.Update(ctx, func(tx *records.Tx) error {
		items, err := col.Load(tx)
		if err != nil {
			return err
		}
		merged := map[string]any{}
		for _, it := range items {
			if key(it) == userID {
				if merged, err = toMap(it); err != nil {
					return err
				}
				break
			}
		}
		for k, v := range patch {
			if isProtected(k) {
				continue
			}
			merged[k] = v
		}
		merged["userId"] = userID

		b, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
		var profile T
		if err := json.Unmarshal(b, &profile); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
		if err := s.validate.Struct(profile); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return &ValidationError{Fields: verrs}
			}
			return fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
		if _, err := col.UpsertTx(tx, profile, key); err != nil {
			return err
		}
		out = profile
		return nil
	})
	return out, err
}

func find[T any](ctx context.Context, col records.Collection[T], pred func(T) bool) (any, bool, error) {
	it, found, err := col.Find(ctx, pred)
	if err != nil || !found {
		return nil, found, err
	}
	return it, true, nil
}

func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidationError перечисляет поля профиля, не прошедшие проверку.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field())
	}
	return fmt.Sprintf("invalid profile fields: %s", strings.Join(names, ", "))
}

// Unwrap позволяет проверять ошибку через errors.Is(err, errs.ErrValidation).
func (e *ValidationError) Unwrap() error { return errs.ErrValidation }
