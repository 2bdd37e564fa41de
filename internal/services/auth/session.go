// Package services содержит управление сессией устройства: регистрацию, вход, выход
// и единственную точку изменения записи текущего пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/jwt"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

// MinCredentialLength - минимальная длина пароля при регистрации.
const MinCredentialLength = 6

// Hasher хэширует и проверяет пароли.
type Hasher interface {
	GetHash(password string) (string, error)
	CompareHash(hash, password string) error
}

// TokenMaker выпускает и разбирает токены сессии.
type TokenMaker interface {
	GenerateToken(userID, email, role string) (string, error)
	ParseToken(token string) (*jwt.Claims, error)
}

// Коллекции, создаваемые при первой сессии пользователя роли.
var bootstrapCollections = map[models.Role][]string{
	models.RoleEntrepreneur: {records.Milestones, records.TeamMembers, records.PeerReviews, records.EntrepreneurProfiles},
	models.RoleInvestor:     {records.Deals, records.Meetings, records.InvestorProfiles},
	models.RoleFreelancer:   {records.Portfolio, records.Applications, records.FreelancerProfiles},
}

var commonCollections = []string{records.Messages, records.Reviews}

// SessionManager владеет указателем текущего пользователя и токеном сессии.
// Создаётся на логическую сессию и передаётся зависимым сервисам.
type SessionManager struct {
	store   *records.Store
	users   records.Collection[models.User]
	current records.Value[models.User]
	token   records.Value[string]
	hasher  Hasher
	tokens  TokenMaker
	log     *slog.Logger

	now    func() time.Time
	idMu   sync.Mutex
	lastID int64
}

// Option настраивает SessionManager.
type Option func(*SessionManager)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *SessionManager) { m.now = now }
}

// NewSessionManager создаёт SessionManager поверх хранилища записей.
func NewSessionManager(store *records.Store, hasher Hasher, tokens TokenMaker, log *slog.Logger, opts ...Option) *SessionManager {
	m := &SessionManager{
		store:   store,
		users:   records.NewCollection[models.User](store, records.Users, records.WithValidator(validateStoredUser)),
		current: records.NewValue[models.User](store, records.CurrentUser),
		token:   records.NewValue[string](store, records.Token),
		hasher:  hasher,
		tokens:  tokens,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func validateStoredUser(u models.User) error {
	if u.ID == "" || u.Email == "" {
		return errors.New("user without id or email")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("user %s has unknown role %q", u.ID, u.Role)
	}
	return nil
}

// Signup регистрирует пользователя, делает его текущим и создаёт коллекции его роли.
// Почта сравнивается с учётом регистра. При ErrDuplicateEmail хранилище не изменяется.
func (m *SessionManager) Signup(ctx context.Context, name, email, credential string, role models.Role) (models.User, string, error) {
	const op = "services.Signup"
	log := m.log.With(sl.Op(op))

	switch {
	case name == "" || email == "" || credential == "":
		return models.User{}, "", fmt.Errorf("%s: name, email and password are required: %w", op, errs.ErrValidation)
	case utf8.RuneCountInString(credential) < MinCredentialLength:
		return models.User{}, "", fmt.Errorf("%s: password must be at least %d characters: %w", op, MinCredentialLength, errs.ErrValidation)
	case !role.Valid():
		return models.User{}, "", fmt.Errorf("%s: unknown role %q: %w", op, role, errs.ErrValidation)
	}

	hash, err := m.hasher.GetHash(credential)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	var (
		user  models.User
		token string
	)
	err = m.store.Update(ctx, func(tx *records.Tx) error {
		users, err := m.users.Load(tx)
		if err != nil {
			return err
		}
		var floor int64
		for _, u := range users {
			if u.Email == email {
				return errs.ErrDuplicateEmail
			}
			if n, err := strconv.ParseInt(u.ID, 10, 64); err == nil && n > floor {
				floor = n
			}
		}

		user = models.User{
			ID:             m.nextID(floor),
			Email:          email,
			CredentialHash: hash,
			Name:           name,
			Role:           role,
			CreatedAt:      m.now().UTC(),
		}
		if err := m.users.Save(tx, append(users, user)); err != nil {
			return err
		}
		token, err = m.startSession(tx, user)
		return err
	})
	if err != nil {
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user signed up", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, token, nil
}

// Login ищет пользователя по почте и проверяет пароль. При неудаче указатель
// текущего пользователя не меняется.
func (m *SessionManager) Login(ctx context.Context, email, credential string) (models.User, string, error) {
	const op = "services.Login"
	log := m.log.With(sl.Op(op))

	users, err := m.users.Get(ctx)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}
	var matched *models.User
	for i := range users {
		if users[i].Email != email {
			continue
		}
		if m.hasher.CompareHash(users[i].CredentialHash, credential) == nil {
			matched = &users[i]
			break
		}
	}
	if matched == nil {
		log.Info("login rejected")
		return models.User{}, "", fmt.Errorf("%s: %w", op, errs.ErrInvalidCredentials)
	}

	var (
		user  models.User
		token string
	)
	err = m.store.Update(ctx, func(tx *records.Tx) error {
		fresh, _, err := m.findTx(tx, matched.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return errs.ErrInvalidCredentials
		}
		user = *fresh
		token, err = m.startSession(tx, user)
		return err
	})
	if err != nil {
		return models.User{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// startSession устанавливает указатель и токен и создаёт отсутствующие коллекции роли.
func (m *SessionManager) startSession(tx *records.Tx, user models.User) (string, error) {
	token, err := m.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", err
	}
	if err := m.current.StoreTx(tx, user); err != nil {
		return "", err
	}
	if err := m.token.StoreTx(tx, token); err != nil {
		return "", err
	}
	return token, m.bootstrap(tx, user.Role)
}

func (m *SessionManager) bootstrap(tx *records.Tx, role models.Role) error {
	collections, ok := bootstrapCollections[role]
	if !ok {
		return fmt.Errorf("unknown role %q: %w", role, errs.ErrConfiguration)
	}
	for _, group := range [][]string{collections, commonCollections} {
		for _, c := range group {
			if _, err := tx.InitIfAbsent(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// nextID возвращает строго возрастающий идентификатор на основе миллисекунд,
// больший и последнего выданного, и floor.
func (m *SessionManager) nextID(floor int64) string {
	m.idMu.Lock()
	defer m.idMu.Unlock()
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	if id <= floor {
		id = floor + 1
	}
	m.lastID = id
	return strconv.FormatInt(id, 10)
}

// CurrentUser возвращает текущего пользователя. Запись берётся из коллекции users
// по идентификатору из указателя.
func (m *SessionManager) CurrentUser(ctx context.Context) (models.User, error) {
	const op = "services.CurrentUser"
	var user models.User
	err := m.store.Update(ctx, func(tx *records.Tx) error {
		u, err := m.currentTx(tx)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (m *SessionManager) currentTx(tx *records.Tx) (models.User, error) {
	ptr, found, err := m.current.LoadTx(tx)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, errs.ErrNotAuthenticated
	}
	u, _, err := m.findTx(tx, ptr.ID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		m.current.DiscardTx(tx)
		m.token.DiscardTx(tx)
		return models.User{}, errs.ErrNotAuthenticated
	}
	return *u, nil
}

// findTx возвращает пользователя по id, все записи коллекции и позицию найденного.
func (m *SessionManager) findTx(tx *records.Tx, id string) (*models.User, []models.User, error) {
	users, err := m.users.Load(tx)
	if err != nil {
		return nil, nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], users, nil
		}
	}
	return nil, users, nil
}

// UpdateCurrent атомарно изменяет запись текущего пользователя в users и её копию
// в указателе. userID должен совпадать с текущим пользователем, иначе ErrNotAuthenticated.
// Ошибка mutate отменяет изменение.
func (m *SessionManager) UpdateCurrent(ctx context.Context, userID string, mutate func(*models.User) error) (models.User, error) {
	const op = "services.UpdateCurrent"
	var updated models.User
	err := m.store.Update(ctx, func(tx *records.Tx) error {
		cur, err := m.currentTx(tx)
		if err != nil {
			return err
		}
		if cur.ID != userID {
			return errs.ErrNotAuthenticated
		}
		target, users, err := m.findTx(tx, userID)
		if err != nil {
			return err
		}
		if err := mutate(target); err != nil {
			return err
		}
		target.ID = userID
		if err := m.users.Save(tx, users); err != nil {
			return err
		}
		updated = *target
		return m.current.StoreTx(tx, updated)
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Token возвращает токен текущей сессии.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	const op = "services.Token"
	token, found, err := m.token.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found || token == "" {
		return "", fmt.Errorf("%s: %w", op, errs.ErrNotAuthenticated)
	}
	return token, nil
}

// Authenticate проверяет bearer-токен: подпись и срок, совпадение с токеном сессии
// и с текущим пользователем.
func (m *SessionManager) Authenticate(ctx context.Context, bearer string) (models.User, error) {
	const op = "services.Authenticate"
	claims, err := m.tokens.ParseToken(bearer)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w: %v", op, errs.ErrNotAuthenticated, err)
	}

	var user models.User
	err = m.store.Update(ctx, func(tx *records.Tx) error {
		stored, found, err := m.token.LoadTx(tx)
		if err != nil {
			return err
		}
		if !found || stored != bearer {
			return errs.ErrNotAuthenticated
		}
		user, err = m.currentTx(tx)
		if err != nil {
			return err
		}
		if user.ID != claims.UserID {
			return errs.ErrNotAuthenticated
		}
		return nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Logout завершает сессию.
func (m *SessionManager) Logout(ctx context.Context) error {
	const op = "services.Logout"
	if err := m.clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info("user logged out")
	return nil
}

// Invalidate сбрасывает сессию после отказа удалённой стороны в авторизации.
func (m *SessionManager) Invalidate(ctx context.Context) error {
	const op = "services.Invalidate"
	if err := m.clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Warn("session invalidated")
	return nil
}

func (m *SessionManager) clear(ctx context.Context) error {
	return m.store.Update(ctx, func(tx *records.Tx) error {
		m.current.DeleteTx(tx)
		m.token.DeleteTx(tx)
		return nil
	})
}

// ListUsers возвращает всех пользователей устройства.
func (m *SessionManager) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "services.ListUsers"
	users, err := m.users.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
