// Package userprofile - клиент удалённого профиля пользователя.
// Ответ 401 завершает локальную сессию, остальные ошибки сессию не трогают.
package userprofile

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/techvogue/internal/clients"
	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
)

// Session даёт токен текущей сессии и сбрасывает её.
type Session interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

// Client вызывает GET {base}/api/user/profile.
type Client struct {
	http    *clients.Client
	session Session
	log     *slog.Logger
}

// New создаёт клиент профиля.
func New(baseURL string, timeout time.Duration, session Session, log *slog.Logger) *Client {
	return &Client{
		http:    clients.New("userprofile", baseURL, timeout),
		session: session,
		log:     log,
	}
}

// Fetch запрашивает профиль с токеном текущей сессии.
func (c *Client) Fetch(ctx context.Context) (map[string]any, error) {
	const op = "userprofile.Fetch"
	log := c.log.With(sl.Op(op))

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.http.NewRequest(ctx, http.MethodGet, "/api/user/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("profile request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		log.Warn("remote profile rejected session token")
		if err := c.session.Invalidate(ctx); err != nil {
			log.Error("failed to invalidate session", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, errs.ErrNotAuthenticated)
	case resp.StatusCode != http.StatusOK:
		log.Warn("unexpected profile response", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w", op, clients.UnexpectedStatus(resp))
	}

	profile := map[string]any{}
	if err := clients.DecodeJSON(resp, &profile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}
