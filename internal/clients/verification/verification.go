// Package verification - клиент сервиса проверки компаний в государственных реестрах.
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/techvogue/internal/clients"
	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/lib/sl"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

type request struct {
	CompanyID  string `json:"companyId"`
	EntityName string `json:"entityName"`
}

// Client вызывает POST {base}/verification/{registry}.
type Client struct {
	http *clients.Client
	log  *slog.Logger
}

// New создаёт клиент верификации.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		http: clients.New("verification", baseURL, timeout),
		log:  log,
	}
}

// Verify отправляет идентификатор компании и название на проверку в реестр registry.
// Идентификатор нормализуется: пробелы по краям убираются, буквы переводятся в верхний регистр.
func (c *Client) Verify(ctx context.Context, registry, companyID, entityName string) (*models.VerificationResult, error) {
	const op = "verification.Verify"
	log := c.log.With(sl.Op(op), slog.String("registry", registry))

	companyID = strings.ToUpper(strings.TrimSpace(companyID))
	if companyID == "" || registry == "" {
		return nil, fmt.Errorf("%s: registry and company id are required: %w", op, errs.ErrValidation)
	}

	req, err := c.http.NewRequest(ctx, http.MethodPost, "/verification/"+url.PathEscape(registry), request{
		CompanyID:  companyID,
		EntityName: entityName,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("verification request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("verification rejected", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w", op, clients.UnexpectedStatus(resp))
	}

	var result models.VerificationResult
	if err := clients.DecodeJSON(resp, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if result.Status != models.VerificationVerified && result.Status != models.VerificationPending {
		return nil, fmt.Errorf("%s: unknown verification status %q: %w", op, result.Status, errs.ErrExternalService)
	}

	log.Info("company verification received", slog.String("status", result.Status))
	return &result, nil
}
