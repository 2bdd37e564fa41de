package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/entitlement"
	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

type failingChecker struct{}

func (failingChecker) CheckFeature(models.User, string) (bool, error) {
	return false, fmt.Errorf("entitlement.Evaluate: %w", errs.ErrConfiguration)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func serve(t *testing.T, checker Checker, user *models.User, feature string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := chi.NewRouter()
	router.Get("/entitlements/{feature}", New(newNoopLogger(), checker).ServeHTTP)

	req := httptest.NewRequest(http.MethodGet, "/entitlements/"+feature, nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, *user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestCheckHandler(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	engine := entitlement.New(entitlement.WithClock(func() time.Time { return now }))

	pro := &models.Subscription{
		Plan:          models.PlanPro,
		Type:          models.RoleInvestor,
		BillingPeriod: models.BillingMonthly,
		StartDate:     now.Add(-24 * time.Hour),
		EndDate:       now.Add(29 * 24 * time.Hour),
	}

	tests := []struct {
		name        string
		user        *models.User
		feature     string
		wantCode    int
		wantAllowed any
		wantError   string
	}{
		{
			name:        "pro investor sees financial data",
			user:        &models.User{ID: "1", Role: models.RoleInvestor, Subscription: pro},
			feature:     "VIEW_FINANCIAL_DATA",
			wantCode:    http.StatusOK,
			wantAllowed: true,
		},
		{
			name:        "pro investor lacks due diligence",
			user:        &models.User{ID: "1", Role: models.RoleInvestor, Subscription: pro},
			feature:     "ACCESS_DUE_DILIGENCE",
			wantCode:    http.StatusOK,
			wantAllowed: false,
		},
		{
			name:        "no subscription",
			user:        &models.User{ID: "2", Role: models.RoleFreelancer},
			feature:     "APPLY_UNLIMITED_PROJECTS",
			wantCode:    http.StatusOK,
			wantAllowed: false,
		},
		{
			name:      "unknown feature",
			user:      &models.User{ID: "1"},
			feature:   "TELEPORT",
			wantCode:  http.StatusNotFound,
			wantError: "unknown feature",
		},
		{
			name:      "no user",
			feature:   "VIEW_FINANCIAL_DATA",
			wantCode:  http.StatusUnauthorized,
			wantError: "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := serve(t, engine, tt.user, tt.feature)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
				return
			}
			data := resp["data"].(map[string]any)
			assert.Equal(t, tt.wantAllowed, data["allowed"])
			assert.Equal(t, tt.feature, data["feature"])
		})
	}
}

func TestCheckHandler_ConfigurationError(t *testing.T) {
	rec, resp := serve(t, failingChecker{}, &models.User{ID: "1"}, "VIEW_FINANCIAL_DATA")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", resp["error"])
}
