package subscribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Subscribe(ctx context.Context, userID string, plan models.Plan, period models.BillingPeriod) (models.Subscription, error) {
	args := m.Called(ctx, userID, plan, period)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSubscribeHandler_ServeHTTP(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := models.Subscription{
		Plan:          models.PlanPro,
		Type:          models.RoleInvestor,
		BillingPeriod: models.BillingMonthly,
		StartDate:     start,
		EndDate:       start.Add(models.BillingMonthly.Duration()),
	}

	tests := []struct {
		name           string
		withUser       bool
		body           string
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:     "subscribed",
			withUser: true,
			body:     `{"plan":"pro","billingPeriod":"monthly"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Subscribe", mock.Anything, "7", models.PlanPro, models.BillingMonthly).Return(sub, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no user in context",
			body:           `{"plan":"pro","billingPeriod":"monthly"}`,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "invalid json",
			withUser:       true,
			body:           `{`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "unknown plan",
			withUser:       true,
			body:           `{"plan":"gold","billingPeriod":"monthly"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Plan must be one of: free pro premium",
		},
		{
			name:     "session mismatch",
			withUser: true,
			body:     `{"plan":"premium","billingPeriod":"yearly"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Subscribe", mock.Anything, "7", models.PlanPremium, models.BillingYearly).
					Return(models.Subscription{}, errs.ErrNotAuthenticated).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "not authenticated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewBufferString(tt.body))
			if tt.withUser {
				ctx := context.WithValue(req.Context(), middlewarectx.User, models.User{ID: "7", Role: models.RoleInvestor})
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			} else {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "pro", data["plan"])
				assert.Equal(t, "2024-01-31T00:00:00Z", data["endDate"])
			}
			svc.AssertExpectations(t)
		})
	}
}
