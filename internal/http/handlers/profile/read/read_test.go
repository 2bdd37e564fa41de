package read

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/http/middlewarectx"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Get(ctx context.Context, kind models.Role, userID string) (any, bool, error) {
	args := m.Called(ctx, kind, userID)
	return args.Get(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReadHandler(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		setupMock func(*ServiceMock)
		wantCode  int
	}{
		{
			name: "own profile",
			url:  "/profiles/investor",
			setupMock: func(m *ServiceMock) {
				m.On("Get", mock.Anything, models.RoleInvestor, "3").
					Return(models.InvestorProfile{UserID: "3", Name: "Ravi"}, true, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name: "other user profile",
			url:  "/profiles/entrepreneur?userId=9",
			setupMock: func(m *ServiceMock) {
				m.On("Get", mock.Anything, models.RoleEntrepreneur, "9").
					Return(models.EntrepreneurProfile{UserID: "9"}, true, nil).Once()
			},
			wantCode: http.StatusOK,
		},
		{
			name: "not found",
			url:  "/profiles/freelancer",
			setupMock: func(m *ServiceMock) {
				m.On("Get", mock.Anything, models.RoleFreelancer, "3").Return(nil, false, nil).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown kind",
			url:      "/profiles/pirate",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			router := chi.NewRouter()
			router.Get("/profiles/{kind}", New(newNoopLogger(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, models.User{ID: "3"}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			svc.AssertExpectations(t)
		})
	}
}
