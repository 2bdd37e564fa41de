package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) AddReview(ctx context.Context, peer bool, review models.Review) (models.Review, error) {
	args := m.Called(ctx, peer, review)
	return args.Get(0).(models.Review), args.Error(1)
}

func (m *ServiceMock) Reviews(ctx context.Context, peer bool, toUserID string) ([]models.Review, float64, error) {
	args := m.Called(ctx, peer, toUserID)
	items, _ := args.Get(0).([]models.Review)
	return items, args.Get(1).(float64), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		body      string
		setupMock func(*ServiceMock)
		wantCode  int
	}{
		{
			name: "created",
			url:  "/reviews",
			body: `{"toUserId":"5","rating":4,"comment":"solid"}`,
			setupMock: func(m *ServiceMock) {
				m.On("AddReview", mock.Anything, false, models.Review{ToUserID: "5", Rating: 4, Comment: "solid"}).
					Return(models.Review{ID: "r1", ToUserID: "5", Rating: 4}, nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "peer review rejected for investor",
			url:  "/reviews?peer=true",
			body: `{"toUserId":"5","rating":4}`,
			setupMock: func(m *ServiceMock) {
				m.On("AddReview", mock.Anything, true, mock.Anything).Return(models.Review{}, errs.ErrValidation).Once()
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "invalid json",
			url:      "/reviews",
			body:     `rating=5`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			rec := httptest.NewRecorder()
			NewCreate(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.url, bytes.NewBufferString(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Reviews", mock.Anything, false, "5").
		Return([]models.Review{{ID: "a", Rating: 4}, {ID: "b", Rating: 5}}, 4.5, nil).Once()

	rec := httptest.NewRecorder()
	NewList(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews?userId=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data List `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Reviews, 2)
	assert.InDelta(t, 4.5, resp.Data.Average, 1e-9)
	svc.AssertExpectations(t)
}
