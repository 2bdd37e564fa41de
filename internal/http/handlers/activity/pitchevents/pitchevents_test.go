package pitchevents

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

func (m *ServiceMock) CreatePitchEvent(ctx context.Context, event models.PitchEvent) (models.PitchEvent, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.PitchEvent), args.Error(1)
}

func (m *ServiceMock) PitchEvents(ctx context.Context) ([]models.PitchEvent, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.PitchEvent)
	return out, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestCreateHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(*ServiceMock)
		wantCode  int
	}{
		{
			name: "created",
			body: `{"title":"Demo day","description":"Seed pitches","date":"2024-09-01","maxParticipants":10,"format":"virtual"}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreatePitchEvent", mock.Anything, mock.MatchedBy(func(e models.PitchEvent) bool {
					return e.Title == "Demo day" && e.MaxParticipants == 10 && e.OrganizerID == ""
				})).Return(models.PitchEvent{ID: "p1", Title: "Demo day", Status: "upcoming"}, nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "invalid format",
			body: `{"title":"Demo day","description":"x","date":"2024-09-01","maxParticipants":10,"format":"radio"}`,
			setupMock: func(m *ServiceMock) {
				m.On("CreatePitchEvent", mock.Anything, mock.Anything).Return(models.PitchEvent{}, errs.ErrValidation).Once()
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "invalid json",
			body:     `{"title":`,
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
			NewCreate(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pitch-events", bytes.NewBufferString(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("PitchEvents", mock.Anything).Return([]models.PitchEvent{{ID: "p1"}, {ID: "p2"}}, nil).Once()

	rec := httptest.NewRecorder()
	NewList(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pitch-events", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.PitchEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
