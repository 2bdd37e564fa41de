package services

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/errs"
	"github.com/magabrotheeeer/techvogue/internal/models"
	"github.com/magabrotheeeer/techvogue/internal/storage/memory"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

var testNow = time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)

type MockSession struct {
	mock.Mock
}

func (m *MockSession) CurrentUser(ctx context.Context) (models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(t *testing.T, user models.User) (*ActivityService, *memory.Store) {
	t.Helper()
	kv := memory.New()
	session := new(MockSession)
	if user.ID == "" {
		session.On("CurrentUser", mock.Anything).Return(models.User{}, errs.ErrNotAuthenticated)
	} else {
		session.On("CurrentUser", mock.Anything).Return(user, nil)
	}
	svc := NewActivityService(records.New(kv, newNoopLogger()), session, newNoopLogger())
	svc.now = func() time.Time { return testNow }
	var n int
	svc.newID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return svc, kv
}

var founder = models.User{ID: "u1", Name: "Asha", Role: models.RoleEntrepreneur}

func TestAddReview(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, founder)

	r, err := svc.AddReview(ctx, false, models.Review{Rating: 4, Comment: "good"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", r.ID)
	assert.Equal(t, "u1", r.ToUserID)
	assert.Equal(t, models.RoleEntrepreneur, r.Role)
	assert.Equal(t, testNow, r.CreatedAt)

	_, err = svc.AddReview(ctx, false, models.Review{Rating: 2, ToUserID: "u1"})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, false, models.Review{Rating: 5, ToUserID: "u2"})
	require.NoError(t, err)

	list, avg, err := svc.Reviews(ctx, false, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.InDelta(t, 3.0, avg, 0.001)

	all, _, err := svc.Reviews(ctx, false, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	peer, avg, err := svc.Reviews(ctx, true, "")
	require.NoError(t, err)
	assert.Empty(t, peer)
	assert.Zero(t, avg)
}

func TestAddReview_Errors(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		peer    bool
		review  models.Review
		wantErr error
	}{
		{name: "rating too low", user: founder, review: models.Review{Rating: 0}, wantErr: errs.ErrValidation},
		{name: "rating too high", user: founder, review: models.Review{Rating: 6}, wantErr: errs.ErrValidation},
		{name: "peer review by investor", user: models.User{ID: "u2", Role: models.RoleInvestor}, peer: true, review: models.Review{Rating: 3}, wantErr: errs.ErrValidation},
		{name: "no session", review: models.Review{Rating: 3}, wantErr: errs.ErrNotAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, kv := newService(t, tt.user)
			_, err := svc.AddReview(context.Background(), tt.peer, tt.review)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, kv.Raw(records.Reviews))
			assert.Empty(t, kv.Raw(records.PeerReviews))
		})
	}
}

func TestAddPeerReview(t *testing.T) {
	svc, kv := newService(t, founder)
	_, err := svc.AddReview(context.Background(), true, models.Review{Rating: 5, ToUserID: "u7"})
	require.NoError(t, err)
	assert.Contains(t, kv.Raw(records.PeerReviews), `"toUserId":"u7"`)
	assert.Empty(t, kv.Raw(records.Reviews))
}

func TestCreatePitchEvent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, founder)

	e, err := svc.CreatePitchEvent(ctx, models.PitchEvent{
		Title:           "Demo day",
		Description:     "Seed pitches",
		Date:            "2025-06-01",
		MaxParticipants: 20,
		Format:          "virtual",
		Status:          "finished",
		Participants:    []string{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, PitchStatusUpcoming, e.Status)
	assert.Empty(t, e.Participants)
	assert.Equal(t, "u1", e.OrganizerID)
	assert.Equal(t, "Asha", e.OrganizerName)

	events, err := svc.PitchEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, e, events[0])

	_, err = svc.CreatePitchEvent(ctx, models.PitchEvent{Title: "x", Description: "y", Date: "d", MaxParticipants: 1, Format: "radio"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestPutRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, founder)

	rec, inserted, err := svc.PutRecord(ctx, records.Milestones, models.Record{"title": "MVP"})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "id-1", rec.ID())
	assert.Equal(t, "u1", rec["ownerId"])

	_, inserted, err = svc.PutRecord(ctx, records.Milestones, models.Record{"id": "id-1", "title": "MVP shipped"})
	require.NoError(t, err)
	assert.False(t, inserted)

	_, _, err = svc.PutRecord(ctx, records.Messages, models.Record{"text": "hi"})
	require.NoError(t, err)

	list, err := svc.Records(ctx, records.Milestones)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MVP shipped", list[0]["title"])

	_, _, err = svc.PutRecord(ctx, records.Deals, models.Record{"name": "x"})
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.Records(ctx, records.Users)
	assert.ErrorIs(t, err, errs.ErrValidation)
}
