package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/storage/memory"
	"github.com/magabrotheeeer/techvogue/internal/storage/records"
)

type brokenProber struct{}

func (brokenProber) Exists(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHealthHandler(t *testing.T) {
	store := records.New(memory.New(), newNoopLogger())

	rec := httptest.NewRecorder()
	New(newNoopLogger(), store, records.Users).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	New(newNoopLogger(), brokenProber{}, records.Users).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
