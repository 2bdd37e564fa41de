package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/techvogue/internal/errs"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("op: %w", errs.ErrValidation), http.StatusUnprocessableEntity},
		{fmt.Errorf("op: %w", errs.ErrDuplicateEmail), http.StatusConflict},
		{fmt.Errorf("op: %w", errs.ErrInvalidCredentials), http.StatusUnauthorized},
		{fmt.Errorf("op: %w", errs.ErrNotAuthenticated), http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", errs.ErrExternalService, errs.ErrTimedOut), http.StatusGatewayTimeout},
		{fmt.Errorf("op: %w", errs.ErrExternalService), http.StatusBadGateway},
		{fmt.Errorf("op: %w", errs.ErrConfiguration), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := StatusFor(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required"`
		Pass  string `validate:"min=6"`
	}
	err := validator.New().Struct(req{Pass: "1"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	resp := ValidationError(verrs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "field Email is a required field, field Pass must be at least 6", resp.Error)
}
