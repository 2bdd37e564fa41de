package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := NewMaker("test_secret_key_1234567890", tokenTTL)

	tests := []struct {
		name   string
		userID string
		email  string
		role   string
	}{
		{name: "entrepreneur", userID: "1700000000000", email: "a@x.com", role: "entrepreneur"},
		{name: "investor", userID: "1700000000001", email: "inv@fund.in", role: "investor"},
		{name: "freelancer", userID: "1700000000002", email: "f@mail.com", role: "freelancer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.userID, claims.Subject)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, 2*time.Second)
		})
	}
}

func TestMaker_ParseToken_Invalid(t *testing.T) {
	maker := NewMaker("secret", time.Minute)
	other := NewMaker("other_secret", time.Minute)
	foreign, err := other.GenerateToken("1", "a@x.com", "investor")
	require.NoError(t, err)

	expiredMaker := NewMaker("secret", time.Minute)
	expiredMaker.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredMaker.GenerateToken("1", "a@x.com", "investor")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
		{name: "alg none", token: none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
