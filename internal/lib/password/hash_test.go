package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_Cost(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost)
}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "unicode", password: "пароль123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, h.CompareHash(hash, tt.password))
		})
	}
}

func TestHasher_CompareHash_Mismatch(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.GetHash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
	}{
		{name: "wrong password", hash: hash, password: "wrong_password"},
		{name: "empty password", hash: hash, password: ""},
		{name: "not a hash", hash: "correct_password", password: "correct_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, h.CompareHash(tt.hash, tt.password))
		})
	}
}

func TestHasher_Salted(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	h1, err := h.GetHash("same")
	require.NoError(t, err)
	h2, err := h.GetHash("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
