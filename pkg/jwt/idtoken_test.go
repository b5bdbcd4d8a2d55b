package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims IdentityClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestParseIDTokenUnverified(t *testing.T) {
	raw := signed(t, IdentityClaims{
		Email: "alice@example.com",
		Name:  "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1234",
			Issuer:    "https://accounts.google.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseIDTokenUnverified(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "1234", claims.Subject)
	assert.Equal(t, "Alice", claims.DisplayName())
}

func TestDisplayNameFallbacks(t *testing.T) {
	c := &IdentityClaims{Email: "bob@example.com"}
	assert.Equal(t, "bob@example.com", c.DisplayName())
	c = &IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}
	assert.Equal(t, "42", c.DisplayName())
}

func TestParseIDTokenUnverifiedRejectsGarbage(t *testing.T) {
	_, err := ParseIDTokenUnverified("")
	assert.Error(t, err)
	_, err = ParseIDTokenUnverified("not.a.jwt")
	assert.Error(t, err)
}
