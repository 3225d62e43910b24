package jwtauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// issue signs a token for accountID that expires after ttl.
func issue(t *testing.T, secret, accountID string, now time.Time, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("s3cret")
	token := issue(t, "s3cret", "u1", time.Now(), time.Hour)

	id, ok, err := v.FromHeader("Bearer " + token)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}

func TestVerifier_Anonymous(t *testing.T) {
	_, ok, err := NewVerifier("s3cret").FromHeader("  ")

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("s3cret")
	expired := issue(t, "s3cret", "u1", time.Now().Add(-2*time.Hour), time.Hour)
	foreign := issue(t, "other", "u1", time.Now(), time.Hour)
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, header := range map[string]string{
		"expired":      "Bearer " + expired,
		"other secret": "Bearer " + foreign,
		"no user id":   "Bearer " + noUser,
		"wrong alg":    "Bearer " + wrongAlg,
		"no scheme":    expired,
		"basic auth":   "Basic dXNlcjpwYXNz",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok, err := v.FromHeader(header)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.False(t, ok)
		})
	}
}
