package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensing/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func TestNewHS256RejectsWeakSecret(t *testing.T) {
	_, err := jwtx.NewHS256([]byte("short"), "licensing")
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256RoundTrip(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "licensing")
	require.NoError(t, err)

	claims := jwtx.NewClaims("operator", "licensing", []string{"licenses:read"}, time.Minute, time.Now())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "operator", got.Subject)
	require.True(t, got.HasScope("licenses:read"))
	require.False(t, got.HasScope("licenses:write"))
}

func TestHS256Rejects(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "licensing")
	require.NoError(t, err)

	other, err := jwtx.NewHS256([]byte(strings.Repeat("x", jwtx.MinSecretLength)), "licensing")
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := other.Sign(jwtx.NewClaims("operator", "licensing", nil, time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewClaims("operator", "someone-else", nil, time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewClaims("operator", "licensing", nil, time.Minute, time.Now().Add(-time.Hour)))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("alg none", func(t *testing.T) {
		c := jwtx.NewClaims("operator", "licensing", nil, time.Minute, time.Now())
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.Error(t, err)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	fresh := jwtx.NewClaims("s", "i", nil, time.Minute, now)
	require.NoError(t, fresh.ValidateExpiry())

	future := jwtx.NewClaims("s", "i", nil, time.Minute, now.Add(time.Hour))
	require.ErrorIs(t, future.ValidateExpiry(), jwtx.ErrNotYetValid)
	require.NoError(t, future.ValidateExpiryWithLeeway(2*time.Hour))
}
