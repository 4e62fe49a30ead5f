package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avocadoapp/identity/auth"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func TestTokenService_IssueVerify(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewTokenService(testSigningKey)
	require.NoError(t, err)

	token, err := svc.Issue("ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
}

func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-auth.SessionTokenTTL - time.Minute)
	svc, err := auth.NewTokenService(testSigningKey,
		auth.WithTokenClock(func() time.Time { return issuedAt }),
	)
	require.NoError(t, err)

	token, err := svc.Issue("ada@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenService_Tampered(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewTokenService(testSigningKey)
	require.NoError(t, err)

	token, err := svc.Issue("ada@example.com")
	require.NoError(t, err)

	t.Run("modified payload", func(t *testing.T) {
		t.Parallel()

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + ".eyJlbWFpbCI6ImV2ZUBleGFtcGxlLmNvbSJ9." + parts[2]

		_, err := svc.Verify(tampered)
		require.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("different key", func(t *testing.T) {
		t.Parallel()

		other, err := auth.NewTokenService("ffffffffffffffffffffffffffffffff")
		require.NoError(t, err)

		_, err = other.Verify(token)
		require.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Verify("not-a-token")
		require.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}

func TestTokenService_OldTokenVerifiesAfterRotation(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewTokenService(testSigningKey)
	require.NoError(t, err)

	first, err := svc.Issue("ada@example.com")
	require.NoError(t, err)

	// Rotation supersedes the active session but does not revoke the
	// previous token; it stays verifiable until its own expiry.
	second, err := svc.Issue("ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, second)

	email, err := svc.Verify(first)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
}

func TestNewTokenService_KeyTooShort(t *testing.T) {
	t.Parallel()

	_, err := auth.NewTokenService("short")
	require.Error(t, err)
}
