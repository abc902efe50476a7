package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, password string) *Service {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(string(hash))
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t, "correct horse")

	token, err := svc.Login(context.Background(), "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, svc.Validate(token))
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t, "secret")

	token, err := svc.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestLoginRateLimited(t *testing.T) {
	svc := newTestService(t, "secret")

	for i := 0; i < 5; i++ {
		_, err := svc.Login(context.Background(), "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Sixth attempt is refused before the password is even checked.
	_, err := svc.Login(context.Background(), "secret")
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
}

func TestLoginResetsAttempts(t *testing.T) {
	svc := newTestService(t, "secret")

	for i := 0; i < 4; i++ {
		svc.Login(context.Background(), "wrong")
	}
	_, err := svc.Login(context.Background(), "secret")
	require.NoError(t, err)

	// Counter is back at zero, failures can accumulate again.
	_, err = svc.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateUnknownToken(t *testing.T) {
	svc := newTestService(t, "secret")
	assert.False(t, svc.Validate("never-issued"))
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(t, "secret")
	svc.sessionTTL = -time.Minute

	token, err := svc.Login(context.Background(), "secret")
	require.NoError(t, err)

	assert.False(t, svc.Validate(token))
	// The expired session is pruned, not just rejected.
	svc.mu.RLock()
	_, still := svc.sessions[token]
	svc.mu.RUnlock()
	assert.False(t, still)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t, "secret")

	token, err := svc.Login(context.Background(), "secret")
	require.NoError(t, err)

	svc.Logout(token)
	assert.False(t, svc.Validate(token))
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("operator")
	require.NoError(t, err)

	svc := NewService(hash)
	_, err = svc.Login(context.Background(), "operator")
	assert.NoError(t, err)
}
