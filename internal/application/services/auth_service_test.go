package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/boards/internal/infrastructure/config"
	"github.com/taskmaster/boards/internal/infrastructure/logger"
)

func newAuth() *AuthService {
	return NewAuthService(config.JWTConfig{
		Secret:    "unit-test-secret",
		ExpiresIn: time.Hour,
		Issuer:    "taskmaster-boards",
	}, logger.NewNop())
}

func TestAuthServiceRoundTrip(t *testing.T) {
	auth := newAuth()
	userID := uuid.New()

	token, err := auth.IssueToken(userID)
	require.NoError(t, err)

	actor, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, actor.ID)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	auth := newAuth()
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := auth.IssueToken(uuid.New())
	require.NoError(t, err)

	auth.now = time.Now
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRejectsForeignSecret(t *testing.T) {
	other := NewAuthService(config.JWTConfig{Secret: "someone-else", ExpiresIn: time.Hour, Issuer: "taskmaster-boards"}, logger.NewNop())
	token, err := other.IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = newAuth().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRejectsNonUserSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "service-account",
		Issuer:    "taskmaster-boards",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = newAuth().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
