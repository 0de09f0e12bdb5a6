package service

import (
	"testing"

	"skillkart_backend/internal/progression"
	"skillkart_backend/internal/testutil"
	"skillkart_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(t.Context(), RegisterInput{
		Email:    "  Yan@Example.com ",
		Password: "correct-horse",
		FullName: "Yan Li",
	})
	require.NoError(t, err)
	assert.Equal(t, "yan@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)

	_, err = env.auth.Register(t.Context(), RegisterInput{Email: "yan@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
	assert.ErrorIs(t, err, progression.ErrConflict)

	token, logged, err := env.auth.Login(t.Context(), "YAN@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := util.ParseJWT(token, testutil.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = env.auth.Login(t.Context(), "yan@example.com", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = env.auth.Login(t.Context(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(t.Context(), RegisterInput{Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, progression.ErrValidation)

	_, err = env.auth.Register(t.Context(), RegisterInput{Email: "zed@example.com", Password: "short"})
	assert.ErrorIs(t, err, progression.ErrValidation)
}
