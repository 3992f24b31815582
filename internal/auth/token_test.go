package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/config"
	"github.com/spec-kit/delivery-auth/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret-for-tests",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenSecret: "refresh-secret-for-tests",
		RefreshTokenTTL:    7 * 24 * time.Hour,
	}
}

func testUser() *domain.User {
	return &domain.User{ID: "u1", Email: "vendor@example.com", Role: domain.RoleVendor}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())
	user := testUser()

	for _, flavor := range []auth.TokenFlavor{auth.FlavorAccess, auth.FlavorRefresh} {
		token, expiresAt, err := tm.Issue(user, flavor)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := tm.Verify(token, flavor)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, user.Role, claims.Role)
	}
}

func TestVerifyRejectsWrongFlavor(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())
	user := testUser()

	accessToken, _, err := tm.Issue(user, auth.FlavorAccess)
	require.NoError(t, err)
	refreshToken, _, err := tm.Issue(user, auth.FlavorRefresh)
	require.NoError(t, err)

	_, err = tm.Verify(accessToken, auth.FlavorRefresh)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = tm.Verify(refreshToken, auth.FlavorAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenTTL = -time.Minute
	cfg.RefreshTokenTTL = -time.Minute
	tm := auth.NewTokenManager(cfg)
	user := testUser()

	for _, flavor := range []auth.TokenFlavor{auth.FlavorAccess, auth.FlavorRefresh} {
		token, _, err := tm.Issue(user, flavor)
		require.NoError(t, err)

		_, err = tm.Verify(token, flavor)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())

	token, _, err := tm.Issue(testUser(), auth.FlavorAccess)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = tm.Verify(tampered, auth.FlavorAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager(testAuthConfig())

	_, err := tm.Verify("not-a-jwt", auth.FlavorAccess)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
