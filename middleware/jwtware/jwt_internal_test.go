package jwtware

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct{}

func (stubTokens) ExtractUsername(string) (string, error) { return "", nil }

func (stubTokens) IsTokenValid(string, string) bool { return false }

func (stubTokens) ExtractClaim(string, func(claims jwt.MapClaims) any) (any, error) {
	return nil, nil
}

func TestKeyfuncOptionsRefreshErrorHandlerIsSafe(t *testing.T) {
	opts := keyfuncOptions(nil)
	require.NotNil(t, opts.RefreshErrorHandler)
	require.NotPanics(t, func() {
		opts.RefreshErrorHandler(errors.New("refresh failed"))
	})

	require.Equal(t, time.Hour, opts.RefreshInterval)
	require.Equal(t, 5*time.Minute, opts.RefreshRateLimit)
	require.Equal(t, 10*time.Second, opts.RefreshTimeout)
	require.True(t, opts.RefreshUnknownKID)
}

func TestToRoles(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, toRoles([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, toRoles([]any{"a", "b"}))
	assert.Equal(t, []string{"a"}, toRoles([]any{"a", 42}))
	assert.Equal(t, []string{"a"}, toRoles("a"))
	assert.Nil(t, toRoles(""))
	assert.Nil(t, toRoles(nil))
	assert.Nil(t, toRoles(42))
}

func TestContains(t *testing.T) {
	assert.True(t, contains([]string{"a", "b"}, "b"))
	assert.False(t, contains([]string{"a", "b"}, "c"))
	assert.False(t, contains(nil, "a"))
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("panics when no validation source is configured", func(t *testing.T) {
		require.Panics(t, func() {
			GetDefaultConfig(Config{})
		})
	})

	t.Run("applies defaults", func(t *testing.T) {
		cfg := GetDefaultConfig(Config{
			TokenService: stubTokens{},
		})

		assert.Equal(t, "user", cfg.ContextKey)
		assert.Equal(t, "roles", cfg.RolesKey)
		assert.Equal(t, "Bearer", cfg.AuthScheme)
		assert.Equal(t, defaultTokenLookup, cfg.TokenLookup)
		assert.NotNil(t, cfg.SuccessHandler)
		assert.NotNil(t, cfg.ErrorHandler)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := GetDefaultConfig(Config{
			TokenService: stubTokens{},
			ContextKey:   "usuario",
			TokenLookup:  "cookie:jwt",
			AuthScheme:   "Token",
		})

		assert.Equal(t, "usuario", cfg.ContextKey)
		assert.Equal(t, "cookie:jwt", cfg.TokenLookup)
		assert.Equal(t, "Token", cfg.AuthScheme)
	})
}

func TestGetExtractorsParsesLookupExpressions(t *testing.T) {
	assert.Len(t, GetExtractors("header:Authorization"), 1)
	assert.Len(t, GetExtractors("header:Authorization,cookie:jwt"), 2)
	assert.Len(t, GetExtractors("header:Authorization, query:auth_token, param:token"), 3)
	assert.Empty(t, GetExtractors("desconocido:valor"))
}
