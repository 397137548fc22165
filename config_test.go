package session_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	t.Run("defaults are applied", func(t *testing.T) {
		s := session.NewSettings(testSigningKey)
		require.NoError(t, s.Validate())

		assert.Equal(t, session.DefaultIssuer, s.GetIssuer())
		assert.Equal(t, session.DefaultContextKey, s.GetContextKey())
		assert.Equal(t, session.DefaultTokenLookup, s.GetTokenLookup())
		assert.Equal(t, session.DefaultAuthScheme, s.GetAuthScheme())
		assert.Equal(t, session.DefaultAccessTTL, s.GetAccessTokenTTL())
		assert.Equal(t, session.DefaultRefreshTTL, s.GetRefreshTokenTTL())
		assert.Equal(t, "Lax", s.GetCookieSameSite())
		assert.Contains(t, s.GetPublicPaths(), "/auth/sign-in")
		assert.Contains(t, s.GetPublicPaths(), "/auth/refresh")
	})

	t.Run("missing signing key fails", func(t *testing.T) {
		s := session.NewSettings("")
		require.Error(t, s.Validate())
	})

	t.Run("short signing key fails", func(t *testing.T) {
		s := session.NewSettings("abc123")
		err := s.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrSigningKeyTooShort)
	})

	t.Run("signing key at the minimum length passes", func(t *testing.T) {
		s := session.NewSettings(testSigningKey)
		require.Len(t, testSigningKey, session.MinSigningKeyBytes)
		require.NoError(t, s.Validate())
	})

	t.Run("refresh TTL must exceed access TTL", func(t *testing.T) {
		s := session.NewSettings(testSigningKey)
		s.AccessTTL = time.Hour
		s.RefreshTTL = time.Hour
		require.Error(t, s.Validate())

		s.RefreshTTL = 30 * time.Minute
		require.Error(t, s.Validate())

		s.RefreshTTL = 2 * time.Hour
		require.NoError(t, s.Validate())
	})

	t.Run("negative access TTL fails", func(t *testing.T) {
		s := session.NewSettings(testSigningKey)
		s.AccessTTL = -time.Minute
		require.Error(t, s.Validate())
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("reads values from the environment", func(t *testing.T) {
		t.Setenv("SESSION_SIGNING_KEY", testSigningKey)
		t.Setenv("SESSION_ISSUER", "test-suite")
		t.Setenv("SESSION_ACCESS_TTL", "15m")
		t.Setenv("SESSION_REFRESH_TTL", "720h")
		t.Setenv("SESSION_PUBLIC_PATHS", "/ping, /metrics")

		s, err := session.LoadSettings()
		require.NoError(t, err)

		assert.Equal(t, "test-suite", s.GetIssuer())
		assert.Equal(t, 15*time.Minute, s.GetAccessTokenTTL())
		assert.Equal(t, 720*time.Hour, s.GetRefreshTokenTTL())
		assert.Equal(t, []string{"/ping", "/metrics"}, s.GetPublicPaths())
	})

	t.Run("fails without a signing key", func(t *testing.T) {
		t.Setenv("SESSION_SIGNING_KEY", "")

		_, err := session.LoadSettings()
		require.Error(t, err)
	})
}
