package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rently/rently-auth/internal/config"
)

func TestNewSettings(t *testing.T) {
	t.Run("empty secret is a configuration error", func(t *testing.T) {
		_, err := NewSettings(config.AuthConfig{TokenTTL: time.Hour})
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("non-positive ttl is rejected", func(t *testing.T) {
		_, err := NewSettings(config.AuthConfig{JWTSecret: "k", TokenTTL: 0})
		assert.Error(t, err)
	})

	t.Run("header name defaults", func(t *testing.T) {
		settings, err := NewSettings(config.AuthConfig{JWTSecret: "k", TokenTTL: time.Minute, TokenPrefix: "Bearer "})
		require.NoError(t, err)
		assert.Equal(t, DefaultHeaderName, settings.HeaderName)
		assert.Equal(t, DefaultPrefix, settings.Prefix)
	})

	t.Run("zero value settings cannot build the core", func(t *testing.T) {
		_, err := NewTokenIssuer(Settings{})
		assert.ErrorIs(t, err, ErrMissingSecret)
		_, err = NewRequestAuthenticator(Settings{})
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
}

func TestSettings_WithClockDoesNotMutateOriginal(t *testing.T) {
	base := testSettings(t, "k")
	fixed := base.WithClock(func() time.Time { return testEpoch })

	assert.Equal(t, testEpoch, fixed.clock()())
	assert.NotEqual(t, testEpoch, base.clock()())
}
