package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/rently/rently-auth/internal/config"
)

// Settings is the immutable authentication configuration shared by the issuer and the
// request authenticator. Build it once at startup with NewSettings.
type Settings struct {
	secret       []byte
	HeaderName   string
	Prefix       string
	TTL          time.Duration
	RequireToken bool
	now          func() time.Time
}

// NewSettings validates cfg and returns the settings value used to construct the auth core.
func NewSettings(cfg config.AuthConfig) (Settings, error) {
	if cfg.JWTSecret == "" {
		return Settings{}, ErrMissingSecret
	}
	if cfg.TokenTTL <= 0 {
		return Settings{}, fmt.Errorf("%w: token lifetime must be positive", errInvalidSettings)
	}

	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultHeaderName
	}

	return Settings{
		secret:       []byte(cfg.JWTSecret),
		HeaderName:   headerName,
		Prefix:       cfg.TokenPrefix,
		TTL:          cfg.TokenTTL,
		RequireToken: cfg.RequireToken,
		now:          time.Now,
	}, nil
}

// WithClock returns a copy of s that reads time from now. Issuer and verifier built from the
// same settings share the clock.
func (s Settings) WithClock(now func() time.Time) Settings {
	s.now = now
	return s
}

// WithSecret returns a copy of s signing with secret.
func (s Settings) WithSecret(secret string) Settings {
	s.secret = []byte(secret)
	return s
}

func (s Settings) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}

func (s Settings) key() ([]byte, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	key := make([]byte, len(s.secret))
	copy(key, s.secret)
	return key, nil
}

var errInvalidSettings = errors.New("invalid auth settings")
