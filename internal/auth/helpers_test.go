package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rently/rently-auth/internal/config"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const scenarioUserClaim = `{"id":42,"email":"a@b.com","roles":["OWNER"]}`

func testSettings(t *testing.T, secret string) Settings {
	t.Helper()
	settings, err := NewSettings(config.AuthConfig{
		JWTSecret:   secret,
		HeaderName:  "Authorization",
		TokenPrefix: "Bearer ",
		TokenTTL:    time.Hour,
	})
	require.NoError(t, err)
	return settings
}

// clockAt returns a clock reading *now, so tests can move time forward.
func clockAt(now *time.Time) func() time.Time {
	return func() time.Time { return *now }
}

func mustIssuer(t *testing.T, settings Settings) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(settings)
	require.NoError(t, err)
	return issuer
}

func mustVerifier(t *testing.T, settings Settings) *TokenVerifier {
	t.Helper()
	verifier, err := NewTokenVerifier(settings)
	require.NoError(t, err)
	return verifier
}

func mustAuthenticator(t *testing.T, settings Settings) *RequestAuthenticator {
	t.Helper()
	authenticator, err := NewRequestAuthenticator(settings)
	require.NoError(t, err)
	return authenticator
}

// replaceAt swaps the character at i for a different base64url character.
func replaceAt(s string, i int) string {
	repl := byte('A')
	if s[i] == 'A' {
		repl = 'B'
	}
	return s[:i] + string(repl) + s[i+1:]
}
