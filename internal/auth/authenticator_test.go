package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_Scenario(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	authenticator := mustAuthenticator(t, settings)

	token, err := mustIssuer(t, settings).CreateToken("42", map[string]any{UserClaimKey: scenarioUserClaim})
	require.NoError(t, err)

	result := authenticator.Authenticate("Bearer "+token, RequestMeta{RequestID: "req-1", RemoteIP: "10.0.0.1"})
	require.True(t, result.Authenticated())
	assert.NoError(t, result.Err)
	assert.Equal(t, int64(42), result.Context.Identity.ID)
	assert.Equal(t, "a@b.com", result.Context.Identity.Email)
	assert.Equal(t, []string{"OWNER"}, result.Context.Identity.Roles)
	assert.Equal(t, "42", result.Context.Subject)
	assert.Equal(t, "req-1", result.Context.RequestID)
	assert.Equal(t, "10.0.0.1", result.Context.RemoteIP)

	truncated := authenticator.Authenticate("Bearer "+token[:len(token)-1], RequestMeta{})
	assert.Equal(t, OutcomeInvalidToken, truncated.Outcome)
	assert.Nil(t, truncated.Context)
	assert.ErrorIs(t, truncated.Err, ErrInvalidToken)
}

func TestAuthenticate_PrefixIsOptional(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	authenticator := mustAuthenticator(t, settings)
	token, err := mustIssuer(t, settings).CreateToken("42", map[string]any{UserClaimKey: scenarioUserClaim})
	require.NoError(t, err)

	withPrefix := authenticator.Authenticate("Bearer "+token, RequestMeta{})
	bare := authenticator.Authenticate(token, RequestMeta{})

	require.True(t, bare.Authenticated())
	assert.Equal(t, withPrefix.Context, bare.Context)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	authenticator := mustAuthenticator(t, testSettings(t, "secret"))

	for _, header := range []string{"", "   ", "Bearer ", "Bearer"} {
		result := authenticator.Authenticate(header, RequestMeta{})
		assert.Equal(t, OutcomeMissingToken, result.Outcome, "header %q", header)
		assert.ErrorIs(t, result.Err, ErrMissingToken)
		assert.Nil(t, result.Context)
	}
}

func TestAuthenticate_WrongSchemeIsTreatedAsRawToken(t *testing.T) {
	authenticator := mustAuthenticator(t, testSettings(t, "secret"))

	result := authenticator.Authenticate("Basic dXNlcjpwYXNz", RequestMeta{})
	assert.Equal(t, OutcomeInvalidToken, result.Outcome)
}

func TestAuthenticate_CustomPrefix(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	settings.Prefix = "Token "
	authenticator := mustAuthenticator(t, settings)
	token, err := mustIssuer(t, settings).CreateToken("42", map[string]any{UserClaimKey: scenarioUserClaim})
	require.NoError(t, err)

	assert.True(t, authenticator.Authenticate("Token "+token, RequestMeta{}).Authenticated())
	assert.Equal(t, OutcomeInvalidToken, authenticator.Authenticate("Bearer "+token, RequestMeta{}).Outcome)
}

func TestAuthenticate_MalformedClaim(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	authenticator := mustAuthenticator(t, settings)
	issuer := mustIssuer(t, settings)

	cases := map[string]map[string]any{
		"not json":       {UserClaimKey: "not json"},
		"type mismatch":  {UserClaimKey: `{"id":"forty-two"}`},
		"claim missing":  {"other": "x"},
		"claim not text": {UserClaimKey: map[string]any{"id": 42}},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := issuer.CreateToken("42", claims)
			require.NoError(t, err)

			result := authenticator.Authenticate("Bearer "+token, RequestMeta{})
			assert.Equal(t, OutcomeMalformedClaim, result.Outcome)
			assert.ErrorIs(t, result.Err, ErrMalformedClaim)
			assert.Nil(t, result.Context)
		})
	}
}

func TestAuthenticate_ExtraFieldTolerated(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	token, err := mustIssuer(t, settings).CreateToken("1", map[string]any{
		UserClaimKey: `{"id":1,"email":"x@y.z","roles":["RENTER"],"extra":"z"}`,
	})
	require.NoError(t, err)

	result := mustAuthenticator(t, settings).Authenticate(token, RequestMeta{})
	require.True(t, result.Authenticated())
	assert.Equal(t, []string{"RENTER"}, result.Context.Identity.Roles)
}

func TestAuthenticate_ExpiredAndRotatedSecret(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	token, err := mustIssuer(t, settings).CreateToken("42", map[string]any{UserClaimKey: scenarioUserClaim})
	require.NoError(t, err)

	rotated := mustAuthenticator(t, settings.WithSecret("rotated"))
	assert.Equal(t, OutcomeInvalidToken, rotated.Authenticate(token, RequestMeta{}).Outcome)

	now = testEpoch.Add(time.Hour)
	assert.Equal(t, OutcomeInvalidToken, mustAuthenticator(t, settings).Authenticate(token, RequestMeta{}).Outcome)
}

func TestAuthenticate_Idempotent(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	authenticator := mustAuthenticator(t, settings)
	token, err := mustIssuer(t, settings).CreateToken("42", map[string]any{UserClaimKey: scenarioUserClaim})
	require.NoError(t, err)

	first := authenticator.Authenticate(token, RequestMeta{RequestID: "r"})
	second := authenticator.Authenticate(token, RequestMeta{RequestID: "r"})
	assert.Equal(t, first, second)
}

func TestAuthenticate_Concurrent(t *testing.T) {
	settings := testSettings(t, "secret").WithClock(func() time.Time { return testEpoch })
	authenticator := mustAuthenticator(t, settings)
	issuer := mustIssuer(t, settings)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity := IdentityClaim{ID: int64(i), Email: "u@example.com", Roles: []string{"OWNER"}}
			raw, err := EncodeIdentity(identity)
			if err != nil {
				errs <- err.Error()
				return
			}
			token, err := issuer.CreateToken("s", map[string]any{UserClaimKey: raw})
			if err != nil {
				errs <- err.Error()
				return
			}
			result := authenticator.Authenticate("Bearer "+token, RequestMeta{})
			if !result.Authenticated() || result.Context.Identity.ID != int64(i) {
				errs <- "identity mismatch"
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestRoundTrip_ArbitraryClaims(t *testing.T) {
	now := testEpoch
	settings := testSettings(t, "secret").WithClock(clockAt(&now))
	issuer := mustIssuer(t, settings)
	authenticator := mustAuthenticator(t, settings)

	identities := []IdentityClaim{
		{ID: 0, Roles: []string{}},
		{ID: 1, Email: "a@b.com", Name: "A", Roles: []string{"OWNER", "RENTER"}},
		{ID: 9007199254740991, Email: "max@b.com", Roles: []string{}, Metadata: map[string]any{"nested": map[string]any{"k": "v"}}},
		{ID: -5, Email: "ünïcödé@b.com", Name: "名前", Roles: []string{"ROLE_0"}},
	}
	for _, identity := range identities {
		raw, err := EncodeIdentity(identity)
		require.NoError(t, err)
		token, err := issuer.CreateToken("sub", map[string]any{UserClaimKey: raw, "extra": 1})
		require.NoError(t, err)

		result := authenticator.Authenticate(token, RequestMeta{})
		require.True(t, result.Authenticated())
		assert.Equal(t, identity, result.Context.Identity)
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "authenticated", OutcomeAuthenticated.String())
	assert.Equal(t, "missing_token", OutcomeMissingToken.String())
	assert.Equal(t, "invalid_token", OutcomeInvalidToken.String())
	assert.Equal(t, "malformed_claim", OutcomeMalformedClaim.String())
	assert.Equal(t, "unknown", Outcome(0).String())
	assert.False(t, Result{}.Authenticated())
}
