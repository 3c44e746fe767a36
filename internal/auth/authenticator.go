package auth

import "strings"

// RequestAuthenticator turns a raw header value into an authentication Result:
// extract, strip prefix, verify, decode identity. It has no side effects, so the same
// header authenticated twice under the same secret and clock yields equal results.
type RequestAuthenticator struct {
	verifier   *TokenVerifier
	headerName string
	prefix     string
}

// NewRequestAuthenticator builds an authenticator from settings.
func NewRequestAuthenticator(settings Settings) (*RequestAuthenticator, error) {
	verifier, err := NewTokenVerifier(settings)
	if err != nil {
		return nil, err
	}
	return &RequestAuthenticator{
		verifier:   verifier,
		headerName: settings.HeaderName,
		prefix:     settings.Prefix,
	}, nil
}

// HeaderName is the request header the authenticator reads.
func (a *RequestAuthenticator) HeaderName() string {
	return a.headerName
}

// ExtractToken returns the candidate token in headerValue. The prefix is optional:
// without it the whole trimmed value is the candidate.
func (a *RequestAuthenticator) ExtractToken(headerValue string) (string, bool) {
	value := strings.TrimSpace(headerValue)
	if a.prefix != "" {
		switch {
		case strings.HasPrefix(value, a.prefix):
			value = strings.TrimSpace(value[len(a.prefix):])
		case value == strings.TrimSpace(a.prefix):
			// scheme tag with nothing after it
			value = ""
		}
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// Authenticate runs the full pipeline on headerValue.
func (a *RequestAuthenticator) Authenticate(headerValue string, meta RequestMeta) Result {
	token, ok := a.ExtractToken(headerValue)
	if !ok {
		return rejected(OutcomeMissingToken, ErrMissingToken)
	}
	return a.AuthenticateToken(token, meta)
}

// AuthenticateToken verifies an already extracted token and decodes its identity claim.
func (a *RequestAuthenticator) AuthenticateToken(token string, meta RequestMeta) Result {
	verified, err := a.verifier.Verify(token)
	if err != nil {
		return rejected(OutcomeInvalidToken, err)
	}

	identity, err := identityFromClaims(verified.Claims)
	if err != nil {
		return rejected(OutcomeMalformedClaim, err)
	}

	return Result{
		Outcome: OutcomeAuthenticated,
		Context: &AuthenticatedContext{
			Identity:  identity,
			Subject:   verified.Subject,
			IssuedAt:  verified.IssuedAt,
			ExpiresAt: verified.ExpiresAt,
			RequestID: meta.RequestID,
			RemoteIP:  meta.RemoteIP,
		},
	}
}
