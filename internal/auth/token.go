package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Token is a freshly issued signed token together with its timing fields.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs HS256 tokens carrying a subject and arbitrary claims.
// It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer from settings. It fails only when the secret is unset.
func NewTokenIssuer(settings Settings) (*TokenIssuer, error) {
	secret, err := settings.key()
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{secret: secret, ttl: settings.TTL, now: settings.clock()}, nil
}

// CreateToken signs a token for subject. Every entry of claims is embedded verbatim;
// "sub", "iat" and "exp" are always set by the issuer.
func (ti *TokenIssuer) CreateToken(subject string, claims map[string]any) (string, error) {
	token, err := ti.Issue(subject, claims)
	if err != nil {
		return "", err
	}
	return token.Value, nil
}

// Issue is CreateToken returning the issuance and expiration times as well.
func (ti *TokenIssuer) Issue(subject string, claims map[string]any) (Token, error) {
	issuedAt := ti.now().Truncate(jwt.TimePrecision)
	expiresAt := issuedAt.Add(ti.ttl)

	payload := make(jwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		payload[k] = v
	}
	payload["sub"] = subject
	payload["iat"] = jwt.NewNumericDate(issuedAt)
	payload["exp"] = jwt.NewNumericDate(expiresAt)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(ti.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// TTL returns the configured token lifetime.
func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}
