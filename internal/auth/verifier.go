package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// VerifiedToken is the payload of a token whose signature and expiry checked out.
type VerifiedToken struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    jwt.MapClaims
}

// TokenVerifier checks HS256 signatures and expiry. No leeway is applied.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier builds a verifier sharing the settings' secret and clock.
func NewTokenVerifier(settings Settings) (*TokenVerifier, error) {
	secret, err := settings.key()
	if err != nil {
		return nil, err
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(settings.clock()),
		jwt.WithStrictDecoding(),
	)
	return &TokenVerifier{secret: secret, parser: parser}, nil
}

// Verify validates tokenStr and returns its payload. Every failure wraps ErrInvalidToken.
func (v *TokenVerifier) Verify(tokenStr string) (*VerifiedToken, error) {
	claims := jwt.MapClaims{}
	parsed, err := v.parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	verified := &VerifiedToken{Claims: claims}
	if sub, err := claims.GetSubject(); err == nil {
		verified.Subject = sub
	} else {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		verified.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		verified.ExpiresAt = exp.Time
	}
	return verified, nil
}
