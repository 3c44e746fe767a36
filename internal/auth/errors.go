package auth

import "errors"

const (
	// DefaultHeaderName is the request header carrying the token.
	DefaultHeaderName = "Authorization"
	// DefaultPrefix is the optional scheme tag in front of the token.
	DefaultPrefix = "Bearer "
	// UserClaimKey is the reserved claim holding the JSON-encoded IdentityClaim.
	UserClaimKey = "user"
)

var (
	// ErrMissingSecret signals a missing signing secret. It is a startup failure.
	ErrMissingSecret = errors.New("auth: signing secret is not configured")
	// ErrMissingToken is reported when the request carries no candidate token.
	ErrMissingToken = errors.New("auth: missing token")
	// ErrInvalidToken covers bad signatures, malformed structure and expired tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMalformedClaim is reported when a correctly signed token carries an unreadable identity claim.
	ErrMalformedClaim = errors.New("auth: malformed identity claim")
)
