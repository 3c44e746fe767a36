package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// IdentityClaim is the user identity carried inside a token under the "user" claim.
type IdentityClaim struct {
	ID       int64          `json:"id"`
	Email    string         `json:"email"`
	Name     string         `json:"name,omitempty"`
	Roles    []string       `json:"roles"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HasRole reports whether the identity holds role. Comparison is exact.
func (i IdentityClaim) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// EncodeIdentity serializes the identity to the JSON string stored under UserClaimKey.
// The claim value is a string, so the identity ends up JSON-encoded twice on the wire.
func EncodeIdentity(identity IdentityClaim) (string, error) {
	if identity.Roles == nil {
		identity.Roles = []string{}
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("encode identity: %w", err)
	}
	return string(raw), nil
}

// DecodeIdentity parses a "user" claim value. Unknown fields are ignored and missing
// fields keep their zero value; anything that is not a JSON object, or whose known
// fields have the wrong type, is reported as ErrMalformedClaim.
func DecodeIdentity(raw string) (IdentityClaim, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return IdentityClaim{}, fmt.Errorf("%w: not a JSON object", ErrMalformedClaim)
	}

	var identity IdentityClaim
	if err := json.Unmarshal(trimmed, &identity); err != nil {
		return IdentityClaim{}, fmt.Errorf("%w: %v", ErrMalformedClaim, err)
	}
	if identity.Roles == nil {
		identity.Roles = []string{}
	}
	return identity, nil
}

// identityFromClaims reads the reserved claim out of a verified payload.
func identityFromClaims(claims map[string]any) (IdentityClaim, error) {
	value, ok := claims[UserClaimKey]
	if !ok {
		return IdentityClaim{}, fmt.Errorf("%w: %q claim missing", ErrMalformedClaim, UserClaimKey)
	}
	raw, ok := value.(string)
	if !ok {
		return IdentityClaim{}, fmt.Errorf("%w: %q claim is %T, want string", ErrMalformedClaim, UserClaimKey, value)
	}
	return DecodeIdentity(raw)
}
