package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const localsKey = "auth_context"

type contextKey string

const authenticatedKey contextKey = "auth_context"

// AuthenticatedContext is the decoded identity plus request metadata handed to business
// handlers. It lives for one request only.
type AuthenticatedContext struct {
	Identity  IdentityClaim
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	RequestID string
	RemoteIP  string
}

// RequestMeta is the request information copied into an AuthenticatedContext.
type RequestMeta struct {
	RequestID string
	RemoteIP  string
}

// WithAuthenticated returns a copy of ctx carrying ac.
func WithAuthenticated(ctx context.Context, ac *AuthenticatedContext) context.Context {
	return context.WithValue(ctx, authenticatedKey, ac)
}

// FromContext retrieves the identity published for the current request.
func FromContext(ctx context.Context) (*AuthenticatedContext, bool) {
	if ctx == nil {
		return nil, false
	}
	ac, ok := ctx.Value(authenticatedKey).(*AuthenticatedContext)
	return ac, ok && ac != nil
}

// FromFiber retrieves the identity stored by AuthMiddleware on the fiber context.
func FromFiber(c *fiber.Ctx) (*AuthenticatedContext, bool) {
	val := c.Locals(localsKey)
	if val == nil {
		return nil, false
	}
	ac, ok := val.(*AuthenticatedContext)
	return ac, ok && ac != nil
}
