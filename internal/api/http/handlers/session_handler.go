package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rently/rently-auth/internal/api/dto"
	"github.com/rently/rently-auth/internal/auth"
	"github.com/rently/rently-auth/internal/ratelimit"
	"github.com/rently/rently-auth/internal/repository"
	"github.com/rently/rently-auth/internal/service"
	apperrors "github.com/rently/rently-auth/pkg/util"
)

// LoginProvider exchanges credentials for a session token.
type LoginProvider interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// SessionHandler exposes login and session inspection endpoints.
type SessionHandler struct {
	login LoginProvider
}

// NewSessionHandler constructs handler. A nil provider disables login.
func NewSessionHandler(login LoginProvider) *SessionHandler {
	return &SessionHandler{login: login}
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	if h.login == nil {
		return apperrors.NewDomainError("SERVICE_UNAVAILABLE", "login disabled", http.StatusServiceUnavailable, nil)
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.login.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapLoginError(err)
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			User:      identityResponse(result.Identity),
		},
	})
}

// Me handles GET /auth/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	actx, ok := auth.FromFiber(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": identityResponse(actx.Identity)})
}

// Introspect handles GET /auth/token/introspect.
func (h *SessionHandler) Introspect(c *fiber.Ctx) error {
	actx, ok := auth.FromFiber(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"data": dto.IntrospectionResponse{
			Subject:   actx.Subject,
			IssuedAt:  actx.IssuedAt,
			ExpiresAt: actx.ExpiresAt,
			RequestID: actx.RequestID,
		},
	})
}

func mapLoginError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, service.ErrAccountDisabled):
		return apperrors.NewForbidden("account disabled")
	case errors.Is(err, ratelimit.ErrRateLimited):
		return apperrors.NewTooManyRequests("too many failed login attempts")
	case errors.Is(err, repository.ErrStoreUnavailable):
		return apperrors.NewDomainError("SERVICE_UNAVAILABLE", "login disabled", http.StatusServiceUnavailable, nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func identityResponse(identity auth.IdentityClaim) dto.IdentityResponse {
	roles := identity.Roles
	if roles == nil {
		roles = []string{}
	}
	return dto.IdentityResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		Name:     identity.Name,
		Roles:    roles,
		Metadata: identity.Metadata,
	}
}
