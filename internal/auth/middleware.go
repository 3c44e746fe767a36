package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rently/rently-auth/internal/observability"
	apperrors "github.com/rently/rently-auth/pkg/util"
)

// OutcomeRecorder receives one call per authenticated request.
type OutcomeRecorder interface {
	RecordAuthOutcome(outcome string)
}

// AuthMiddleware authenticates every request passing through it and publishes the
// identity to downstream handlers.
type AuthMiddleware struct {
	authenticator *RequestAuthenticator
	requireToken  bool
	logger        *zap.Logger
	recorder      OutcomeRecorder
}

// NewAuthMiddleware constructs middleware. recorder may be nil.
func NewAuthMiddleware(authenticator *RequestAuthenticator, requireToken bool, logger *zap.Logger, recorder OutcomeRecorder) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		requireToken:  requireToken,
		logger:        logger,
		recorder:      recorder,
	}
}

// Handle authenticates the request. Requests without a token pass through unless the
// middleware requires one; invalid tokens and malformed identity claims are rejected.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	meta := RequestMeta{RequestID: observability.RequestID(c), RemoteIP: c.IP()}
	result := m.authenticator.Authenticate(c.Get(m.authenticator.HeaderName()), meta)
	if m.recorder != nil {
		m.recorder.RecordAuthOutcome(result.Outcome.String())
	}

	switch result.Outcome {
	case OutcomeAuthenticated:
		ac := result.Context
		m.logger.Debug("authentication succeeded",
			zap.String("request_id", meta.RequestID),
			zap.String("subject", ac.Subject),
			zap.Int64("user_id", ac.Identity.ID))
		c.Locals(localsKey, ac)
		c.SetUserContext(WithAuthenticated(c.UserContext(), ac))
		return c.Next()

	case OutcomeMissingToken:
		m.logger.Debug("no token presented", zap.String("request_id", meta.RequestID))
		if m.requireToken {
			return apperrors.NewUnauthorized("missing authorization token")
		}
		return c.Next()

	case OutcomeMalformedClaim:
		m.logger.Error("identity claim malformed",
			zap.String("request_id", meta.RequestID),
			zap.Error(result.Err))
		return apperrors.NewUnauthorizedWithCause("invalid token", result.Err)

	default:
		m.logger.Warn("token rejected",
			zap.String("request_id", meta.RequestID),
			zap.String("remote_ip", meta.RemoteIP),
			zap.Error(result.Err))
		return apperrors.NewUnauthorizedWithCause("invalid token", result.Err)
	}
}
