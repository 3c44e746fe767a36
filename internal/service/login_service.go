package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rently/rently-auth/internal/auth"
	"github.com/rently/rently-auth/internal/domain"
	"github.com/rently/rently-auth/internal/events"
	"github.com/rently/rently-auth/internal/ratelimit"
	"github.com/rently/rently-auth/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned for suspended accounts with correct credentials.
	ErrAccountDisabled = errors.New("account disabled")
)

// LoginThrottle limits failed login attempts per email.
type LoginThrottle interface {
	Check(ctx context.Context, identifier string) error
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

// LoginResult is a signed session token and the identity it carries.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  auth.IdentityClaim
}

// LoginDependencies encapsulates collaborators for the login service.
type LoginDependencies struct {
	Accounts   repository.AccountRepository
	Issuer     *auth.TokenIssuer
	Throttle   LoginThrottle
	Logger     *zap.Logger
	Dispatcher events.Dispatcher
	BcryptCost int
}

// LoginService exchanges credentials for a session token.
type LoginService struct {
	accounts   repository.AccountRepository
	issuer     *auth.TokenIssuer
	throttle   LoginThrottle
	logger     *zap.Logger
	dispatcher events.Dispatcher
	dummyHash  string
}

// NewLoginService builds the service. Throttle, Logger and Dispatcher are optional.
func NewLoginService(deps LoginDependencies) (*LoginService, error) {
	if deps.Accounts == nil || deps.Issuer == nil {
		return nil, errors.New("login service requires accounts and issuer")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	// compared against when the email is unknown so both failure paths cost one bcrypt run
	dummyHash, err := auth.HashPassword("rently-login-placeholder", deps.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare placeholder hash: %w", err)
	}
	return &LoginService{
		accounts:   deps.Accounts,
		issuer:     deps.Issuer,
		throttle:   deps.Throttle,
		logger:     logger,
		dispatcher: deps.Dispatcher,
		dummyHash:  dummyHash,
	}, nil
}

// Login verifies credentials and issues a token whose "user" claim is the account identity.
func (s *LoginService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if err := s.checkThrottle(ctx, email); err != nil {
		s.publishEvent(ctx, events.Event{Type: events.EventLoginThrottled, Email: email})
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lookup account: %w", err)
		}
		_ = auth.ComparePassword(s.dummyHash, password)
		return nil, s.fail(ctx, email, 0, "unknown_email")
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, s.fail(ctx, email, account.ID, "password_mismatch")
	}
	if !account.Active() {
		s.publishEvent(ctx, events.Event{Type: events.EventLoginDisabled, Email: email, AccountID: account.ID})
		return nil, ErrAccountDisabled
	}

	identity := IdentityFromAccount(account)
	encoded, err := auth.EncodeIdentity(identity)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(strconv.FormatInt(account.ID, 10), map[string]any{auth.UserClaimKey: encoded})
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn("login throttle reset failed", zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventLoginSucceeded,
		Email:     email,
		AccountID: account.ID,
		Payload:   events.LoginSucceededPayload{ExpiresAt: token.ExpiresAt, Roles: identity.Roles},
	})

	return &LoginResult{Token: token.Value, ExpiresAt: token.ExpiresAt, Identity: identity}, nil
}

// IdentityFromAccount projects an account onto the claim embedded in tokens.
func IdentityFromAccount(account *domain.Account) auth.IdentityClaim {
	roles := make([]string, len(account.Roles))
	copy(roles, account.Roles)
	return auth.IdentityClaim{
		ID:       account.ID,
		Email:    account.Email,
		Name:     account.Name,
		Roles:    roles,
		Metadata: account.Metadata,
	}
}

func (s *LoginService) checkThrottle(ctx context.Context, email string) error {
	if s.throttle == nil {
		return nil
	}
	err := s.throttle.Check(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ratelimit.ErrRateLimited):
		return err
	default:
		s.logger.Warn("login throttle unavailable; allowing attempt", zap.Error(err))
		return nil
	}
}

func (s *LoginService) fail(ctx context.Context, email string, accountID int64, reason string) error {
	s.publishEvent(ctx, events.Event{
		Type:      events.EventLoginFailed,
		Email:     email,
		AccountID: accountID,
		Payload:   events.LoginFailedPayload{Reason: reason},
	})
	if s.throttle == nil {
		return ErrInvalidCredentials
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil && !errors.Is(err, ratelimit.ErrRateLimited) {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}
	return ErrInvalidCredentials
}

func (s *LoginService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
