package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/rently/rently-auth/pkg/util"
)

type countingRecorder struct {
	outcomes map[string]int
}

func (r *countingRecorder) RecordAuthOutcome(outcome string) {
	r.outcomes[outcome]++
}

type middlewareFixture struct {
	app      *fiber.App
	issuer   *TokenIssuer
	logs     *observer.ObservedLogs
	recorder *countingRecorder
}

func newMiddlewareFixture(t *testing.T, requireToken bool) *middlewareFixture {
	t.Helper()
	settings := testSettings(t, "secret")

	core, logs := observer.New(zapcore.DebugLevel)
	recorder := &countingRecorder{outcomes: map[string]int{}}
	mw := NewAuthMiddleware(mustAuthenticator(t, settings), requireToken, zap.New(core), recorder)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Use(mw.Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		ac, ok := FromFiber(c)
		if !ok {
			return c.SendString("anonymous")
		}
		fromCtx, ok := FromContext(c.UserContext())
		if !ok || fromCtx != ac {
			return fiber.NewError(http.StatusInternalServerError, "context mismatch")
		}
		return c.SendString(ac.Identity.Email)
	})
	app.Get("/owners", RequireRole("OWNER", "ADMIN"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/private", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return &middlewareFixture{app: app, issuer: mustIssuer(t, settings), logs: logs, recorder: recorder}
}

func (f *middlewareFixture) token(t *testing.T, userClaim string) string {
	t.Helper()
	token, err := f.issuer.CreateToken("42", map[string]any{UserClaimKey: userClaim})
	require.NoError(t, err)
	return token
}

func (f *middlewareFixture) do(t *testing.T, path, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid token publishes identity", func(t *testing.T) {
		f := newMiddlewareFixture(t, false)
		status, body := f.do(t, "/whoami", "Bearer "+f.token(t, scenarioUserClaim))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "a@b.com", body)
		assert.Equal(t, 1, f.recorder.outcomes["authenticated"])
	})

	t.Run("token without prefix is accepted", func(t *testing.T) {
		f := newMiddlewareFixture(t, false)
		status, body := f.do(t, "/whoami", f.token(t, scenarioUserClaim))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "a@b.com", body)
	})

	t.Run("missing token passes through", func(t *testing.T) {
		f := newMiddlewareFixture(t, false)
		status, body := f.do(t, "/whoami", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "anonymous", body)
		assert.Equal(t, 1, f.recorder.outcomes["missing_token"])
	})

	t.Run("missing token rejected when required", func(t *testing.T) {
		f := newMiddlewareFixture(t, true)
		status, body := f.do(t, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "UNAUTHORIZED", body)
	})

	t.Run("invalid token rejected before handler", func(t *testing.T) {
		f := newMiddlewareFixture(t, false)
		token := f.token(t, scenarioUserClaim)
		status, _ := f.do(t, "/whoami", "Bearer "+token[:len(token)-1])
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, 1, f.recorder.outcomes["invalid_token"])
		assert.Equal(t, 1, f.logs.FilterMessage("token rejected").FilterLevelExact(zapcore.WarnLevel).Len())
	})

	t.Run("malformed claim rejected and logged as error", func(t *testing.T) {
		f := newMiddlewareFixture(t, false)
		status, _ := f.do(t, "/whoami", "Bearer "+f.token(t, "not-json"))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, 1, f.recorder.outcomes["malformed_claim"])
		assert.Equal(t, 1, f.logs.FilterMessage("identity claim malformed").FilterLevelExact(zapcore.ErrorLevel).Len())
		assert.Zero(t, f.logs.FilterMessage("token rejected").Len())
	})
}

func TestRoleGuards(t *testing.T) {
	f := newMiddlewareFixture(t, false)

	status, _ := f.do(t, "/owners", "Bearer "+f.token(t, scenarioUserClaim))
	assert.Equal(t, http.StatusOK, status)

	status, body := f.do(t, "/owners", "Bearer "+f.token(t, `{"id":5,"email":"r@b.com","roles":["RENTER"]}`))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body)

	status, _ = f.do(t, "/owners", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.do(t, "/private", "Bearer "+f.token(t, `{"id":5}`))
	assert.Equal(t, http.StatusOK, status)
}
