package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/rently/rently-auth/internal/api/http"
	"github.com/rently/rently-auth/internal/api/http/handlers"
	"github.com/rently/rently-auth/internal/auth"
	"github.com/rently/rently-auth/internal/config"
	"github.com/rently/rently-auth/internal/events"
	"github.com/rently/rently-auth/internal/observability"
	"github.com/rently/rently-auth/internal/persistence"
	"github.com/rently/rently-auth/internal/ratelimit"
	"github.com/rently/rently-auth/internal/repository"
	"github.com/rently/rently-auth/internal/service"
	"github.com/rently/rently-auth/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	settings, err := auth.NewSettings(cfg.Auth)
	if err != nil {
		logger.Fatal("invalid auth settings", zap.Error(err))
	}
	issuer, err := auth.NewTokenIssuer(settings)
	if err != nil {
		logger.Fatal("failed to build token issuer", zap.Error(err))
	}
	authenticator, err := auth.NewRequestAuthenticator(settings)
	if err != nil {
		logger.Fatal("failed to build authenticator", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewAuthMiddleware(authenticator, cfg.Auth.RequireToken, logger, metrics)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	limiter := ratelimit.NewLoginLimiter(redis.Client, ratelimit.Config{
		MaxAttempts: cfg.Auth.LoginMaxAttempts,
		Cooldown:    cfg.Auth.LoginCooldown,
	})
	loginService, err := service.NewLoginService(service.LoginDependencies{
		Accounts:   repository.NewAccountRepository(pg.PoolHandle()),
		Issuer:     issuer,
		Throttle:   limiter,
		Logger:     logger,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		logger.Fatal("failed to build login service", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, pg, redis),
		Session:        handlers.NewSessionHandler(loginService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("auth service started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("header", settings.HeaderName),
		zap.Duration("token_ttl", settings.TTL),
		zap.Bool("require_token", settings.RequireToken),
	)

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
