package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rently/rently-auth/internal/config"
)

// ErrRedisDisabled is returned by Ping on a wrapper without a client.
var ErrRedisDisabled = errors.New("redis client not configured")

// Redis holds the client behind the login throttle.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client and probes it once. An unreachable server is only logged:
// the throttle fails open, so startup must not depend on Redis.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{Client: redis.NewClient(clientOptions(cfg))}
	if err := r.Ping(ctx); err != nil {
		logger.Warn("unable to reach redis; login throttle fails open",
			zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB), zap.Error(err))
		return r
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return r
}

func clientOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Name identifies the dependency in readiness reports.
func (r *Redis) Name() string { return "redis" }

// Enabled reports whether a client exists.
func (r *Redis) Enabled() bool { return r != nil && r.Client != nil }

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return ErrRedisDisabled
	}
	return r.Client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}
