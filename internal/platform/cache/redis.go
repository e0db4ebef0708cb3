package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/sololvlup/pkg/config"
)

// NewRedis returns nil when no address is configured; callers treat a nil
// client as "no cache".
func NewRedis(lc fx.Lifecycle, cfg *cfgpkg.Config, l *zap.SugaredLogger) *redis.Client {
	if cfg.Redis.Addr == "" {
		l.Infow("redis disabled, paypal tokens are fetched per call")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// an unreachable cache degrades to per-call tokens, it does not block boot
			if err := rdb.Ping(ctx).Err(); err != nil {
				l.Warnw("redis ping failed", "addr", cfg.Redis.Addr, "err", err)
				return nil
			}
			l.Infow("connected to redis", "addr", cfg.Redis.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis client")
			return rdb.Close()
		},
	})
	return rdb
}

var Module = fx.Options(
	fx.Provide(NewRedis),
)
