package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/pagedform/pkg/adapters/file"
	"github.com/aretw0/pagedform/pkg/adapters/memory"
	"github.com/aretw0/pagedform/pkg/adapters/redis"
	"github.com/aretw0/pagedform/pkg/persistence/middleware"
	"github.com/aretw0/pagedform/pkg/ports"
	"github.com/aretw0/pagedform/pkg/seal"
)

// Sealer builds the sealer from the configured key, or nil when no key is set.
func (c Config) Sealer() (*seal.Sealer, error) {
	if c.SealKey == "" {
		return nil, nil
	}
	key, err := seal.ParseKey(c.SealKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvSealKey, err)
	}
	return seal.New(seal.Config{ActiveKey: key})
}

// OpenStore opens the configured submission store wrapped in the configured
// middleware. The returned function releases the backend.
func OpenStore(ctx context.Context, c Config, sealer *seal.Sealer, logger *slog.Logger) (ports.SubmissionStore, func() error, error) {
	var (
		store  ports.SubmissionStore
		closer = func() error { return nil }
	)
	switch c.Store {
	case StoreMemory:
		store = memory.NewStore()
	case StoreFile:
		store = file.New(c.StoreDir)
	case StoreRedis:
		rs := redis.New(c.RedisAddr, "", 0, redis.WithPrefix(c.RedisPrefix), redis.WithTTL(c.RedisTTL))
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", c.RedisAddr, err)
		}
		store, closer = rs, rs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store %q", c.Store)
	}

	var mws []middleware.Middleware
	if len(c.MaskFields) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(c.MaskFields))
	}
	if c.Encrypt {
		if sealer == nil {
			_ = closer()
			return nil, nil, fmt.Errorf("encryption needs a seal key (%s)", EnvSealKey)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(sealer))
	}

	logger.Debug("submission store ready", "store", c.Store, "masked", len(c.MaskFields), "encrypted", c.Encrypt)
	return middleware.Chain(store, mws...), closer, nil
}
