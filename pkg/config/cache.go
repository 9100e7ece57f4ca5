package config

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/justgrid/pkg/cache"
)

// Keyer returns the cache key scheme, scoped by KeyPrefix when set.
func (c Cache) Keyer() cache.Keyer {
	return cache.Prefixed(cache.NewDefaultKeyer(), c.KeyPrefix)
}

// OpenCache builds the cache backend described by c. A file backend with no
// dir uses cache.DefaultDir. Redis connectivity is checked with a short ping
// so that a wrong address fails at startup instead of on every request.
func (c Cache) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc := cache.NewRedisCache(c.RedisAddr, c.RedisPassword, c.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", c.RedisAddr, err)
		}
		return rc, nil
	default:
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}
