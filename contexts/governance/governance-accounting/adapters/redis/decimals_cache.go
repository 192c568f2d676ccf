package redisadapter

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/ports"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const decimalsPrefix = "erc20:decimals:"

// CachedOracle caches token decimals in Redis and collapses concurrent
// misses into one upstream call. Balances always go to the upstream oracle.
type CachedOracle struct {
	upstream ports.TokenOracle
	rdb      redis.Cmdable
	ttl      time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

func NewCachedOracle(upstream ports.TokenOracle, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *CachedOracle {
	return &CachedOracle{
		upstream: upstream,
		rdb:      rdb,
		ttl:      ttl,
		logger:   application.ResolveLogger(logger),
	}
}

func (c *CachedOracle) Decimals(ctx context.Context, token string) (uint8, error) {
	key := decimalsPrefix + strings.ToLower(strings.TrimSpace(token))
	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if decimals, parseErr := strconv.ParseUint(cached, 10, 8); parseErr == nil {
			return uint8(decimals), nil
		}
	case !errors.Is(err, redis.Nil):
		// A cache outage degrades to a direct read.
		c.logger.Warn("decimals cache read failed",
			"event", "governance_decimals_cache_read_failed",
			"module", application.Module,
			"layer", "adapter",
			"token", token,
			"error", err.Error(),
		)
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		decimals, err := c.upstream.Decimals(ctx, token)
		if err != nil {
			return uint8(0), err
		}
		if setErr := c.rdb.Set(ctx, key, strconv.Itoa(int(decimals)), c.ttl).Err(); setErr != nil {
			c.logger.Warn("decimals cache write failed",
				"event", "governance_decimals_cache_write_failed",
				"module", application.Module,
				"layer", "adapter",
				"token", token,
				"error", setErr.Error(),
			)
		}
		return decimals, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(uint8), nil
}

func (c *CachedOracle) BalanceOf(ctx context.Context, token string, holder string) (*big.Int, error) {
	return c.upstream.BalanceOf(ctx, token, holder)
}

var _ ports.TokenOracle = (*CachedOracle)(nil)
