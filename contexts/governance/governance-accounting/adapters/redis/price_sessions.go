// Package redisadapter keeps short-lived governance state in Redis: price
// sessions and cached token decimals.
package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "desci/contexts/governance/governance-accounting/application"
	"desci/contexts/governance/governance-accounting/domain/entities"
	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"
	"desci/contexts/governance/governance-accounting/ports"

	"github.com/redis/go-redis/v9"
)

const priceSessionPrefix = "price:session:"

// PriceSessions stores one price state per project. A zero TTL keeps
// sessions until they are overwritten.
type PriceSessions struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewPriceSessions(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *PriceSessions {
	return &PriceSessions{rdb: rdb, ttl: ttl, logger: application.ResolveLogger(logger)}
}

func (s *PriceSessions) GetPriceState(ctx context.Context, projectID string) (entities.PriceState, bool, error) {
	raw, err := s.rdb.Get(ctx, priceSessionKey(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.PriceState{}, false, nil
	}
	if err != nil {
		return entities.PriceState{}, false, s.fail("get", projectID, err)
	}
	var state entities.PriceState
	if err := json.Unmarshal(raw, &state); err != nil {
		return entities.PriceState{}, false, s.fail("decode", projectID, err)
	}
	return state, true, nil
}

func (s *PriceSessions) SavePriceState(ctx context.Context, projectID string, state entities.PriceState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return s.fail("encode", projectID, err)
	}
	if err := s.rdb.Set(ctx, priceSessionKey(projectID), raw, s.ttl).Err(); err != nil {
		return s.fail("set", projectID, err)
	}
	return nil
}

func (s *PriceSessions) fail(operation string, projectID string, err error) error {
	s.logger.Error("price session store failed",
		"event", "governance_price_session_failed",
		"module", application.Module,
		"layer", "adapter",
		"operation", operation,
		"project_id", projectID,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: price session %s: %w", domainerrors.ErrPersistence, operation, err)
}

func priceSessionKey(projectID string) string {
	return priceSessionPrefix + strings.TrimSpace(projectID)
}

var _ ports.PriceSessionStore = (*PriceSessions)(nil)
