// Package cache keeps board read models in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/infrastructure/logger"
	"github.com/taskmaster/boards/internal/ports"
)

// RedisBoardCache stores BoardView snapshots as JSON. Every failure degrades
// to a cache miss; the store stays the source of truth.
type RedisBoardCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger *logger.Logger
}

// NewRedisBoardCache creates a cache writing keys as prefix+boardID. A zero
// TTL disables writes.
func NewRedisBoardCache(client *redis.Client, ttl time.Duration, prefix string, log *logger.Logger) *RedisBoardCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisBoardCache{
		redis:  client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithComponent("board_cache"),
	}
}

var _ ports.BoardCache = (*RedisBoardCache)(nil)

func (c *RedisBoardCache) Get(ctx context.Context, boardID uuid.UUID) (*entities.BoardView, bool) {
	if c.redis == nil {
		return nil, false
	}
	key := c.key(boardID)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("Board cache read failed", "key", key, "error", err.Error())
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}

	var view entities.BoardView
	if err := json.Unmarshal(data, &view); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return &view, true
}

func (c *RedisBoardCache) Set(ctx context.Context, view *entities.BoardView) {
	if c.redis == nil || c.ttl == 0 || view == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(view.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warnw("Board cache write failed", "board_id", view.ID, "error", err.Error())
	}
}

func (c *RedisBoardCache) Evict(ctx context.Context, boardIDs ...uuid.UUID) {
	if c.redis == nil || len(boardIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(boardIDs))
	for _, id := range boardIDs {
		keys = append(keys, c.key(id))
	}
	if _, err := c.redis.Del(ctx, keys...).Result(); err != nil {
		c.logger.Warnw("Board cache eviction failed", "keys", keys, "error", err.Error())
	}
}

// Ping reports whether Redis is reachable.
func (c *RedisBoardCache) Ping(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

func (c *RedisBoardCache) key(boardID uuid.UUID) string {
	return c.prefix + boardID.String()
}
