// Package cache provides Redis-backed caching of ranked match lists.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"engage-matching-engine/internal/config"
	"engage-matching-engine/internal/models"
)

// MatchCache caches the ranked match list per need. Entries expire after the
// configured TTL and are dropped eagerly when a need is re-matched.
type MatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a match cache from application config.
func New(cfg *config.Config) *MatchCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &MatchCache{client: rdb, ttl: cfg.MatchCacheTTL}
}

// NewWithClient wraps an existing Redis client (used by tests).
func NewWithClient(client *redis.Client, ttl time.Duration) *MatchCache {
	return &MatchCache{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *MatchCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *MatchCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func matchKey(needID string) string {
	return "engage:matches:" + needID
}

// GetMatches returns the cached ranked list for a need, or (nil, false) on a
// miss. Decode failures count as misses so stale shapes self-heal.
func (c *MatchCache) GetMatches(ctx context.Context, needID string) ([]models.MatchResult, bool) {
	raw, err := c.client.Get(ctx, matchKey(needID)).Bytes()
	if err != nil {
		return nil, false
	}

	var results []models.MatchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		_ = c.client.Del(ctx, matchKey(needID)).Err()
		return nil, false
	}

	return results, true
}

// SetMatches caches the ranked list for a need.
func (c *MatchCache) SetMatches(ctx context.Context, needID string, results []models.MatchResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}

	if err := c.client.Set(ctx, matchKey(needID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache matches: %w", err)
	}
	return nil
}

// Invalidate drops the cached list for a need.
func (c *MatchCache) Invalidate(ctx context.Context, needID string) error {
	if err := c.client.Del(ctx, matchKey(needID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to invalidate matches: %w", err)
	}
	return nil
}
