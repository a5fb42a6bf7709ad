package cache

import (
	"context"
	"fmt"
	"time"

	"inkpress/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// ViewTracker dedupes post views so one reader refreshing a post does not
// inflate its counter. A view key is set NX with a TTL; only the first set
// within the window counts.
type ViewTracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewViewTracker(rdb *redis.Client, ttl time.Duration) *ViewTracker {
	return &ViewTracker{rdb: rdb, ttl: ttl}
}

// ShouldCount reports whether this client's view of the post is fresh within
// the dedupe window. Redis being down fails open: the view still counts.
func (t *ViewTracker) ShouldCount(ctx context.Context, postID, clientKey string) bool {
	if t == nil || t.rdb == nil || clientKey == "" {
		return true
	}
	key := fmt.Sprintf("post_view:%s:%s", postID, clientKey)
	ok, err := t.rdb.SetNX(ctx, key, 1, t.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
