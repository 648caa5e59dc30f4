package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/User133445/memevote-sub000/internal/model"
)

const (
	ContentCacheTTL = 5 * time.Minute
	// Ranked sets outlive two recompute intervals; a crashed run leaves the
	// previous ranking stale rather than corrupt.
	RankingTTL = 8 * time.Hour

	RankingHot    = "hot"
	RankingRising = "rising"
)

// CacheService provides a Redis cache-aside layer for content lookups and
// holds the replaceable trending ranked sets.
type CacheService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewCacheService creates a CacheService. If redisURL is empty or the
// connection fails, cache operations become no-ops and rankings are
// unavailable rather than fatal.
func NewCacheService(redisURL string, log zerolog.Logger) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{log: log}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{log: log}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{log: log}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb, log: log}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetContent retrieves a cached content response. Returns nil when not
// cached or caching is disabled.
func (c *CacheService) GetContent(ctx context.Context, contentID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, contentKey(contentID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetContent stores a content response in cache.
func (c *CacheService) SetContent(ctx context.Context, contentID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, contentKey(contentID), b, ContentCacheTTL).Err()
}

// InvalidateContent removes an item from cache (called after accepted votes).
func (c *CacheService) InvalidateContent(ctx context.Context, contentID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, contentKey(contentID)).Err()
}

// ReplaceRanking atomically swaps in a freshly computed ranked surface.
// The new set is built under a staging key and renamed over the live one,
// so readers only ever see a complete ranking.
func (c *CacheService) ReplaceRanking(ctx context.Context, surface string, entries []model.TrendingEntry) error {
	if c.rdb == nil {
		return nil
	}

	live := rankingKey(surface)
	staging := live + ":staging"

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, staging)
	if len(entries) > 0 {
		members := make([]redis.Z, len(entries))
		for i, e := range entries {
			members[i] = redis.Z{Score: e.ViralityScore, Member: e.ContentID}
		}
		pipe.ZAdd(ctx, staging, members...)
	}
	pipe.Expire(ctx, staging, RankingTTL)
	pipe.Rename(ctx, staging, live)
	pipe.Expire(ctx, live, RankingTTL)
	_, err := pipe.Exec(ctx)
	if err != nil && len(entries) == 0 {
		// RENAME fails when the staging key is empty; an empty surface is
		// expressed by deleting the live key instead.
		return c.rdb.Del(ctx, live).Err()
	}
	return err
}

// GetRanking reads the top entries of a ranked surface, highest score first.
func (c *CacheService) GetRanking(ctx context.Context, surface string, limit int) ([]model.TrendingEntry, error) {
	if c.rdb == nil {
		return nil, nil
	}

	zs, err := c.rdb.ZRevRangeWithScores(ctx, rankingKey(surface), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.TrendingEntry, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, model.TrendingEntry{ContentID: id, ViralityScore: z.Score})
	}
	return entries, nil
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func contentKey(contentID string) string {
	return fmt.Sprintf("content:%s", contentID)
}

func rankingKey(surface string) string {
	return fmt.Sprintf("ranking:%s", surface)
}
