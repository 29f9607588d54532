// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"cryptopulse_backend/internal/feature/coins/domain/entity"
	"cryptopulse_backend/internal/feature/coins/usecase"
)

// CachingCoinRepository decorates a CoinRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingCoinRepository struct {
	inner     usecase.CoinRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingCoinRepository decorates a CoinRepository with Redis caching.
// If ttl is 0, it defaults to 60 seconds. If namespace is empty, it uses "coins".
func NewCachingCoinRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CoinRepository, namespace string) *CachingCoinRepository {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if namespace == "" {
		namespace = "coins"
	}
	return &CachingCoinRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch inserts or updates coin snapshots and invalidates the whole
// namespace. Snapshots change every listing and ranking query result, so
// per-key invalidation buys nothing here.
func (c *CachingCoinRepository) UpsertBatch(ctx context.Context, coins []entity.Coin) error {
	// First upsert to the underlying repository (DB)
	if err := c.inner.UpsertBatch(ctx, coins); err != nil {
		return err
	}
	// Exit early if Redis is not configured or there are no coins
	if c.rdb == nil || len(coins) == 0 {
		return nil
	}

	// Best effort: don't fail the upsert if cache deletion fails
	_ = c.deleteByPattern(ctx, c.namespace+":*")
	return nil
}

// ListByRank retrieves coins ordered by market cap rank, checking cache first
// then falling back to the database.
func (c *CachingCoinRepository) ListByRank(ctx context.Context, limit int) ([]entity.Coin, error) {
	key := fmt.Sprintf("%s:rank:%d", c.namespace, limit)
	return c.throughList(ctx, key, func() ([]entity.Coin, error) {
		return c.inner.ListByRank(ctx, limit)
	})
}

// ListTopGainers retrieves coins with positive 24h change, checking cache
// first then falling back to the database.
func (c *CachingCoinRepository) ListTopGainers(ctx context.Context, limit int) ([]entity.Coin, error) {
	key := fmt.Sprintf("%s:gainers:%d", c.namespace, limit)
	return c.throughList(ctx, key, func() ([]entity.Coin, error) {
		return c.inner.ListTopGainers(ctx, limit)
	})
}

// FindByIdentifier retrieves one coin by CoinGecko ID or symbol.
//
// Misses are not cached: the underlying not-found error carries domain
// meaning and must surface unchanged.
func (c *CachingCoinRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.Coin, error) {
	if c.rdb == nil {
		return c.inner.FindByIdentifier(ctx, identifier)
	}

	key := fmt.Sprintf("%s:coin:%s", c.namespace, safe(identifier))

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Coin
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// throughList は一覧系クエリの読み取りスルーキャッシュ共通処理です。
func (c *CachingCoinRepository) throughList(ctx context.Context, key string, load func() ([]entity.Coin, error)) ([]entity.Coin, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Coin
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingCoinRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
