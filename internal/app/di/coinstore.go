package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	coinadapters "cryptopulse_backend/internal/feature/coins/adapters"
	"cryptopulse_backend/internal/feature/coins/usecase"
	"cryptopulse_backend/internal/platform/cache"
)

// NewCoinRepository creates a CoinRepository implementation.
// Without a DB there is no store, so it returns nil and the usecase runs
// in API-only mode. With Redis available, the store is wrapped in a
// read-through cache.
func NewCoinRepository(rdb *redis.Client, db *gorm.DB) usecase.CoinRepository {
	if db == nil {
		return nil
	}
	store := coinadapters.NewCoinRepository(db)
	if rdb != nil {
		return cache.NewCachingCoinRepository(rdb, cache.TTLFromEnv(), store, "coins")
	}
	return store
}
