package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cryptopulse_backend/internal/feature/coins/domain"
	"cryptopulse_backend/internal/feature/coins/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&CoinModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func snapshot(id, symbol string, price float64, change float64, rank int) entity.Coin {
	return entity.Coin{
		CoinGeckoID: id,
		Symbol:      symbol,
		Name:        id,
		Price:       price,
		MarketCap:   price * 1000,
		Change24h:   change,
		Rank:        rank,
		LastUpdated: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewCoinRepository(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCoinRepository(db)

	assert.NotNil(t, repo, "repository should not be nil")
	assert.NotNil(t, repo.db, "database connection should not be nil")
}

// TestCoinGorm_UpsertBatch_Idempotent は同一IDの再upsertが行を増やさず
// 最新の値で上書きすることを検証します。
func TestCoinGorm_UpsertBatch_Idempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCoinRepository(db)
	ctx := context.Background()

	first := snapshot("bitcoin", "BTC", 50000, 1.5, 1)
	require.NoError(t, repo.UpsertBatch(ctx, []entity.Coin{first}))

	// 同じIDで値を変えて再度upsert
	second := snapshot("bitcoin", "BTC", 51500, -0.8, 1)
	require.NoError(t, repo.UpsertBatch(ctx, []entity.Coin{second}))

	var count int64
	require.NoError(t, db.Model(&CoinModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "exactly one row per identifier")

	got, err := repo.FindByIdentifier(ctx, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, 51500.0, got.Price, "latest price wins")
	assert.Equal(t, -0.8, got.Change24h, "latest change wins")
}

func TestCoinGorm_UpsertBatch_Empty(t *testing.T) {
	t.Parallel()

	repo := NewCoinRepository(setupTestDB(t))
	assert.NoError(t, repo.UpsertBatch(context.Background(), nil))
}

// TestCoinGorm_ListByRank はランク昇順の並びとlimitを検証します。
func TestCoinGorm_ListByRank(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCoinRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []entity.Coin{
		snapshot("solana", "SOL", 100, 3.2, 3),
		snapshot("bitcoin", "BTC", 50000, 1.5, 1),
		snapshot("ethereum", "ETH", 3000, -2.1, 2),
	}))

	got, err := repo.ListByRank(ctx, 50)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "bitcoin", got[0].CoinGeckoID)
	assert.Equal(t, "ethereum", got[1].CoinGeckoID)
	assert.Equal(t, "solana", got[2].CoinGeckoID)

	limited, err := repo.ListByRank(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

// TestCoinGorm_FindByIdentifier はID・シンボル両方の検索パスを検証します。
func TestCoinGorm_FindByIdentifier(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCoinRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []entity.Coin{
		snapshot("bitcoin", "BTC", 50000, 1.5, 1),
	}))

	tests := []struct {
		name       string
		identifier string
		wantErr    error
	}{
		{name: "by coingecko id", identifier: "bitcoin"},
		{name: "by symbol upper", identifier: "BTC"},
		{name: "by symbol lower", identifier: "btc"},
		{name: "miss", identifier: "dogecoin", wantErr: domain.ErrCoinNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByIdentifier(ctx, tt.identifier)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "bitcoin", got.CoinGeckoID)
		})
	}
}

// TestCoinGorm_ListTopGainers はプラス変化率のみが降順で返ることを検証します。
func TestCoinGorm_ListTopGainers(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCoinRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, []entity.Coin{
		snapshot("bitcoin", "BTC", 50000, 1.5, 1),
		snapshot("ethereum", "ETH", 3000, -2.1, 2),
		snapshot("solana", "SOL", 100, 7.9, 3),
		snapshot("cardano", "ADA", 0.5, 0, 4),
	}))

	got, err := repo.ListTopGainers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2, "zero and negative change excluded")
	assert.Equal(t, "solana", got[0].CoinGeckoID)
	assert.Equal(t, "bitcoin", got[1].CoinGeckoID)

	limited, err := repo.ListTopGainers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "solana", limited[0].CoinGeckoID)
}
