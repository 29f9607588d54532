// Package adapters はcoinsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cryptopulse_backend/internal/feature/coins/domain"
	"cryptopulse_backend/internal/feature/coins/domain/entity"
	"cryptopulse_backend/internal/feature/coins/usecase"
)

// coinGorm はCoinRepositoryインターフェースのGORM実装です。
type coinGorm struct {
	db *gorm.DB
}

var _ usecase.CoinRepository = (*coinGorm)(nil)

// NewCoinRepository は指定されたDB接続でcoinGormリポジトリの新しいインスタンスを生成します。
func NewCoinRepository(db *gorm.DB) *coinGorm {
	return &coinGorm{db: db}
}

// CoinModel is the persisted form of a coin snapshot. One row per
// CoinGecko id; newer snapshots replace older ones.
type CoinModel struct {
	ID          uint      `gorm:"primaryKey"`
	CoinGeckoID string    `gorm:"column:coin_gecko_id;size:128;not null;uniqueIndex"`
	Symbol      string    `gorm:"size:16;not null;index"`
	Name        string    `gorm:"size:128;not null"`
	Price       float64   `gorm:"not null"`
	MarketCap   float64   `gorm:"column:market_cap;not null"`
	Change24h   float64   `gorm:"column:change_24h;not null"`
	Volume24h   float64   `gorm:"column:volume_24h;not null;default:0"`
	Rank        int       `gorm:"column:market_cap_rank;not null;default:0;index"`
	Image       string    `gorm:"size:512"`
	LastUpdated time.Time `gorm:"column:last_updated;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CoinModel) TableName() string {
	return "coins"
}

func toModel(e entity.Coin) CoinModel {
	return CoinModel{
		CoinGeckoID: e.CoinGeckoID,
		Symbol:      e.Symbol,
		Name:        e.Name,
		Price:       e.Price,
		MarketCap:   e.MarketCap,
		Change24h:   e.Change24h,
		Volume24h:   e.Volume24h,
		Rank:        e.Rank,
		Image:       e.Image,
		LastUpdated: e.LastUpdated,
	}
}

func toEntity(m CoinModel) entity.Coin {
	return entity.Coin{
		CoinGeckoID: m.CoinGeckoID,
		Symbol:      m.Symbol,
		Name:        m.Name,
		Price:       m.Price,
		MarketCap:   m.MarketCap,
		Change24h:   m.Change24h,
		Volume24h:   m.Volume24h,
		Rank:        m.Rank,
		Image:       m.Image,
		LastUpdated: m.LastUpdated,
	}
}

// UpsertBatch はスナップショットをcoin_gecko_idをキーに一括で挿入または更新します。
func (r *coinGorm) UpsertBatch(ctx context.Context, coins []entity.Coin) error {
	if len(coins) == 0 {
		return nil
	}
	ms := make([]CoinModel, 0, len(coins))
	for _, e := range coins {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "coin_gecko_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"symbol", "name", "price", "market_cap", "change_24h",
			"volume_24h", "market_cap_rank", "image", "last_updated", "updated_at",
		}),
	}).Create(&ms).Error
}

// ListByRank は時価総額ランク昇順で保存済みスナップショットを返します。
func (r *coinGorm) ListByRank(ctx context.Context, limit int) ([]entity.Coin, error) {
	var rows []CoinModel
	q := r.db.WithContext(ctx).Order("market_cap_rank ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Coin, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// FindByIdentifier はCoinGecko ID（大文字小文字を区別）またはシンボル
// （区別しない）でスナップショットを1件検索します。
func (r *coinGorm) FindByIdentifier(ctx context.Context, identifier string) (*entity.Coin, error) {
	var row CoinModel
	err := r.db.WithContext(ctx).
		Where("coin_gecko_id = ? OR symbol = ?", identifier, strings.ToUpper(identifier)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCoinNotFound
		}
		return nil, err
	}
	e := toEntity(row)
	return &e, nil
}

// ListTopGainers は24時間変化率がプラスのスナップショットを変化率降順で返します。
func (r *coinGorm) ListTopGainers(ctx context.Context, limit int) ([]entity.Coin, error) {
	var rows []CoinModel
	q := r.db.WithContext(ctx).
		Where("change_24h > 0").
		Order("change_24h DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Coin, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
