// Package usecase はコインスナップショット操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"cryptopulse_backend/internal/feature/coins/domain"
	"cryptopulse_backend/internal/feature/coins/domain/entity"
	"cryptopulse_backend/internal/shared/upstream"
)

const (
	// DefaultListLimit はコイン一覧のデフォルト返却件数です。
	DefaultListLimit = 50
	// DefaultGainersLimit は値上がり率ランキングのデフォルト返却件数です。
	DefaultGainersLimit = 10
)

// Source values reported to API consumers so they can distinguish
// fresh data from a degraded (cached) response.
const (
	SourceAPIWithDB = "api_with_db" // fresh upstream data, persisted to the store
	SourceAPIOnly   = "api_only"    // fresh upstream data, no store configured
	SourceDBCache   = "db_cache"    // stale data served from the store after an upstream failure
)

// MarketRepository は外部プロバイダーからマーケットデータを取得するインターフェイスです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// GetMarkets returns up to limit coins ordered by descending market cap.
	GetMarkets(ctx context.Context, limit int) ([]entity.Coin, error)
}

// CoinRepository はスナップショットストアの読み書きレイヤーを抽象化します。
type CoinRepository interface {
	// UpsertBatch inserts or replaces snapshots keyed by CoinGecko id.
	UpsertBatch(ctx context.Context, coins []entity.Coin) error
	// ListByRank returns stored snapshots ordered by market-cap rank ascending.
	ListByRank(ctx context.Context, limit int) ([]entity.Coin, error)
	// FindByIdentifier looks a snapshot up by CoinGecko id or ticker symbol.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.Coin, error)
	// ListTopGainers returns snapshots with positive 24h change, descending.
	ListTopGainers(ctx context.Context, limit int) ([]entity.Coin, error)
}

// CoinsResult is the outcome of a coordinated fetch. Source tells the
// consumer where the data came from; Message is set on degraded responses.
type CoinsResult struct {
	Coins   []entity.Coin
	Source  string
	Message string
}

// coinsUsecase はアップストリーム優先・キャッシュフォールバックの調停を行います。
// リクエスト間で状態を持たないステートレスなメディエーターです。
type coinsUsecase struct {
	market MarketRepository
	coin   CoinRepository // nil のとき永続化なし（フォールバック不可）
}

// NewCoinsUsecase creates the coordinator. coin may be nil, in which case
// the service runs without persistence: fresh fetches are never stored and
// an upstream failure has no fallback.
func NewCoinsUsecase(market MarketRepository, coin CoinRepository) *coinsUsecase {
	return &coinsUsecase{market: market, coin: coin}
}

// ListCoins は時価総額上位のコイン一覧を取得します。
//
// アップストリームの取得に成功した場合はスナップショットをベストエフォートで
// 永続化し、新鮮なデータを返します。失敗した場合はストアのキャッシュに
// フォールバックし、それも空なら分類済みのエラーをそのまま返します。
func (cu *coinsUsecase) ListCoins(ctx context.Context, limit int) (*CoinsResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	coins, err := cu.market.GetMarkets(ctx, limit)
	if err == nil {
		if cu.coin == nil {
			return &CoinsResult{Coins: coins, Source: SourceAPIOnly}, nil
		}
		// 永続化の失敗でレスポンスを壊さない（キャッシュは最適化であって真実の源ではない）
		if uerr := cu.coin.UpsertBatch(ctx, coins); uerr != nil {
			slog.Warn("failed to persist coin snapshots", "count", len(coins), "error", uerr)
		}
		return &CoinsResult{Coins: coins, Source: SourceAPIWithDB}, nil
	}

	slog.Warn("upstream markets fetch failed", "error", err)

	if cu.coin == nil {
		return nil, err
	}

	cached, derr := cu.coin.ListByRank(ctx, limit)
	if derr != nil {
		slog.Error("store fallback failed", "error", derr)
		return nil, err
	}
	if len(cached) == 0 {
		return nil, err
	}

	return &CoinsResult{
		Coins:   cached,
		Source:  SourceDBCache,
		Message: fmt.Sprintf("Returned cached data due to %s", upstream.Reason(err)),
	}, nil
}

// FindCoin はCoinGecko IDまたはティッカーシンボルでスナップショットを検索します。
// ストア専用の読み取りで、アップストリームは呼び出しません。
func (cu *coinsUsecase) FindCoin(ctx context.Context, identifier string) (*entity.Coin, error) {
	if cu.coin == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return cu.coin.FindByIdentifier(ctx, identifier)
}

// ListTopGainers は24時間変化率がプラスのスナップショットを降順で返します。
func (cu *coinsUsecase) ListTopGainers(ctx context.Context, limit int) ([]entity.Coin, error) {
	if cu.coin == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = DefaultGainersLimit
	}
	return cu.coin.ListTopGainers(ctx, limit)
}
