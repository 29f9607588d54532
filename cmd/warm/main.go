// コインスナップショットのウォームアップジョブ。
// CoinGeckoから市場データを取得してストアへ保存し、APIサーバーが
// レート制限下でもキャッシュフォールバックできる状態を作ります。
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"cryptopulse_backend/internal/app/di"
	coinsusecase "cryptopulse_backend/internal/feature/coins/usecase"
	infradb "cryptopulse_backend/internal/platform/db"
	"cryptopulse_backend/internal/shared/ratelimiter"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	gdb, err := infradb.Open()
	if err != nil {
		log.Fatal("failed to open DB:", err)
	}
	if gdb == nil {
		log.Fatal("warm requires a configured store; set DATABASE_URL or SQLITE_PATH")
	}

	marketRepo := di.NewMarket()
	coinRepo := di.NewCoinRepository(nil, gdb)

	rounds := 1
	if v := os.Getenv("WARM_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rounds = n
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// CoinGecko無料プランの上限（約10回/分）に合わせる
	limiter := ratelimiter.NewRateLimiter(10, time.Minute)

	for i := 0; i < rounds; i++ {
		limiter.WaitIfNeeded()

		coins, err := marketRepo.GetMarkets(ctx, coinsusecase.DefaultListLimit)
		if err != nil {
			log.Fatal("failed to fetch markets:", err)
		}
		if err := coinRepo.UpsertBatch(ctx, coins); err != nil {
			log.Fatal("failed to persist snapshots:", err)
		}
		log.Printf("warm round %d/%d: stored %d coins", i+1, rounds, len(coins))
	}
	log.Println("warm ok")
}
