package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"cryptopulse_backend/internal/app/di"
	"cryptopulse_backend/internal/app/router"
	coinshandler "cryptopulse_backend/internal/feature/coins/transport/handler"
	coinsusecase "cryptopulse_backend/internal/feature/coins/usecase"
	historyhandler "cryptopulse_backend/internal/feature/history/transport/handler"
	historyusecase "cryptopulse_backend/internal/feature/history/usecase"
	infradb "cryptopulse_backend/internal/platform/db"
	infraredis "cryptopulse_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// DBは任意構成。失敗してもAPI専用モードで起動を続行する
	gdb, err := infradb.Open()
	if err != nil {
		slog.Warn("DB unavailable. Running in API-only mode.", "error", err)
		gdb = nil
	}
	if gdb == nil {
		slog.Info("no DB configured; coin snapshots will not be persisted")
	}

	// Redisも任意構成
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		if rdb != nil {
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("Failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	marketRepo := di.NewMarket()
	coinRepo := di.NewCoinRepository(rdb, gdb)

	// Usecase
	coinsUC := coinsusecase.NewCoinsUsecase(marketRepo, coinRepo)
	historyUC := historyusecase.NewHistoryUsecase(marketRepo, nil)

	// Handler
	coinsH := coinshandler.NewCoinsHandler(coinsUC)
	historyH := historyhandler.NewHistoryHandler(historyUC)

	// ルータ生成
	r := router.NewRouter(coinsH, historyH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
