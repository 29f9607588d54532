package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	coinshandler "cryptopulse_backend/internal/feature/coins/transport/handler"
	historyhandler "cryptopulse_backend/internal/feature/history/transport/handler"
	"cryptopulse_backend/internal/platform/http/handler"
)

// NewRouter はすべてのHTTPルートを登録したginエンジンを生成します。
// ブラウザのダッシュボードから直接呼ばれるため、全ルートでCORSを許可します。
func NewRouter(coins *coinshandler.CoinsHandler, history *historyhandler.HistoryHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)

	// コインスナップショット
	r.GET("/coins", coins.ListCoinsHandler)
	// 静的ルートはパラメータルートより先に登録する
	r.GET("/coins/trending/gainers", coins.TrendingGainersHandler)
	r.GET("/coins/:identifier", coins.GetCoinHandler)
	r.GET("/coins/:identifier/history", history.GetHistoryHandler)

	return r
}
