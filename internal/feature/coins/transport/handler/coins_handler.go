// Package handler はcoinsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cryptopulse_backend/internal/feature/coins/domain"
	"cryptopulse_backend/internal/feature/coins/domain/entity"
	"cryptopulse_backend/internal/feature/coins/transport/http/dto"
	"cryptopulse_backend/internal/feature/coins/usecase"
	"cryptopulse_backend/internal/shared/upstream"
)

// Consumer-facing messages for terminal upstream failures.
const (
	rateLimitMessage    = "API rate limit exceeded. Please try again in a few minutes or set up a CoinGecko API key."
	rateLimitSuggestion = "Consider getting a free CoinGecko API key for higher rate limits: https://www.coingecko.com/en/api/pricing"
	serverFaultMessage  = "Error fetching cryptocurrency data"
)

// CoinsUsecase はコインスナップショット操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CoinsUsecase interface {
	ListCoins(ctx context.Context, limit int) (*usecase.CoinsResult, error)
	FindCoin(ctx context.Context, identifier string) (*entity.Coin, error)
	ListTopGainers(ctx context.Context, limit int) ([]entity.Coin, error)
}

// CoinsHandler はコインスナップショットのHTTPリクエストを処理します。
type CoinsHandler struct {
	uc CoinsUsecase
}

// NewCoinsHandler は指定されたusecaseでCoinsHandlerの新しいインスタンスを生成します。
func NewCoinsHandler(uc CoinsUsecase) *CoinsHandler {
	return &CoinsHandler{uc: uc}
}

// ListCoinsHandler は時価総額上位のコイン一覧を返します。
//
// エンドポイント例:
// GET /coins?limit=50
//
// 新鮮なデータでもキャッシュフォールバックでも200を返し、sourceフィールドで
// 区別します。アップストリーム失敗かつキャッシュなしの場合のみ429/500になります。
func (h *CoinsHandler) ListCoinsHandler(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "50")
	// 不正な値は0になり、usecase側でデフォルトに置き換えられる
	limit, _ := strconv.Atoi(limitStr)

	res, err := h.uc.ListCoins(c.Request.Context(), limit)
	if err != nil {
		status, body := terminalFailure(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, dto.CoinListResponse{
		Success: true,
		Count:   len(res.Coins),
		Data:    dto.FromEntities(res.Coins),
		Source:  res.Source,
		Message: res.Message,
	})
}

// GetCoinHandler はCoinGecko IDまたはシンボルでスナップショットを1件返します。
//
// エンドポイント例:
// GET /coins/bitcoin
// GET /coins/BTC
func (h *CoinsHandler) GetCoinHandler(c *gin.Context) {
	identifier := c.Param("identifier")

	coin, err := h.uc.FindCoin(c.Request.Context(), identifier)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCoinNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Success: false,
				Message: "Coin not found",
			})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Success: false,
				Message: "Database not available",
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Success: false,
				Message: "Error fetching coin data",
				Error:   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CoinDetailResponse{
		Success: true,
		Data:    dto.FromEntity(*coin),
	})
}

// TrendingGainersHandler は24時間で値上がりしたコインを変化率降順で返します。
//
// エンドポイント例:
// GET /coins/trending/gainers?limit=10
func (h *CoinsHandler) TrendingGainersHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	coins, err := h.uc.ListTopGainers(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Success: false,
				Message: "Database not available",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Success: false,
			Message: "Error fetching trending coins",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.CoinListResponse{
		Success: true,
		Count:   len(coins),
		Data:    dto.FromEntities(coins),
	})
}

// terminalFailure はフォールバック不能なアップストリーム失敗をHTTPステータスと
// エラーエンベロープに対応付けます。レート制限・認証拒否は429、それ以外は500です。
func terminalFailure(err error) (int, dto.ErrorResponse) {
	if upstream.IsThrottled(err) {
		return http.StatusTooManyRequests, dto.ErrorResponse{
			Success:    false,
			Message:    rateLimitMessage,
			Error:      err.Error(),
			Source:     "error",
			Suggestion: rateLimitSuggestion,
		}
	}
	return http.StatusInternalServerError, dto.ErrorResponse{
		Success: false,
		Message: serverFaultMessage,
		Error:   err.Error(),
		Source:  "error",
	}
}
