// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cryptopulse_backend/internal/feature/history/transport/http/dto"
	"cryptopulse_backend/internal/feature/history/usecase"
	"cryptopulse_backend/internal/shared/upstream"
)

const (
	rateLimitMessage    = "Historical data API rate limit exceeded. Using simulated data instead."
	rateLimitSuggestion = "The chart will use simulated data. For real historical data, consider getting a CoinGecko API key."
	serverFaultMessage  = "Error fetching historical data"
)

// HistoryUsecase は価格履歴取得のユースケースインターフェースを定義します。
type HistoryUsecase interface {
	GetHistory(ctx context.Context, coinID string, days int) (*usecase.HistoryResult, error)
}

// HistoryHandler は価格履歴のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は指定されたusecaseでHistoryHandlerの新しいインスタンスを生成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistoryHandler は1コインの価格履歴をチャート用に整形して返します。
//
// エンドポイント例:
// GET /coins/bitcoin/history?days=7
//
// intervalクエリは受け付けますが、粒度は要求された日数から決まります。
// アップストリーム失敗時はfallback:trueを返し、コンシューマーに
// ローカルの簡易モック生成を促します。
func (h *HistoryHandler) GetHistoryHandler(c *gin.Context) {
	coinID := c.Param("identifier")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	res, err := h.uc.GetHistory(c.Request.Context(), coinID, days)
	if err != nil {
		if upstream.IsThrottled(err) {
			c.JSON(http.StatusTooManyRequests, dto.HistoryErrorResponse{
				Success:    false,
				Message:    rateLimitMessage,
				Error:      err.Error(),
				Fallback:   true,
				Suggestion: rateLimitSuggestion,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.HistoryErrorResponse{
			Success:  false,
			Message:  serverFaultMessage,
			Error:    err.Error(),
			Fallback: true,
		})
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		Success: true,
		Data: dto.HistoryData{
			Labels:          res.Labels,
			Data:            res.Prices,
			CandlestickData: dto.FromCandles(res.Candles),
			Interval:        res.Interval,
			Days:            res.Days,
		},
	})
}
