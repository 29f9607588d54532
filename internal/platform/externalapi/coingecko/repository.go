package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	coinentity "cryptopulse_backend/internal/feature/coins/domain/entity"
	coinsusecase "cryptopulse_backend/internal/feature/coins/usecase"
	historyentity "cryptopulse_backend/internal/feature/history/domain/entity"
	historyusecase "cryptopulse_backend/internal/feature/history/usecase"
	"cryptopulse_backend/internal/platform/externalapi/coingecko/dto"
	"cryptopulse_backend/internal/shared/upstream"
)

// maxPerPage はフリープランで安全に要求できる1ページあたりの件数上限です。
// これを超えるlimitを要求するとプロバイダーに拒否されやすいため、常にここで丸めます。
const maxPerPage = 20

// apiKeyHeader is the demo-tier key header; the pro tier uses a different one.
const apiKeyHeader = "x-cg-demo-api-key"

// Client はCoinGecko APIからマーケットデータを取得するリポジトリ実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketRepository/ChartRepositoryを実装していることをコンパイル時に検証します。
var (
	_ coinsusecase.MarketRepository  = (*Client)(nil)
	_ historyusecase.ChartRepository = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// GetMarkets は時価総額降順で上位コインのスナップショットを取得します。
// limitはプロバイダーのバッチ上限（maxPerPage）に丸められます。
func (g *Client) GetMarkets(ctx context.Context, limit int) ([]coinentity.Coin, error) {
	perPage := limit
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")

	u := fmt.Sprintf("%s/coins/markets?%s", g.cfg.BaseURL, q.Encode())

	var body []dto.MarketCoin
	if err := g.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	now := time.Now()
	coins := make([]coinentity.Coin, 0, len(body))
	for _, c := range body {
		coins = append(coins, coinentity.Coin{
			CoinGeckoID: c.ID,
			Symbol:      strings.ToUpper(c.Symbol),
			Name:        c.Name,
			Price:       c.CurrentPrice,
			MarketCap:   c.MarketCap,
			Change24h:   c.PriceChangePercentage24h,
			Volume24h:   c.TotalVolume,
			Rank:        c.MarketCapRank,
			Image:       c.Image,
			LastUpdated: now,
		})
	}
	return coins, nil
}

// GetMarketChart は1コインの価格時系列を取得します。daysのクランプは
// 呼び出し元（usecase）の責務で、ここでは渡された値をそのまま使います。
func (g *Client) GetMarketChart(ctx context.Context, coinID string, days int, interval string) ([]historyentity.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", interval)

	u := fmt.Sprintf("%s/coins/%s/market_chart?%s", g.cfg.BaseURL, url.PathEscape(coinID), q.Encode())

	var body dto.MarketChartResponse
	if err := g.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}

	points := make([]historyentity.PricePoint, 0, len(body.Prices))
	for _, row := range body.Prices {
		if len(row) < 2 {
			continue
		}
		points = append(points, historyentity.PricePoint{
			Time:  time.UnixMilli(int64(row[0])),
			Price: row[1],
		})
	}
	return points, nil
}

// getJSON はGETリクエストを発行し、失敗をupstreamのセンチネルエラーに分類します。
func (g *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if g.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, g.cfg.APIKey)
	}

	res, err := g.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if err := classifyStatus(res.StatusCode); err != nil {
		return err
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// classifyStatus はHTTPステータスコードを失敗種別に対応付けます。
func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("coingecko http %d: %w", code, upstream.ErrRateLimited)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("coingecko http %d: %w", code, upstream.ErrUnauthorized)
	case code >= 400:
		return fmt.Errorf("coingecko http %d", code)
	}
	return nil
}

// classifyTransportError はネットワークレベルの失敗を分類します。
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("coingecko request: %w", upstream.ErrTimeout)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("coingecko request: %w", upstream.ErrTimeout)
	}
	return fmt.Errorf("coingecko request: %w", err)
}
