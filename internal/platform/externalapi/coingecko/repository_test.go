package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptopulse_backend/internal/shared/upstream"
)

func testConfig(baseURL, apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	cfg := testConfig("https://api.test.com", "test-key")
	client := NewClient(cfg, &http.Client{})

	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.cfg.APIKey != "test-key" {
		t.Errorf("expected API key %q, got %q", "test-key", client.cfg.APIKey)
	}
}

func TestClient_GetMarkets_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// リクエストパラメータを検証
		q := r.URL.Query()
		if q.Get("vs_currency") != "usd" {
			t.Errorf("expected vs_currency usd, got %s", q.Get("vs_currency"))
		}
		if q.Get("order") != "market_cap_desc" {
			t.Errorf("expected order market_cap_desc, got %s", q.Get("order"))
		}
		// limit 50はフリープランの上限20に丸められる
		if q.Get("per_page") != "20" {
			t.Errorf("expected per_page 20, got %s", q.Get("per_page"))
		}
		if q.Get("sparkline") != "false" {
			t.Errorf("expected sparkline false, got %s", q.Get("sparkline"))
		}
		if r.Header.Get("x-cg-demo-api-key") != "" {
			t.Error("API key header set without a configured key")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": "bitcoin",
				"symbol": "btc",
				"name": "Bitcoin",
				"image": "https://img.test/btc.png",
				"current_price": 50000,
				"market_cap": 1000000000000,
				"market_cap_rank": 1,
				"total_volume": 30000000000,
				"price_change_percentage_24h": 1.5
			},
			{
				"id": "newcoin",
				"symbol": "new",
				"name": "New Coin"
			}
		]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), server.Client())

	coins, err := client.GetMarkets(context.Background(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}

	btc := coins[0]
	if btc.CoinGeckoID != "bitcoin" {
		t.Errorf("expected id bitcoin, got %s", btc.CoinGeckoID)
	}
	if btc.Symbol != "BTC" {
		t.Errorf("symbol not upper-cased: %s", btc.Symbol)
	}
	if btc.Price != 50000 || btc.Rank != 1 {
		t.Errorf("unexpected market fields: %+v", btc)
	}
	if btc.LastUpdated.IsZero() {
		t.Error("LastUpdated not defaulted to fetch time")
	}

	// 欠落フィールドは決定的なゼロ値にデフォルトされる
	sparse := coins[1]
	if sparse.Price != 0 || sparse.MarketCap != 0 || sparse.Volume24h != 0 || sparse.Rank != 0 || sparse.Image != "" {
		t.Errorf("missing fields not defaulted: %+v", sparse)
	}
	if sparse.Symbol != "NEW" {
		t.Errorf("symbol not upper-cased: %s", sparse.Symbol)
	}
}

func TestClient_GetMarkets_APIKeyHeader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-cg-demo-api-key") != "demo-key" {
			t.Errorf("expected API key header, got %q", r.Header.Get("x-cg-demo-api-key"))
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, "demo-key"), server.Client())
	if _, err := client.GetMarkets(context.Background(), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestClient_GetMarkets_FailureClassification はHTTPステータスごとの
// エラー分類を検証します。
func TestClient_GetMarkets_FailureClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "429 classified as rate limited", status: http.StatusTooManyRequests, wantErr: upstream.ErrRateLimited},
		{name: "401 classified as unauthorized", status: http.StatusUnauthorized, wantErr: upstream.ErrUnauthorized},
		{name: "403 classified as unauthorized", status: http.StatusForbidden, wantErr: upstream.ErrUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(testConfig(server.URL, ""), server.Client())
			_, err := client.GetMarkets(context.Background(), 10)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_GetMarkets_GenericHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), server.Client())
	_, err := client.GetMarkets(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error for http 500")
	}
	if errors.Is(err, upstream.ErrRateLimited) || errors.Is(err, upstream.ErrUnauthorized) {
		t.Errorf("500 misclassified as throttle kind: %v", err)
	}
}

func TestClient_GetMarkets_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// サーバーの応答より短いタイムアウトを設定
	client := NewClient(testConfig(server.URL, ""), &http.Client{Timeout: 20 * time.Millisecond})
	_, err := client.GetMarkets(context.Background(), 10)
	if !errors.Is(err, upstream.ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestClient_GetMarketChart_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/bitcoin/market_chart" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("days") != "7" {
			t.Errorf("expected days 7, got %s", q.Get("days"))
		}
		if q.Get("interval") != "hourly" {
			t.Errorf("expected interval hourly, got %s", q.Get("interval"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"prices": [
				[1717243200000, 50000.5],
				[1717246800000, 50100.25],
				[1717250400000]
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), server.Client())

	points, err := client.GetMarketChart(context.Background(), "bitcoin", 7, "hourly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 不完全な行（要素不足）はスキップされる
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Price != 50000.5 {
		t.Errorf("expected price 50000.5, got %f", points[0].Price)
	}
	if points[0].Time.UnixMilli() != 1717243200000 {
		t.Errorf("timestamp not parsed from unix ms: %v", points[0].Time)
	}
}

func TestClient_GetMarketChart_RateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, ""), server.Client())
	_, err := client.GetMarketChart(context.Background(), "bitcoin", 7, "hourly")
	if !errors.Is(err, upstream.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}
