// Package di provides dependency injection factories for creating application components.
package di

import (
	"cryptopulse_backend/internal/platform/externalapi/coingecko"
	infrahttp "cryptopulse_backend/internal/platform/http"
)

// NewMarket creates a fully configured CoinGecko client with HTTP client.
func NewMarket() *coingecko.Client {
	cfg := coingecko.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return coingecko.NewClient(cfg, httpClient)
}
