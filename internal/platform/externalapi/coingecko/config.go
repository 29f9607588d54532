// Package coingecko provides a client for the CoinGecko market data API.
package coingecko

import (
	"os"
	"time"
)

// Config holds configuration for the CoinGecko API client.
type Config struct {
	APIKey  string        // Demo API key; optional, raises the provider's rate limit
	BaseURL string        // Base URL for the API (e.g. "https://api.coingecko.com/api/v3")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads CoinGecko configuration from environment variables.
// A missing COINGECKO_API_KEY is not an error; the client then runs on the
// provider's anonymous rate limit.
func LoadConfig() Config {
	baseURL := os.Getenv("COINGECKO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return Config{
		APIKey:  os.Getenv("COINGECKO_API_KEY"),
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}
