// Package entity defines the domain models for the coins feature.
package entity

import "time"

// Coin represents one cryptocurrency's market snapshot as of a given fetch.
// Snapshots are keyed by CoinGeckoID and overwritten whenever a fresh
// upstream fetch succeeds for that coin.
type Coin struct {
	CoinGeckoID string    // Stable CoinGecko identifier (e.g. "bitcoin")
	Symbol      string    // Ticker symbol, upper-cased at the boundary (e.g. "BTC")
	Name        string    // Display name (e.g. "Bitcoin")
	Price       float64   // Current price in USD, never negative
	MarketCap   float64   // Market capitalization in USD, never negative
	Change24h   float64   // 24-hour percent change, signed
	Volume24h   float64   // 24-hour trading volume in USD
	Rank        int       // Market-cap rank (0 when the provider omits it)
	Image       string    // Logo URL (may be empty)
	LastUpdated time.Time // When this snapshot was fetched
}
