// Package dto defines the JSON response shapes for the coins endpoints.
package dto

import (
	"time"

	"cryptopulse_backend/internal/feature/coins/domain/entity"
)

// CoinResponse is the wire form of one coin snapshot.
type CoinResponse struct {
	CoinGeckoID string    `json:"coinGeckoId"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	MarketCap   float64   `json:"marketCap"`
	Change24h   float64   `json:"change24h"`
	Volume24h   float64   `json:"volume24h"`
	Rank        int       `json:"rank"`
	Image       string    `json:"image"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// CoinListResponse is the envelope for list endpoints. Source tells the
// consumer whether the data is fresh or served from cache so it can show a
// degraded-mode notice.
type CoinListResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    []CoinResponse `json:"data"`
	Source  string         `json:"source,omitempty"`
	Message string         `json:"message,omitempty"`
}

// CoinDetailResponse is the envelope for the single-coin lookup.
type CoinDetailResponse struct {
	Success bool         `json:"success"`
	Data    CoinResponse `json:"data"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	Source     string `json:"source,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FromEntity converts a domain snapshot to its wire form.
func FromEntity(c entity.Coin) CoinResponse {
	return CoinResponse{
		CoinGeckoID: c.CoinGeckoID,
		Symbol:      c.Symbol,
		Name:        c.Name,
		Price:       c.Price,
		MarketCap:   c.MarketCap,
		Change24h:   c.Change24h,
		Volume24h:   c.Volume24h,
		Rank:        c.Rank,
		Image:       c.Image,
		LastUpdated: c.LastUpdated,
	}
}

// FromEntities converts a snapshot slice to its wire form.
func FromEntities(coins []entity.Coin) []CoinResponse {
	out := make([]CoinResponse, 0, len(coins))
	for _, c := range coins {
		out = append(out, FromEntity(c))
	}
	return out
}
