// Package entity defines the domain models for the history feature.
package entity

import "time"

// PricePoint is one observation in a historical price series.
type PricePoint struct {
	Time  time.Time // Observation timestamp
	Price float64   // Price in USD at that time
}

// Candlestick is an OHLC summary for one point in the series. The free
// provider tier does not supply true OHLC data, so these values are
// synthesized from the price with bounded volatility and always satisfy
// 0 <= Low <= {Open, Close} <= High.
type Candlestick struct {
	Label string  // Display label for the interval (matches the series label)
	Open  float64
	High  float64
	Low   float64
	Close float64
}
