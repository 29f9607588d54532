// Package dto defines the JSON response shapes for the history endpoint.
package dto

import "cryptopulse_backend/internal/feature/history/domain/entity"

// CandlestickResponse is the wire form of one synthesized OHLC point.
type CandlestickResponse struct {
	X     string  `json:"x"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// HistoryData is the chart payload: parallel label/price arrays plus
// candlestick points, in the shape the frontend chart expects.
type HistoryData struct {
	Labels          []string              `json:"labels"`
	Data            []float64             `json:"data"`
	CandlestickData []CandlestickResponse `json:"candlestickData"`
	Interval        string                `json:"interval"`
	Days            int                   `json:"days"`
}

// HistoryResponse is the success envelope for the history endpoint.
type HistoryResponse struct {
	Success bool        `json:"success"`
	Data    HistoryData `json:"data"`
}

// HistoryErrorResponse is the failure envelope. Fallback tells the consumer
// it should synthesize a simulated series locally as a last resort.
type HistoryErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	Fallback   bool   `json:"fallback"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FromCandles converts domain candlesticks to their wire form.
func FromCandles(candles []entity.Candlestick) []CandlestickResponse {
	out := make([]CandlestickResponse, 0, len(candles))
	for _, c := range candles {
		out = append(out, CandlestickResponse{
			X:     c.Label,
			Open:  c.Open,
			High:  c.High,
			Low:   c.Low,
			Close: c.Close,
		})
	}
	return out
}
