package dto

// MarketChartResponse は /coins/{id}/market_chart エンドポイントのJSONレスポンスを表します。
// Prices の各要素は [unix_ms, price] のペアです。
type MarketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}
