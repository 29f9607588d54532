// Package dto はCoinGecko APIレスポンスのデータ転送オブジェクトを定義します。
package dto

// MarketCoin は /coins/markets エンドポイントの1要素を表します。
// 欠落フィールドはゼロ値にデコードされ、上位で決定的なデフォルトとして扱われます。
type MarketCoin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            int     `json:"market_cap_rank"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}
