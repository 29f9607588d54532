// Package usecase は価格履歴チャートのビジネスロジックを実装します。
package usecase

import (
	"context"
	"math"
	"math/rand"
	"time"

	"cryptopulse_backend/internal/feature/history/domain/entity"
)

const (
	// MaxDays はフリープランで要求できる日数の上限です。
	// これを超える要求はアップストリーム呼び出しの前にクランプされます。
	MaxDays = 7
	// DefaultDays は日数未指定時のデフォルト値です。
	DefaultDays = 7

	// volatilityRatio はOHLC合成に使う価格比のボラティリティです。
	volatilityRatio = 0.02
)

// Granularity values selected from the requested span.
const (
	IntervalMinutely = "minutely"
	IntervalHourly   = "hourly"
	IntervalDaily    = "daily"
)

// ChartRepository は外部プロバイダーから価格時系列を取得するインターフェイスです。
type ChartRepository interface {
	GetMarketChart(ctx context.Context, coinID string, days int, interval string) ([]entity.PricePoint, error)
}

// HistoryResult is the chart payload handed to the transport layer:
// parallel label/price slices plus synthesized candlesticks.
type HistoryResult struct {
	Labels   []string
	Prices   []float64
	Candles  []entity.Candlestick
	Interval string
	Days     int // echoes the requested span, not the clamped one
}

// historyUsecase は日数クランプ・粒度選択・OHLC合成を担います。
type historyUsecase struct {
	chart ChartRepository
	rng   *rand.Rand
}

// NewHistoryUsecase creates the history usecase. rng may be nil, in which
// case a time-seeded source is used; tests inject a fixed seed so the
// synthesized candles are deterministic.
func NewHistoryUsecase(chart ChartRepository, rng *rand.Rand) *historyUsecase {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &historyUsecase{chart: chart, rng: rng}
}

// IntervalForDays は要求されたスパンからデータ粒度を選択します。
func IntervalForDays(days int) string {
	switch {
	case days <= 1:
		return IntervalMinutely
	case days <= 90:
		return IntervalHourly
	default:
		return IntervalDaily
	}
}

// GetHistory は1コインの価格履歴を取得し、チャート用に整形します。
//
// daysはアップストリーム呼び出しの前にMaxDaysへクランプされますが、
// 粒度の選択とレスポンスのDaysフィールドは要求された値に従います。
func (hu *historyUsecase) GetHistory(ctx context.Context, coinID string, days int) (*HistoryResult, error) {
	if days <= 0 {
		days = DefaultDays
	}
	interval := IntervalForDays(days)

	clamped := days
	if clamped > MaxDays {
		clamped = MaxDays
	}

	points, err := hu.chart.GetMarketChart(ctx, coinID, clamped, interval)
	if err != nil {
		return nil, err
	}

	res := &HistoryResult{
		Labels:   make([]string, 0, len(points)),
		Prices:   make([]float64, 0, len(points)),
		Candles:  make([]entity.Candlestick, 0, len(points)),
		Interval: interval,
		Days:     days,
	}
	for _, p := range points {
		label := labelFor(p.Time, interval)
		res.Labels = append(res.Labels, label)
		res.Prices = append(res.Prices, p.Price)
		res.Candles = append(res.Candles, hu.synthesizeCandle(label, p.Price))
	}
	return res, nil
}

// labelFor は粒度ごとの表示用タイムスタンプラベルを返します。
func labelFor(t time.Time, interval string) string {
	switch interval {
	case IntervalMinutely:
		return t.Format("15:04")
	case IntervalHourly:
		return t.Format("2006/01/02 15:04")
	default:
		return t.Format("2006/01/02")
	}
}

// synthesizeCandle は1価格点からOHLC値を合成します。
// 高値は常に {open, close, price} の最大値以上、安値は最小値以下に置かれ、
// すべて0以上にクランプされるため low <= {open, close} <= high が保たれます。
func (hu *historyUsecase) synthesizeCandle(label string, price float64) entity.Candlestick {
	volatility := price * volatilityRatio
	open := price + (hu.rng.Float64()-0.5)*volatility*0.5
	cls := price + (hu.rng.Float64()-0.5)*volatility*0.5
	high := math.Max(math.Max(open, cls), price) + hu.rng.Float64()*volatility*0.3
	low := math.Min(math.Min(open, cls), price) - hu.rng.Float64()*volatility*0.3

	return entity.Candlestick{
		Label: label,
		Open:  math.Max(0, open),
		High:  math.Max(0, high),
		Low:   math.Max(0, low),
		Close: math.Max(0, cls),
	}
}
