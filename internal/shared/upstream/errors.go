// Package upstream は外部マーケットデータAPIの失敗種別を定義します。
// アダプターがHTTPレスポンスをこれらのセンチネルエラーに分類し、
// 上位レイヤーは errors.Is で判定します。
package upstream

import "errors"

var (
	// ErrRateLimited はプロバイダーが429を返したことを示します。
	ErrRateLimited = errors.New("upstream rate limit exceeded")

	// ErrUnauthorized はAPIキーが欠落または無効であることを示します（401/403）。
	ErrUnauthorized = errors.New("upstream rejected credentials")

	// ErrTimeout はリクエストタイムアウトを示します。
	ErrTimeout = errors.New("upstream request timed out")
)

// IsThrottled reports whether err should surface to API consumers as a
// 429 rather than a server fault. The free tier answers both missing keys
// and burst traffic with effectively the same condition, so unauthorized
// is grouped with rate limiting here.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnauthorized)
}

// Reason returns a short human-readable label for a classified failure,
// used in degraded-mode messages.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "API rate limit"
	case errors.Is(err, ErrUnauthorized):
		return "rejected API credentials"
	case errors.Is(err, ErrTimeout):
		return "an upstream timeout"
	default:
		return "an upstream error"
	}
}
