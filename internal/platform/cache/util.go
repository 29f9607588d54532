package cache

import (
	"os"
	"strconv"
	"time"
)

// DefaultTTL はコインスナップショットのキャッシュ保持期間デフォルト値です。
// スナップショットはすぐ古くなるため短めに設定しています。
const DefaultTTL = 60 * time.Second

// TTLFromEnv は環境変数CACHE_TTL_SECONDSからキャッシュTTLを読み取ります。
// 未設定または不正な値の場合はDefaultTTLを返します。
func TTLFromEnv() time.Duration {
	v := os.Getenv("CACHE_TTL_SECONDS")
	if v == "" {
		return DefaultTTL
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return DefaultTTL
	}
	return time.Duration(secs) * time.Second
}
