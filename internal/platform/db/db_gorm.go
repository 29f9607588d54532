// Package db はアプリケーションのデータベース接続を管理します。
//
// データベースは任意構成です。DATABASE_URLが設定されていればPostgreSQL、
// SQLITE_PATHが設定されていればSQLiteを使用し、どちらも未設定の場合は
// nilを返してストアなしで動作させます。
package db

import (
	"log/slog"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	coinadapters "cryptopulse_backend/internal/feature/coins/adapters"
)

// Config はデータベース接続設定です。
type Config struct {
	URL        string // PostgreSQL DSN（優先）
	SQLitePath string // SQLiteファイルパス
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		URL:        os.Getenv("DATABASE_URL"),
		SQLitePath: os.Getenv("SQLITE_PATH"),
	}
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられるよう分離しています。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続に成功するかタイムアウトするまで接続を試行します。
// コンテナ起動直後などDBがまだ受け付け可能でないケースを吸収します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(timeout)
	for {
		db, err = open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(3 * time.Second)
	}
}

// Open は設定に応じたデータベース接続を開き、スキーマをマイグレートします。
// どのバックエンドも設定されていない場合は (nil, nil) を返します。
func Open() (*gorm.DB, error) {
	cfg := LoadConfigFromEnv()

	var (
		db  *gorm.DB
		err error
	)

	switch {
	case cfg.URL != "":
		db, err = ConnectWithRetry(cfg.URL, 30*time.Second, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		})
	case cfg.SQLitePath != "":
		db, err = gorm.Open(gsqlite.Open(cfg.SQLitePath), &gorm.Config{})
	default:
		// ストアなしモード
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&coinadapters.CoinModel{}); err != nil {
		return nil, err
	}

	return db, nil
}
