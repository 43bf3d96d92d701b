// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// ログ設定
	LogLevel string // debug, info, warn, error

	// ジョブ設定
	PollIntervalMS   int // ステータスキューを回収する間隔（ミリ秒）
	JobExpireMinutes int // 終了したジョブ記録の保持時間（分）

	// PDF処理設定
	RevealOutput      bool   // 成功時に出力フォルダを開くかどうか
	PDFValidationMode string // pdfcpu の検証モード (relaxed, strict)
	LockPath          string // CLI の同時実行防止ロックファイル
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		PollIntervalMS:   getEnvAsInt("POLL_INTERVAL_MS", 50),
		JobExpireMinutes: getEnvAsInt("JOB_EXPIRE_MINUTES", 10),

		RevealOutput:      getEnvAsBool("REVEAL_OUTPUT", true),
		PDFValidationMode: strings.ToLower(getEnv("PDF_VALIDATION_MODE", "relaxed")),
		LockPath:          getEnv("LOCK_PATH", filepath.Join(os.TempDir(), "page-forge.lock")),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("POLL_INTERVAL_MS must be positive (got %d)", c.PollIntervalMS)
	}
	switch c.PDFValidationMode {
	case "relaxed", "strict":
	default:
		return fmt.Errorf("PDF_VALIDATION_MODE must be relaxed or strict (got %q)", c.PDFValidationMode)
	}
	if c.GinMode == "release" && c.CORSAllowedOrigins == "" {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS is required in release mode")
	}
	return nil
}

// PollInterval はキュー回収間隔を time.Duration で返します。
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// JobTTL は終了したジョブ記録の保持時間を返します。
func (c *Config) JobTTL() time.Duration {
	return time.Duration(c.JobExpireMinutes) * time.Minute
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します。
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
