package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hitoshi/teamroster/internal/logger"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Fixture（設定時はDBを使わずYAMLのデータで動作する）
	FixturesPath string

	// Session（Cookieはホストの認証基盤が発行する）
	SessionCookieName string

	// Nonce
	NonceSecret string
	NonceTTL    time.Duration

	// Roster
	// EmbedKey はホスト側サーバーがuser_idを指定して描画する際の共有鍵。空の場合は指定を受け付けない。
	EmbedKey          string
	ProgramsURL       string
	EnrichConcurrency int

	// Rate Limit（req/min）
	RateLimitGeneral     int
	RateLimitGoalUpdates int

	// Avatar
	AvatarEndpoint   string
	AvatarAccessKey  string
	AvatarSecretKey  string
	AvatarBucket     string
	AvatarUseSSL     bool
	AvatarDefaultURL string
	AvatarURLExpiry  time.Duration

	// Logging
	LogLevel slog.Level

	// Server
	ServerPort string
	BaseURL    string
}

// UsesFixtures はフィクスチャストアで動作するかどうかを返す。
func (c *Config) UsesFixtures() bool {
	return c.FixturesPath != ""
}

// Load は環境変数からConfigを読み込む。
// envFilesを指定した場合はそのファイルを、指定しない場合はカレントディレクトリの.envを
// 環境変数に読み込む（既に設定済みの変数は上書きしない）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.FixturesPath = os.Getenv("FIXTURES_PATH")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" && cfg.FixturesPath == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.NonceSecret = os.Getenv("NONCE_SECRET")
	if cfg.NonceSecret == "" {
		missing = append(missing, "NONCE_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	level, err := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	// Optional fields with defaults
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	cfg.SessionCookieName = getEnvString("SESSION_COOKIE_NAME", "session_id")
	cfg.NonceTTL = getEnvDuration("NONCE_TTL", 12*time.Hour)
	cfg.EmbedKey = getEnvString("EMBED_KEY", "")
	cfg.ProgramsURL = getEnvString("PROGRAMS_URL", "/programs")
	cfg.EnrichConcurrency = getEnvInt("ENRICH_CONCURRENCY", 8)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGoalUpdates = getEnvInt("RATE_LIMIT_GOAL_UPDATES", 60)
	cfg.AvatarEndpoint = getEnvString("AVATAR_ENDPOINT", "")
	cfg.AvatarAccessKey = getEnvString("AVATAR_ACCESS_KEY", "")
	cfg.AvatarSecretKey = getEnvString("AVATAR_SECRET_KEY", "")
	cfg.AvatarBucket = getEnvString("AVATAR_BUCKET", "")
	cfg.AvatarUseSSL = getEnvBool("AVATAR_USE_SSL", true)
	cfg.AvatarDefaultURL = getEnvString("AVATAR_DEFAULT_URL", "/static/img/default-profile.svg")
	cfg.AvatarURLExpiry = getEnvDuration("AVATAR_URL_EXPIRY", time.Hour)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:"+cfg.ServerPort)

	if cfg.EnrichConcurrency < 1 {
		cfg.EnrichConcurrency = 1
	}

	return cfg, nil
}

// loadEnvFiles は.envファイルを読み込む。
// 既定の.envが存在しないのは正常として扱い、明示したファイルが読めない場合はエラーにする。
func loadEnvFiles(envFiles []string) error {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("failed to load env files %v: %w", envFiles, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
