package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data source
	Sina SinaConfig

	// Report output
	Report ReportConfig

	// Analysis defaults
	Analysis AnalysisConfig

	// LLM article writer
	LLM LLMConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the raw statement cache
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	TTL      time.Duration
}

// SinaConfig holds Sina Finance statement source configuration
type SinaConfig struct {
	BaseURL string
	Timeout time.Duration

	// Requests per second against the statement pages
	RateLimit float64

	// Directory holding column translation maps (JSON), empty disables translation
	TranslationDir string
}

// ReportConfig holds statement storage and report output locations
type ReportConfig struct {
	DataDir   string // per-symbol statement CSVs
	OutputDir string // generated markdown reports and articles
}

// AnalysisConfig holds pipeline defaults
type AnalysisConfig struct {
	Periods int // reporting periods to analyze (most recent N)
	Window  int // trailing window for anomaly rules
}

// LLMConfig holds article writer configuration
// 세부 설정(YAML)은 internal/llm 쪽에서 로드, 여기는 env 기본값만
type LLMConfig struct {
	ConfigFile string // optional YAML config path
	APIKey     string
	BaseURL    string
	Model      string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			TTL:      getEnvAsDuration("REDIS_TTL", "24h"),
		},

		// External data source
		Sina: SinaConfig{
			BaseURL:        getEnv("SINA_BASE_URL", "https://vip.stock.finance.sina.com.cn"),
			Timeout:        getEnvAsDuration("SINA_TIMEOUT", "30s"),
			RateLimit:      getEnvAsFloat("SINA_RATE_LIMIT", 2.0),
			TranslationDir: getEnv("SINA_TRANSLATION_DIR", ""),
		},

		// Report output
		Report: ReportConfig{
			DataDir:   getEnv("REPORT_DATA_DIR", "stock_report_data/report_data"),
			OutputDir: getEnv("REPORT_OUTPUT_DIR", "finall_stock_report"),
		},

		// Analysis defaults
		Analysis: AnalysisConfig{
			Periods: getEnvAsInt("ANALYSIS_PERIODS", 4),
			Window:  getEnvAsInt("ANALYSIS_WINDOW", 4),
		},

		// LLM article writer
		LLM: LLMConfig{
			ConfigFile: getEnv("LLM_CONFIG_FILE", ""),
			APIKey:     getEnv("LLM_API_KEY", ""),
			BaseURL:    getEnv("LLM_API_BASE", "https://ark.cn-beijing.volces.com/api/v3"),
			Model:      getEnv("LLM_MODEL", "doubao-seed-1-6-lite-251015"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.Periods < 1 {
		return fmt.Errorf("ANALYSIS_PERIODS must be >= 1")
	}

	if c.Analysis.Window < 1 {
		return fmt.Errorf("ANALYSIS_WINDOW must be >= 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
