package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// dateLayout is the calendar-day format of ANALYSIS_END_DATE.
const dateLayout = "2006-01-02"

type Config struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
	HTTPAddr string `validate:"required"`

	SQLiteDriver          string `validate:"required"`
	SQLiteDSN             string
	SQLitePath            string `validate:"required_without=SQLiteDSN"`
	SQLiteMaxOpenConns    int    `validate:"gte=0"`
	SQLiteMaxIdleConns    int    `validate:"gte=0"`
	SQLiteConnMaxLifetime time.Duration
	SQLLog                bool

	// AnalysisEndDate pins the end of the trailing window. Zero means the
	// latest measurement date in the dataset is used.
	AnalysisEndDate  time.Time
	WindowDays       int `validate:"gte=1,lte=3660"`
	StrictEmptyCheck bool

	RateLimitRPS   int `validate:"gte=0"`
	RateLimitBurst int `validate:"gte=0"`
}

var validate = validator.New()

// LoadFromEnv reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func LoadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := strings.TrimSpace(os.Getenv("SQLITE_DSN"))
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "Resources/hawaii.sqlite"
	}

	maxOpenConns, err := intFromEnv("DB_MAX_OPEN_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := intFromEnv("DB_MAX_IDLE_CONNS", 4)
	if err != nil {
		return Config{}, err
	}

	connMaxLifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if connMaxLifetimeStr == "" {
		connMaxLifetimeStr = "0s"
	}
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	sqlLog, err := boolFromEnv("SQL_LOG", false)
	if err != nil {
		return Config{}, err
	}

	var endDate time.Time
	if s := strings.TrimSpace(os.Getenv("ANALYSIS_END_DATE")); s != "" {
		endDate, err = time.Parse(dateLayout, s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ANALYSIS_END_DATE %q (expected YYYY-MM-DD): %w", s, err)
		}
	}

	windowDays, err := intFromEnv("WINDOW_DAYS", 365)
	if err != nil {
		return Config{}, err
	}

	strict, err := boolFromEnv("STRICT_EMPTY_CHECK", false)
	if err != nil {
		return Config{}, err
	}

	rps, err := intFromEnv("RATE_LIMIT_RPS", 0)
	if err != nil {
		return Config{}, err
	}
	burst, err := intFromEnv("RATE_LIMIT_BURST", 0)
	if err != nil {
		return Config{}, err
	}
	if burst == 0 {
		burst = rps
	}

	cfg := Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLLog:                sqlLog,
		AnalysisEndDate:       endDate,
		WindowDays:            windowDays,
		StrictEmptyCheck:      strict,
		RateLimitRPS:          rps,
		RateLimitBurst:        burst,
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func boolFromEnv(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
