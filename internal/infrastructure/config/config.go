package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultNasdaqBaseURL = "http://www.nasdaq.com"

type Config struct {
	ServerPort string
	ServerHost string

	NasdaqBaseURL string
	HTTPTimeout   time.Duration

	// TickerConcurrency bounds how many tickers a batch call works on at once.
	TickerConcurrency int
	// TicksTickerConcurrency is the same bound for tick history, which already
	// fans out per page and so defaults to one ticker at a time.
	TicksTickerConcurrency int
	// RequestConcurrency bounds the page fetches in flight within one section.
	RequestConcurrency int
	// RequestDelay is waited before every page fetch.
	RequestDelay time.Duration

	LogLevel string
}

func Load() (*Config, error) {
	port := getEnvOrDefault("SERVER_PORT", "8080")
	host := getEnvOrDefault("SERVER_HOST", "localhost")
	baseURL := strings.TrimRight(getEnvOrDefault("NASDAQ_BASE_URL", DefaultNasdaqBaseURL), "/")
	logLevel := strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))

	if _, err := ParseLogLevel(logLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive, got %s", timeout)
	}

	tickerConcurrency, err := getEnvInt("TICKER_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	ticksTickerConcurrency, err := getEnvInt("TICKS_TICKER_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}
	requestConcurrency, err := getEnvInt("REQUEST_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	requestDelay, err := ParseDelay(getEnvOrDefault("REQUEST_DELAY", "50ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_DELAY: %w", err)
	}

	return &Config{
		ServerPort:             port,
		ServerHost:             host,
		NasdaqBaseURL:          baseURL,
		HTTPTimeout:            timeout,
		TickerConcurrency:      tickerConcurrency,
		TicksTickerConcurrency: ticksTickerConcurrency,
		RequestConcurrency:     requestConcurrency,
		RequestDelay:           requestDelay,
		LogLevel:               logLevel,
	}, nil
}

// ParseDelay accepts a Go duration ("250ms", "1s") or a bare integer,
// which is read as milliseconds.
func ParseDelay(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	var d time.Duration
	if ms, err := strconv.Atoi(v); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, err
		}
		d = parsed
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", d)
	}
	return d, nil
}

// ParseLogLevel maps a LOG_LEVEL value onto a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SlogLevel returns the configured level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1, got %d", key, v)
	}
	return v, nil
}
