package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/syntaxstudio/gateway/internal/judge0"
)

const (
	defaultListenAddr   = ":8080"
	defaultDBPath       = "gateway.db"
	defaultPollAttempts = judge0.DefaultMaxPollAttempts
	defaultPollInterval = judge0.DefaultPollInterval

	envListenAddr      = "GATEWAY_LISTEN_ADDR"
	envDBPath          = "GATEWAY_DB_PATH"
	envLogLevel        = "GATEWAY_LOG_LEVEL"
	envLogFormat       = "GATEWAY_LOG_FORMAT"
	envRapidAPIKey     = "GATEWAY_RAPIDAPI_KEY"
	envCEToken         = "GATEWAY_CE_TOKEN"
	envEndpointsFile   = "GATEWAY_ENDPOINTS_FILE"
	envPollMaxAttempts = "GATEWAY_POLL_MAX_ATTEMPTS"
	envPollInterval    = "GATEWAY_POLL_INTERVAL"
)

// LogFormat selects the slog handler used by NewLogger.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// Config holds application configuration loaded from environment variables
// and an optional TOML endpoints file.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level
	LogFormat  LogFormat

	Credentials judge0.Credentials
	Endpoints   []judge0.Endpoint

	PollMaxAttempts int
	PollInterval    time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first when
// present; variables already set in the environment win. Endpoints come
// from the TOML file named by GATEWAY_ENDPOINTS_FILE, falling back to
// the public Judge0 hosts.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:      defaultListenAddr,
		DBPath:          defaultDBPath,
		LogLevel:        slog.LevelInfo,
		LogFormat:       LogFormatJSON,
		PollMaxAttempts: defaultPollAttempts,
		PollInterval:    defaultPollInterval,
	}

	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv(envLogFormat); v != "" {
		format, err := parseLogFormat(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogFormat = format
	}

	cfg.Credentials = judge0.Credentials{
		RapidAPIKey: os.Getenv(envRapidAPIKey),
		CEToken:     os.Getenv(envCEToken),
	}

	if v := os.Getenv(envPollMaxAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("%s: expected a positive integer, got %q", envPollMaxAttempts, v)
		}
		cfg.PollMaxAttempts = n
	}
	if v := os.Getenv(envPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%s: expected a positive duration, got %q", envPollInterval, v)
		}
		cfg.PollInterval = d
	}

	if path := os.Getenv(envEndpointsFile); path != "" {
		eps, err := LoadEndpointsFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg.Endpoints = eps
	} else {
		cfg.Endpoints = DefaultEndpoints()
	}

	return cfg, nil
}

// DefaultEndpoints returns the built-in endpoint list: the RapidAPI
// Judge0 host first, the community edition host as fallback.
func DefaultEndpoints() []judge0.Endpoint {
	return []judge0.Endpoint{
		{
			URL:      "https://judge0-ce.p.rapidapi.com",
			Host:     "judge0-ce.p.rapidapi.com",
			Type:     judge0.TypeRapidAPI,
			Priority: 1,
		},
		{
			URL:      "https://ce.judge0.com",
			Host:     "ce.judge0.com",
			Type:     judge0.TypeCE,
			Priority: 2,
		},
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseLogFormat(s string) (LogFormat, error) {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON, nil
	case "text":
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("%s: expected json or text, got %q", envLogFormat, s)
	}
}

// NewLogger creates a structured logger writing to w at the configured
// level. The json format uses the stdlib JSON handler, text uses tint.
func NewLogger(w io.Writer, level slog.Level, format LogFormat) *slog.Logger {
	if format == LogFormatText {
		return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
