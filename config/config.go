package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"weather-panel/models"

	"golang.org/x/text/language"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// Provider selects the weather backend: openweathermap or weatherapi
	Provider        string
	City            string
	APIKey          string
	ProviderBaseURL string
	RequestTimeout  time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int

	// Units is the initial position of the operator's unit toggle
	Units    models.UnitSystem
	Language language.Tag

	ErrorLogPath string

	// WakeInterval bounds each wait of the driver loop. MinFetchInterval is the
	// independent minimum spacing between fetches.
	WakeInterval     time.Duration
	MinFetchInterval time.Duration

	// HTTPAddr is empty when HTTP_ADDR=off
	HTTPAddr     string
	FramePath    string
	IconCacheTTL time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := envOr("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	provider := strings.ToLower(envOr("WEATHER_PROVIDER", "openweathermap"))
	switch provider {
	case "openweathermap", "weatherapi":
	default:
		return Config{}, fmt.Errorf("invalid WEATHER_PROVIDER %q (allowed: openweathermap, weatherapi)", provider)
	}

	units, err := models.ParseUnitSystem(envOr("UNITS", "imperial"))
	if err != nil {
		return Config{}, fmt.Errorf("UNITS: %w", err)
	}

	langStr := envOr("LANGUAGE", "en")
	lang, err := language.Parse(langStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LANGUAGE %q: %w", langStr, err)
	}

	requestTimeout, err := durationEnv("REQUEST_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	wakeInterval, err := durationEnv("WAKE_INTERVAL", "5s")
	if err != nil {
		return Config{}, err
	}
	minFetchInterval, err := durationEnv("MIN_FETCH_INTERVAL", "1m")
	if err != nil {
		return Config{}, err
	}
	iconCacheTTL, err := durationEnv("ICON_CACHE_TTL", "1h")
	if err != nil {
		return Config{}, err
	}
	if wakeInterval <= 0 {
		return Config{}, fmt.Errorf("invalid WAKE_INTERVAL %s (must be > 0)", wakeInterval)
	}
	if minFetchInterval < 0 {
		return Config{}, fmt.Errorf("invalid MIN_FETCH_INTERVAL %s (must be >= 0)", minFetchInterval)
	}

	rpsStr := envOr("RATE_LIMIT_RPS", "1")
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil || rps <= 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS %q (expected positive number)", rpsStr)
	}
	burstStr := envOr("RATE_LIMIT_BURST", "2")
	burst, err := strconv.Atoi(burstStr)
	if err != nil || burst < 1 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST %q (expected integer >= 1)", burstStr)
	}

	httpAddr := envOr("HTTP_ADDR", ":8080")
	if httpAddr == "off" {
		httpAddr = ""
	}

	return Config{
		AppEnv:           appEnv,
		LogLevel:         level,
		Provider:         provider,
		City:             strings.TrimSpace(os.Getenv("CITY")),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		ProviderBaseURL:  strings.TrimSpace(os.Getenv("PROVIDER_BASE_URL")),
		RequestTimeout:   requestTimeout,
		RateLimitRPS:     rps,
		RateLimitBurst:   burst,
		Units:            units,
		Language:         lang,
		ErrorLogPath:     envOr("ERROR_LOG", "log.txt"),
		WakeInterval:     wakeInterval,
		MinFetchInterval: minFetchInterval,
		HTTPAddr:         httpAddr,
		FramePath:        strings.TrimSpace(os.Getenv("FRAME_PATH")),
		IconCacheTTL:     iconCacheTTL,
	}, nil
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationEnv(key, fallback string) (time.Duration, error) {
	s := envOr(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
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
