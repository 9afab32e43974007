package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-panel/api"
	"weather-panel/cache"
	"weather-panel/config"
	"weather-panel/datasource"
	"weather-panel/display"
	"weather-panel/driver"
	"weather-panel/errorsink"
	"weather-panel/fetcher"
	"weather-panel/logging"
	"weather-panel/reconcile"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg, version, "weather-panel")
	slog.SetDefault(logger)
	if envErr != nil {
		slog.Warn("no .env file loaded", "error", envErr)
	}

	provider, err := datasource.NewProvider(cfg.Provider, cfg.APIKey, cfg.ProviderBaseURL, cfg.RequestTimeout)
	if err != nil {
		slog.Error("provider setup failed", "error", err)
		os.Exit(1)
	}
	if *enableRateLimiting {
		provider = datasource.NewRateLimitedProvider(provider, cfg.RateLimitRPS, cfg.RateLimitBurst)
		slog.Info("applied rate limiting", "provider", provider.Name(), "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	}

	sink := errorsink.NewFileSink(cfg.ErrorLogPath)
	f := fetcher.New(provider, sink, cfg.City, cfg.RequestTimeout)
	icons := cache.NewCachedIconSource(cache.NewHTTPIconSource(cfg.RequestTimeout), cfg.IconCacheTTL)
	panel := display.NewPanel(cfg.Units, icons, cfg.FramePath)
	d := driver.New(f, reconcile.New(cfg.Language), panel, cfg.WakeInterval, cfg.MinFetchInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var server *api.Server
	if cfg.HTTPAddr != "" {
		server = api.NewServer(panel, cfg.ErrorLogPath, cfg.HTTPAddr)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("API server stopped", "error", err)
				panel.Close()
			}
		}()
	}

	slog.Info("weather panel starting",
		"provider", provider.Name(),
		"city", cfg.City,
		"units", cfg.Units,
		"wake", cfg.WakeInterval,
		"minFetch", cfg.MinFetchInterval,
	)

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("driver stopped", "error", err)
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown", "error", err)
		}
	}

	hits, misses := icons.CacheStats()
	slog.Info("shutdown complete", "iconCacheHits", hits, "iconCacheMisses", misses)
}
