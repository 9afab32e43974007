// Command snapshot runs a single refresh cycle and writes the rendered frame
// to a PNG file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"weather-panel/cache"
	"weather-panel/config"
	"weather-panel/datasource"
	"weather-panel/display"
	"weather-panel/driver"
	"weather-panel/errorsink"
	"weather-panel/fetcher"
	"weather-panel/logging"
	"weather-panel/models"
	"weather-panel/reconcile"

	"github.com/joho/godotenv"
)

func main() {
	out := flag.String("o", "frame.png", "Output PNG file")
	units := flag.String("units", "", "Override UNITS (imperial or metric)")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg, "dev", "weather-panel-snapshot"))
	if envErr != nil {
		slog.Warn("no .env file loaded", "error", envErr)
	}

	if *units != "" {
		u, err := models.ParseUnitSystem(*units)
		if err != nil {
			slog.Error("invalid units flag", "error", err)
			os.Exit(2)
		}
		cfg.Units = u
	}

	provider, err := datasource.NewProvider(cfg.Provider, cfg.APIKey, cfg.ProviderBaseURL, cfg.RequestTimeout)
	if err != nil {
		slog.Error("provider setup failed", "error", err)
		os.Exit(1)
	}

	f := fetcher.New(provider, errorsink.NewFileSink(cfg.ErrorLogPath), cfg.City, cfg.RequestTimeout)
	panel := display.NewPanel(cfg.Units, cache.NewHTTPIconSource(cfg.RequestTimeout), *out)
	d := driver.New(f, reconcile.New(cfg.Language), panel, cfg.WakeInterval, 0)

	state := d.Cycle(context.Background(), d.Start())
	if state.Surface != nil {
		state.Surface.Close()
	}

	if _, ok := panel.Frame(); !ok {
		slog.Error("no frame rendered; see the error log", "errorLog", cfg.ErrorLogPath)
		os.Exit(1)
	}
	slog.Info("frame written", "path", *out, "mode", state.Mode, "city", state.View.City)
}
