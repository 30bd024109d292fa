// Command finder lists public restrooms near the current position.
//
// Usage:
//
//	go run ./cmd/finder                 # one lookup, table on stdout
//	go run ./cmd/finder -format json    # one lookup, JSON on stdout
//	go run ./cmd/finder -serve          # web page on HTTP_ADDR
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/restroom-finder/internal/adapter/device"
	httpadapter "github.com/couchcryptid/restroom-finder/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/restroom-finder/internal/adapter/kafka"
	"github.com/couchcryptid/restroom-finder/internal/adapter/overpass"
	"github.com/couchcryptid/restroom-finder/internal/config"
	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/observability"
	"github.com/couchcryptid/restroom-finder/internal/pipeline"
	"github.com/couchcryptid/restroom-finder/internal/render"
)

func main() {
	os.Exit(run())
}

func run() int {
	serve := flag.Bool("serve", false, "serve the lookup page over HTTP instead of running one lookup")
	format := flag.String("format", "text", "one-shot output format: text or json")
	flag.Parse()

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// The consent prompt needs a terminal; serve mode never prompts.
	geolocator, closeDevice := newGeolocator(cfg, !*serve, logger)
	defer closeDevice()

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("lookup publishing enabled", "topic", cfg.KafkaTopic)
	}

	client := overpass.NewClient(cfg.OverpassURL, cfg.OverpassTimeout, metrics, logger)
	finder := pipeline.New(geolocator, client, publisher, clockwork.NewRealClock(), logger, metrics)

	if *serve {
		runServer(cfg, finder, logger)
		return 0
	}
	if !runOnce(cfg, finder, *format, os.Stdout, logger) {
		return 1
	}
	return 0
}

// newGeolocator picks the device capability. A nil geolocator is valid and
// makes every lookup fail as unsupported.
func newGeolocator(cfg *config.Config, interactive bool, logger *slog.Logger) (domain.Geolocator, func()) {
	var geolocator domain.Geolocator
	closeFn := func() {}

	switch cfg.LocationSource {
	case config.SourceStatic:
		geolocator = device.NewStatic(cfg.StaticLat, cfg.StaticLon)
		logger.Info("using static position", "lat", cfg.StaticLat, "lon", cfg.StaticLon)
	case config.SourceGeoIP:
		g, err := device.NewGeoIP(device.GeoIPConfig{
			DBPath:      cfg.GeoIPDBPath,
			Addr:        cfg.GeoIPAddr,
			PublicIPURL: cfg.PublicIPURL,
			Timeout:     cfg.OverpassTimeout,
		}, logger)
		if err != nil {
			logger.Warn("geoip location unavailable", "error", err)
			return nil, closeFn
		}
		geolocator = g
		closeFn = func() { _ = g.Close() }
		logger.Info("using geoip position", "db", cfg.GeoIPDBPath)
		if interactive && cfg.LocationPrompt {
			geolocator = device.NewConsent(g, os.Stdin, os.Stderr)
		}
	default:
		logger.Info("location disabled")
	}
	return geolocator, closeFn
}

func runOnce(cfg *config.Config, finder *pipeline.Finder, format string, out io.Writer, logger *slog.Logger) bool {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// LOCATION_WAIT bounds the whole lookup from the caller's side.
	if cfg.LocationWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LocationWait)
		defer cancel()
	}

	result := finder.FetchNearby(ctx)

	var err error
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(domain.NewLookupRecord(result))
	} else {
		err = render.Text(out, result)
	}
	if err != nil {
		logger.Error("write output failed", "error", err)
		return false
	}
	return result.Ready()
}

func runServer(cfg *config.Config, finder *pipeline.Finder, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, finder, finder, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
