package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/restroom-finder/internal/adapter/device"
	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/render"
)

// NearbyFinder runs lookups for the /nearby route.
type NearbyFinder interface {
	FetchNearby(ctx context.Context) domain.QueryResult
	FetchNearbyWith(ctx context.Context, dev domain.Geolocator) domain.QueryResult
}

// Server exposes the lookup page plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	finder     NearbyFinder
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /nearby, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, finder NearbyFinder, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // lookups wait on the Overpass API
			IdleTimeout:  60 * time.Second,
		},
		finder: finder,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleLoader)
	mux.HandleFunc("GET /nearby", s.handleNearby)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleLoader(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, render.Loader)
}

// handleNearby runs one lookup per request. Coordinates or an error code
// reported by the browser take the place of the server's own geolocator.
func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	dev, useBrowser, err := browserDevice(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result domain.QueryResult
	if useBrowser {
		result = s.finder.FetchNearbyWith(r.Context(), dev)
	} else {
		result = s.finder.FetchNearby(r.Context())
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, jsonStatus(result), domain.NewLookupRecord(result))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, result); err != nil {
		s.logger.Error("render page failed", "lookup_id", result.LookupID, "error", err)
	}
}

// browserDevice builds a per-request geolocator from query parameters.
// It reports false when the request carries no browser position data.
func browserDevice(r *http.Request) (domain.Geolocator, bool, error) {
	q := r.URL.Query()

	if code := q.Get("error"); code != "" {
		if code == "unsupported" {
			return nil, true, nil
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			return nil, false, fmt.Errorf("invalid error code %q", code)
		}
		return device.NewReported(domain.DeviceErrorCode(n), "reported by browser"), true, nil
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" && lonStr == "" {
		return nil, false, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, false, fmt.Errorf("invalid lat %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, false, fmt.Errorf("invalid lon %q", lonStr)
	}
	return device.NewStatic(lat, lon), true, nil
}

func jsonStatus(r domain.QueryResult) int {
	switch {
	case r.Ready():
		return http.StatusOK
	case r.Err.Kind == domain.KindFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
