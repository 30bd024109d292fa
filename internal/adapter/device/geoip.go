package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

// cityReader is the subset of *geoip2.Reader used here.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
}

// GeoIP approximates the device position from its public IP address using a
// MaxMind City database. Callbacks run on a separate goroutine.
type GeoIP struct {
	db          cityReader
	closer      io.Closer
	fixedIP     net.IP
	publicIPURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

// GeoIPConfig configures NewGeoIP.
type GeoIPConfig struct {
	DBPath      string
	Addr        string // optional fixed address to look up
	PublicIPURL string
	Timeout     time.Duration
}

// NewGeoIP opens the database. The caller owns Close.
func NewGeoIP(cfg GeoIPConfig, logger *slog.Logger) (*GeoIP, error) {
	var fixed net.IP
	if cfg.Addr != "" {
		if fixed = net.ParseIP(cfg.Addr); fixed == nil {
			return nil, fmt.Errorf("invalid GeoIP address %q", cfg.Addr)
		}
	}
	db, err := geoip2.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &GeoIP{
		db:          db,
		closer:      db,
		fixedIP:     fixed,
		publicIPURL: cfg.PublicIPURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}, nil
}

// Close releases the database.
func (g *GeoIP) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

func (g *GeoIP) RequestPosition(onSuccess func(domain.Coordinates), onFailure func(domain.DeviceError)) {
	go func() {
		c, derr := g.locate()
		if derr != nil {
			onFailure(*derr)
			return
		}
		onSuccess(c)
	}()
}

func (g *GeoIP) locate() (domain.Coordinates, *domain.DeviceError) {
	ip := g.fixedIP
	if ip == nil {
		var err error
		if ip, err = g.publicIP(); err != nil {
			g.logger.Warn("public IP discovery failed", "error", err)
			return domain.Coordinates{}, deviceError(err)
		}
	}

	city, err := g.db.City(ip)
	if err != nil {
		return domain.Coordinates{}, &domain.DeviceError{Code: domain.DevicePositionUnavailable, Message: err.Error()}
	}
	loc := city.Location
	// MaxMind leaves coordinates zero and the radius unset for unknown networks.
	if loc.Latitude == 0 && loc.Longitude == 0 && loc.AccuracyRadius == 0 {
		return domain.Coordinates{}, &domain.DeviceError{
			Code:    domain.DevicePositionUnavailable,
			Message: fmt.Sprintf("no location for %s", ip),
		}
	}
	g.logger.Debug("geoip position", "ip", ip.String(), "accuracy_km", loc.AccuracyRadius)
	return domain.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

func (g *GeoIP) publicIP() (net.IP, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, g.publicIPURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("public ip request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("public ip service: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return nil, fmt.Errorf("read public ip: %w", err)
	}
	ip := net.ParseIP(strings.TrimSpace(string(body)))
	if ip == nil {
		return nil, fmt.Errorf("public ip service returned %q", strings.TrimSpace(string(body)))
	}
	return ip, nil
}

func deviceError(err error) *domain.DeviceError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.DeviceError{Code: domain.DeviceTimeout, Message: err.Error()}
	}
	return &domain.DeviceError{Code: domain.DevicePositionUnavailable, Message: err.Error()}
}
