package overpass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/observability"
)

const userAgent = "restroom-finder/1.0"

// Client implements domain.POISource using the Overpass API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Overpass client for the interpreter endpoint at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Nearby issues one GET for the fixed toilet query around at. No retries.
func (c *Client) Nearby(ctx context.Context, at domain.Coordinates) (domain.POIResponse, error) {
	params := url.Values{"data": {BuildQuery(at)}}
	fullURL := c.baseURL + "?" + params.Encode()

	start := time.Now()
	resp, outcome, err := c.doRequest(ctx, fullURL)
	c.metrics.OverpassDuration.Observe(time.Since(start).Seconds())
	c.metrics.OverpassRequests.WithLabelValues(outcome).Inc()
	if err != nil {
		c.logger.Warn("overpass query failed", "outcome", outcome, "lat", at.Lat, "lon", at.Lon, "error", err)
		return domain.POIResponse{}, err
	}

	c.logger.Debug("overpass query succeeded", "elements", len(resp.POIs), "generator", resp.Attribution.Generator)
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.POIResponse, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.POIResponse{}, "transport", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.POIResponse{}, "transport", fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.POIResponse{}, "status", fmt.Errorf("overpass API error: status %d: %s", resp.StatusCode, body)
	}

	result, err := Decode(resp.Body)
	if err != nil {
		if !errors.Is(err, ErrSchema) && ctx.Err() != nil {
			return domain.POIResponse{}, "transport", fmt.Errorf("read response: %w", err)
		}
		return domain.POIResponse{}, "decode", err
	}
	return result, nil
}
