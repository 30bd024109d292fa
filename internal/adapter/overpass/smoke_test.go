//go:build overpass

package overpass

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the public Overpass API.
// Run with: go test -tags=overpass ./internal/adapter/overpass/ -v -count=1

func TestSmoke_NearbyCentralLondon(t *testing.T) {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    "https://overpass-api.de/api/interpreter",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Trafalgar Square
	at := domain.Coordinates{Lat: 51.5080, Lon: -0.1281}
	resp, err := c.Nearby(context.Background(), at)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.POIs)
	assert.NotEmpty(t, resp.Attribution.Generator)
	for _, p := range resp.POIs {
		assert.Equal(t, "toilets", p.Tag("amenity"))
		assert.LessOrEqual(t, at.DistanceTo(p.Coordinates()), float64(RadiusMeters)+50)
	}
}
