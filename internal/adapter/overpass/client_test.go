package overpass

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/restroom-finder/internal/domain"
	"github.com/couchcryptid/restroom-finder/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	twoElements = `{
  "version": 0.6,
  "generator": "Overpass API 0.7.62.1 084b4234",
  "osm3s": {
    "timestamp_osm_base": "2024-04-26T15:10:00Z",
    "copyright": "The data included in this document is from www.openstreetmap.org. The data is made available under ODbL."
  },
  "elements": [
    {"type": "node", "id": 1, "lat": 12.341, "lon": 56.781, "tags": {"amenity": "toilets"}},
    {"type": "node", "id": 2, "lat": 12.342, "lon": 56.782, "tags": {}}
  ]
}`
)

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		at   domain.Coordinates
		want string
	}{
		{"fixture", domain.Coordinates{Lat: 12.34, Lon: 56.78}, `[out:json];node["amenity"="toilets"](around:2000,12.34,56.78);out;`},
		{"negative", domain.Coordinates{Lat: -33.8688, Lon: -70.6693}, `[out:json];node["amenity"="toilets"](around:2000,-33.8688,-70.6693);out;`},
		{"fractional", domain.Coordinates{Lat: 0.000001, Lon: -0.5}, `[out:json];node["amenity"="toilets"](around:2000,0.000001,-0.5);out;`},
		{"integral", domain.Coordinates{Lat: 0, Lon: 180}, `[out:json];node["amenity"="toilets"](around:2000,0,180);out;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.at))
		})
	}
}

func TestClient_Nearby_QueryParameters(t *testing.T) {
	coords := []domain.Coordinates{
		{Lat: 12.34, Lon: 56.78},
		{Lat: -41.2865, Lon: 174.7762},
		{Lat: 51.5007, Lon: -0.1246},
		{Lat: -0.000123, Lon: -179.9},
	}
	for _, at := range coords {
		t.Run(at.String(), func(t *testing.T) {
			var gotData string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				gotData = r.URL.Query().Get("data")
				w.Header().Set(headerContentType, contentTypeJSON)
				_, _ = io.WriteString(w, `{"elements": []}`)
			}))
			defer srv.Close()

			_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Nearby(context.Background(), at)
			require.NoError(t, err)

			assert.Contains(t, gotData, `node["amenity"="toilets"]`)
			assert.Contains(t, gotData, "(around:2000,"+domain.FormatDegrees(at.Lat)+","+domain.FormatDegrees(at.Lon)+")")
			assert.Equal(t, BuildQuery(at), gotData)
		})
	}
}

func TestClient_Nearby_Success(t *testing.T) {
	srv := serveJSON(t, twoElements)
	metrics := observability.NewMetricsForTesting()

	resp, err := testClient(srv.URL, metrics).Nearby(context.Background(), domain.Coordinates{Lat: 12.34, Lon: 56.78})
	require.NoError(t, err)

	require.Len(t, resp.POIs, 2)
	assert.Equal(t, domain.PointOfInterest{ID: 1, Type: "node", Lat: 12.341, Lon: 56.781, Tags: map[string]string{"amenity": "toilets"}}, resp.POIs[0])
	assert.Equal(t, domain.PointOfInterest{ID: 2, Type: "node", Lat: 12.342, Lon: 56.782, Tags: map[string]string{}}, resp.POIs[1])
	assert.Equal(t, "Overpass API 0.7.62.1 084b4234", resp.Attribution.Generator)
	assert.InDelta(t, 0.6, resp.Attribution.Version, 1e-9)
	assert.Equal(t, "2024-04-26T15:10:00Z", resp.Attribution.TimestampOSMBase)
	assert.Contains(t, resp.Attribution.Copyright, "openstreetmap.org")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.OverpassRequests.WithLabelValues("success")), 0)
}

func TestClient_Nearby_EmptyElements(t *testing.T) {
	srv := serveJSON(t, `{"elements": []}`)

	resp, err := testClient(srv.URL, observability.NewMetricsForTesting()).Nearby(context.Background(), domain.Coordinates{})
	require.NoError(t, err)
	assert.Empty(t, resp.POIs)
	assert.NotNil(t, resp.POIs)
}

func TestClient_Nearby_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing elements", `{"version": 0.6, "generator": "x"}`},
		{"null elements", `{"elements": null}`},
		{"missing id", `{"elements": [{"lat": 1, "lon": 2, "tags": {}}]}`},
		{"missing lat", `{"elements": [{"id": 1, "lon": 2, "tags": {}}]}`},
		{"missing lon", `{"elements": [{"id": 1, "lat": 1, "tags": {}}]}`},
		{"missing tags", `{"elements": [{"id": 1, "lat": 1, "lon": 2}]}`},
		{"second element bad", `{"elements": [{"id": 1, "lat": 1, "lon": 2, "tags": {}}, {"id": 2, "lon": 2, "tags": {}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.body)
			metrics := observability.NewMetricsForTesting()

			resp, err := testClient(srv.URL, metrics).Nearby(context.Background(), domain.Coordinates{})
			require.ErrorIs(t, err, ErrSchema)
			assert.Nil(t, resp.POIs, "no partial result")
			assert.InDelta(t, 1, testutil.ToFloat64(metrics.OverpassRequests.WithLabelValues("decode")), 0)
		})
	}
}

func TestClient_Nearby_WrongTypes(t *testing.T) {
	srv := serveJSON(t, `{"elements": [{"id": "one", "lat": 1, "lon": 2, "tags": {}}]}`)

	resp, err := testClient(srv.URL, observability.NewMetricsForTesting()).Nearby(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.Nil(t, resp.POIs)
}

func TestClient_Nearby_MalformedJSON(t *testing.T) {
	srv := serveJSON(t, `<html>rate limited</html>`)

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Nearby(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Nearby_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate_limited`))
	}))
	defer srv.Close()
	metrics := observability.NewMetricsForTesting()

	_, err := testClient(srv.URL, metrics).Nearby(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.OverpassRequests.WithLabelValues("status")), 0)
}

func TestClient_Nearby_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, observability.NewMetricsForTesting())
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Nearby(context.Background(), domain.Coordinates{})
	require.Error(t, err)
}

func TestClient_Nearby_SingleRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, observability.NewMetricsForTesting()).Nearby(context.Background(), domain.Coordinates{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "no retries")
}
