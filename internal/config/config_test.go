package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://overpass-api.de/api/interpreter", cfg.OverpassURL)
	assert.Equal(t, 25*time.Second, cfg.OverpassTimeout)
	assert.Equal(t, SourceGeoIP, cfg.LocationSource)
	assert.Equal(t, "GeoLite2-City.mmdb", cfg.GeoIPDBPath)
	assert.Empty(t, cfg.GeoIPAddr)
	assert.Equal(t, "https://api.ipify.org", cfg.PublicIPURL)
	assert.True(t, cfg.LocationPrompt)
	assert.Zero(t, cfg.LocationWait)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "restroom-lookups", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("OVERPASS_URL", "http://localhost:12345/api/interpreter")
	t.Setenv("OVERPASS_TIMEOUT", "5s")
	t.Setenv("LOCATION_SOURCE", "STATIC")
	t.Setenv("LOCATION_LAT", "-33.8688")
	t.Setenv("LOCATION_LON", "151.2093")
	t.Setenv("LOCATION_PROMPT", "false")
	t.Setenv("LOCATION_WAIT", "15s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "lookups")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:12345/api/interpreter", cfg.OverpassURL)
	assert.Equal(t, 5*time.Second, cfg.OverpassTimeout)
	assert.Equal(t, SourceStatic, cfg.LocationSource)
	assert.InDelta(t, -33.8688, cfg.StaticLat, 1e-9)
	assert.InDelta(t, 151.2093, cfg.StaticLon, 1e-9)
	assert.False(t, cfg.LocationPrompt)
	assert.Equal(t, 15*time.Second, cfg.LocationWait)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "lookups", cfg.KafkaTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidOverpassTimeout(t *testing.T) {
	t.Setenv("OVERPASS_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OVERPASS_TIMEOUT")
}

func TestLoad_InvalidLocationWait(t *testing.T) {
	t.Setenv("LOCATION_WAIT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCATION_WAIT")
}

func TestLoad_UnknownLocationSource(t *testing.T) {
	t.Setenv("LOCATION_SOURCE", "gps")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCATION_SOURCE")
}

func TestLoad_StaticRequiresPosition(t *testing.T) {
	t.Setenv("LOCATION_SOURCE", "static")
	t.Setenv("LOCATION_LAT", "12.34")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCATION_LON")
}

func TestLoad_StaticLatitudeOutOfRange(t *testing.T) {
	t.Setenv("LOCATION_SOURCE", "static")
	t.Setenv("LOCATION_LAT", "91")
	t.Setenv("LOCATION_LON", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCATION_LAT")
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_ENABLED")
}

func TestLoad_NoneSource(t *testing.T) {
	t.Setenv("LOCATION_SOURCE", "none")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceNone, cfg.LocationSource)
}
