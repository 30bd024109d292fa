package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Location sources.
const (
	SourceGeoIP  = "geoip"
	SourceStatic = "static"
	SourceNone   = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Overpass query service.
	OverpassURL     string
	OverpassTimeout time.Duration

	// Device capability.
	LocationSource string
	StaticLat      float64
	StaticLon      float64
	GeoIPDBPath    string
	GeoIPAddr      string
	PublicIPURL    string
	LocationPrompt bool
	LocationWait   time.Duration // 0 waits indefinitely

	// Kafka result publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	overpassTimeout, err := parsePositiveDuration("OVERPASS_TIMEOUT", "25s")
	if err != nil {
		return nil, err
	}

	locationWait, err := parseLocationWait()
	if err != nil {
		return nil, err
	}

	locationPrompt, err := parseBool("LOCATION_PROMPT", true)
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OverpassURL:     sharedcfg.EnvOrDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		OverpassTimeout: overpassTimeout,

		LocationSource: strings.ToLower(sharedcfg.EnvOrDefault("LOCATION_SOURCE", SourceGeoIP)),
		GeoIPDBPath:    sharedcfg.EnvOrDefault("GEOIP_DB_PATH", "GeoLite2-City.mmdb"),
		GeoIPAddr:      os.Getenv("GEOIP_ADDR"),
		PublicIPURL:    sharedcfg.EnvOrDefault("PUBLIC_IP_URL", "https://api.ipify.org"),
		LocationPrompt: locationPrompt,
		LocationWait:   locationWait,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "restroom-lookups"),
	}

	switch cfg.LocationSource {
	case SourceGeoIP, SourceNone:
	case SourceStatic:
		if cfg.StaticLat, cfg.StaticLon, err = parseStaticPosition(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid LOCATION_SOURCE %q: want geoip, static, or none", cfg.LocationSource)
	}

	if cfg.OverpassURL == "" {
		return nil, errors.New("OVERPASS_URL is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseLocationWait() (time.Duration, error) {
	s := os.Getenv("LOCATION_WAIT")
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.New("invalid LOCATION_WAIT")
	}
	return d, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseStaticPosition() (lat, lon float64, err error) {
	lat, err = parseDegrees("LOCATION_LAT", 90)
	if err != nil {
		return 0, 0, err
	}
	lon, err = parseDegrees("LOCATION_LON", 180)
	if err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func parseDegrees(key string, limit float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, fmt.Errorf("%s is required when LOCATION_SOURCE is static", key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -limit || v > limit {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}
