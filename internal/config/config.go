package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/astro-conditions/internal/weather"
)

// Configuration keys. Each is read from the upper-cased environment variable
// of the same name (e.g. FETCH_INTERVAL) or from a bound command-line flag.
const (
	KeyAppEnv         = "app_env"
	KeyLogLevel       = "log_level"
	KeyPort           = "port"
	KeyHTTPTimeout    = "http_timeout"
	KeyFetchInterval  = "fetch_interval"
	KeyLocations      = "locations"
	KeyOpenMeteoURL   = "openmeteo_base_url"
	KeyStoreDriver    = "store_driver"
	KeyStoreDSN       = "store_dsn"
	KeySQLitePath     = "sqlite_path"
	KeyStoreMaxAge    = "store_max_age"
	KeyGeocoderAPIKey = "geocoder_api_key"
	KeyMQTTBroker     = "mqtt_broker"
	KeyMQTTTopic      = "mqtt_topic"
	KeyMQTTClientID   = "mqtt_client_id"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite3"
	StorePostgres = "postgres"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level
	Port     string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// FetchInterval controls how often configured locations are refreshed.
	FetchInterval time.Duration

	// Locations refreshed in the background.
	Locations []weather.Location

	OpenMeteoBaseURL string

	StoreDriver string
	StoreDSN    string
	SQLitePath  string
	StoreMaxAge time.Duration // 0 = forecasts never expire

	// Optional collaborators; empty disables them.
	GeocoderAPIKey string
	MQTTBroker     string
	MQTTTopic      string
	MQTTClientID   string
}

// IsDev reports whether the application runs in the development environment.
func (c AppConfig) IsDev() bool {
	return c.AppEnv == "dev"
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppEnv, "dev")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyHTTPTimeout, "10s")
	v.SetDefault(KeyFetchInterval, "30m")
	v.SetDefault(KeyLocations, "")
	v.SetDefault(KeyOpenMeteoURL, "https://api.open-meteo.com/v1/forecast")
	v.SetDefault(KeyStoreDriver, StoreMemory)
	v.SetDefault(KeyStoreDSN, "")
	v.SetDefault(KeySQLitePath, "data/astro.db")
	v.SetDefault(KeyStoreMaxAge, "24h")
	v.SetDefault(KeyGeocoderAPIKey, "")
	v.SetDefault(KeyMQTTBroker, "")
	v.SetDefault(KeyMQTTTopic, "astro/conditions")
	v.SetDefault(KeyMQTTClientID, "astro-conditions")
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}

// Load reads configuration from v with sensible defaults.
func Load(v *viper.Viper) (*AppConfig, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &AppConfig{}

	cfg.AppEnv = strings.TrimSpace(v.GetString(KeyAppEnv))
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	cfg.Port = strings.TrimSpace(v.GetString(KeyPort))

	if cfg.HTTPTimeout, err = parseDuration(v, KeyHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = parseDuration(v, KeyFetchInterval); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = parseDuration(v, KeyStoreMaxAge); err != nil {
		return nil, err
	}

	locs, err := ParseLocations(v.GetString(KeyLocations))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	cfg.OpenMeteoBaseURL = strings.TrimSpace(v.GetString(KeyOpenMeteoURL))

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreDriver)))
	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (allowed: memory, sqlite3, postgres)", cfg.StoreDriver)
	}
	cfg.StoreDSN = strings.TrimSpace(v.GetString(KeyStoreDSN))
	cfg.SQLitePath = strings.TrimSpace(v.GetString(KeySQLitePath))
	if cfg.StoreDriver == StorePostgres && cfg.StoreDSN == "" {
		return nil, fmt.Errorf("STORE_DSN is required for the postgres store")
	}

	cfg.GeocoderAPIKey = strings.TrimSpace(v.GetString(KeyGeocoderAPIKey))
	cfg.MQTTBroker = strings.TrimSpace(v.GetString(KeyMQTTBroker))
	cfg.MQTTTopic = strings.TrimSpace(v.GetString(KeyMQTTTopic))
	cfg.MQTTClientID = strings.TrimSpace(v.GetString(KeyMQTTClientID))

	return cfg, nil
}

// ParseLocations parses "name:lat:lon" entries separated by ';'. The name may
// be empty.
func ParseLocations(s string) ([]weather.Location, error) {
	var locs []weather.Location
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid LOCATIONS entry %q (want name:lat:lon)", entry)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("invalid latitude in LOCATIONS entry %q", entry)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("invalid longitude in LOCATIONS entry %q", entry)
		}
		locs = append(locs, weather.Location{
			Name: strings.TrimSpace(parts[0]),
			Lat:  lat,
			Lon:  lon,
		})
	}
	return locs, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(key), raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", strings.ToUpper(key), raw)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
