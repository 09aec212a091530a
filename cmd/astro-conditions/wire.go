package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/i474232898/astro-conditions/internal/config"
	"github.com/i474232898/astro-conditions/internal/geocode"
	"github.com/i474232898/astro-conditions/internal/logging"
	"github.com/i474232898/astro-conditions/internal/notify"
	"github.com/i474232898/astro-conditions/internal/scheduler"
	"github.com/i474232898/astro-conditions/internal/store"
	"github.com/i474232898/astro-conditions/internal/weather"
	"github.com/i474232898/astro-conditions/internal/weather/providers"
)

const mqttConnectTimeout = 10 * time.Second

// forecastStore is what every configured store offers.
type forecastStore interface {
	weather.Store
	scheduler.Pruner
}

// deps holds everything the subcommands share.
type deps struct {
	cfg      *config.AppConfig
	logger   *slog.Logger
	store    forecastStore
	service  *weather.Service
	geocoder geocode.Geocoder
	closers  []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// setup loads configuration and builds the service with its collaborators.
// Logs go to logOut. withNotifier connects to MQTT when a broker is configured.
func setup(ctx context.Context, v *viper.Viper, logOut io.Writer, withNotifier bool) (*deps, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logOut, cfg, appName)
	slog.SetDefault(logger)

	d := &deps{cfg: cfg, logger: logger}

	st, err := openStore(ctx, cfg, d)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.store = st

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	provider := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL)

	opts := []weather.Option{weather.WithLogger(logger.With("component", "weather"))}
	if withNotifier && cfg.MQTTBroker != "" {
		pub := notify.NewPublisher(notify.Config{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
		}, logger.With("component", "mqtt"))

		connectCtx, cancel := context.WithTimeout(ctx, mqttConnectTimeout)
		if err := pub.Connect(connectCtx); err != nil {
			// Auto-reconnect keeps trying in the background.
			logger.Warn("mqtt not connected yet", "broker", cfg.MQTTBroker, "error", err)
		}
		cancel()

		d.closers = append(d.closers, pub.Disconnect)
		opts = append(opts, weather.WithNotifier(pub))
	}

	d.service = weather.NewService(st, provider, opts...)

	if cfg.GeocoderAPIKey != "" {
		d.geocoder = geocode.NewGoogle(cfg.GeocoderAPIKey)
	}

	return d, nil
}

func openStore(ctx context.Context, cfg *config.AppConfig, d *deps) (forecastStore, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return store.NewMemoryStore(cfg.StoreMaxAge), nil
	}

	dsn := cfg.StoreDSN
	if cfg.StoreDriver == config.StoreSQLite && dsn == "" {
		var err error
		if dsn, err = store.SQLiteDSN(cfg.SQLitePath); err != nil {
			return nil, err
		}
	}

	db, err := store.Open(ctx, cfg.StoreDriver, dsn)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, func() {
		if err := db.Close(); err != nil {
			d.logger.Error("close db", "error", err)
		}
	})

	sqlStore := store.NewSQLStore(db, cfg.StoreDriver, cfg.StoreMaxAge)
	if err := sqlStore.Migrate(ctx); err != nil {
		return nil, err
	}
	d.logger.Info("forecast store ready", "driver", cfg.StoreDriver)
	return sqlStore, nil
}
