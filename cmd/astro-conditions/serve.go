package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpapi "github.com/i474232898/astro-conditions/internal/api/http"
	"github.com/i474232898/astro-conditions/internal/config"
	"github.com/i474232898/astro-conditions/internal/scheduler"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background refresh of configured locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), v)
		},
	}
	cmd.Flags().String("port", "", "HTTP listen port")
	_ = v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, v *viper.Viper) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := setup(ctx, v, os.Stdout, true)
	if err != nil {
		return err
	}
	defer d.Close()
	logger := d.logger

	logger.Info("starting",
		"env", d.cfg.AppEnv,
		"log_level", d.cfg.LogLevel.String(),
		"store", d.cfg.StoreDriver,
		"locations", len(d.cfg.Locations),
	)

	// Scheduler that periodically refreshes configured locations.
	sched := scheduler.New(d.cfg.Locations, d.cfg.FetchInterval, d.service, d.store, logger)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := httpapi.NewApp(appName, os.Stdout)
	httpapi.RegisterRoutes(app, d.service, d.geocoder)

	// Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + d.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	return nil
}
