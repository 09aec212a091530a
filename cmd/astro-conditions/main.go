package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/i474232898/astro-conditions/internal/config"
)

const appName = "astro-conditions"

func main() {
	config.LoadDotEnv()

	v := viper.New()
	root := newRootCmd(v)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Astronomy viewing conditions service",
		Long:          `astro-conditions rates clouds, seeing, wind and humidity for stargazing from an hourly Open-Meteo forecast.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("app-env", "", "application context (dev|prod)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("store-driver", "", "forecast store (memory|sqlite3|postgres)")
	_ = v.BindPFlag(config.KeyAppEnv, root.PersistentFlags().Lookup("app-env"))
	_ = v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyStoreDriver, root.PersistentFlags().Lookup("store-driver"))

	root.AddCommand(newServeCmd(v), newReportCmd(v))
	return root
}
