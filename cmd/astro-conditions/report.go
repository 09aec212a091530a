package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/i474232898/astro-conditions/internal/common"
	"github.com/i474232898/astro-conditions/internal/conditions"
	"github.com/i474232898/astro-conditions/internal/weather"
)

type reportOptions struct {
	lat, lon float64
	name     string
	date     string
	hour     int
	units    string
	hours    int
}

func newReportCmd(v *viper.Viper) *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch one location once and print its conditions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report(cmd, v, opts)
		},
	}
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name of the location")
	cmd.Flags().StringVar(&opts.date, "date", "", "start date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&opts.hour, "hour", 0, "hour index within the window (0-167)")
	cmd.Flags().StringVar(&opts.units, "units", string(conditions.UnitsMetric), "display units (metric|imperial)")
	cmd.Flags().IntVar(&opts.hours, "seeing-hours", 24, "number of hourly seeing values to list")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func report(cmd *cobra.Command, v *viper.Viper, opts reportOptions) error {
	units, err := conditions.ParseUnits(opts.units)
	if err != nil {
		return err
	}
	start, err := weather.ParseStartDate(opts.date, time.Now())
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	ctx := cmd.Context()
	d, err := setup(ctx, v, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer d.Close()

	loc := weather.Location{Name: opts.name, Lat: opts.lat, Lon: opts.lon}
	f, err := d.service.Refresh(ctx, weather.Query{Location: loc, StartDate: start})
	if err != nil {
		return err
	}
	view, err := weather.BuildHourView(f, opts.hour, units)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), f, view, opts.hours)
}

func writeReport(out io.Writer, f weather.Forecast, view weather.HourView, seeingHours int) error {
	name := f.Location.Name
	if name == "" {
		name = f.Location.Key()
	}
	fmt.Fprintf(out, "%s  %s  (hour %d)\n\n", name, view.TimeLabel, view.Hour)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tVALUE\tRATING\tCONDITION")
	for _, g := range view.Gauges {
		descriptor := g.Descriptor
		if !g.Known {
			descriptor = conditions.Placeholder
		}
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\n", g.Label, g.DisplayValue, g.DisplayUnit, g.Display, descriptor)
	}
	fmt.Fprintf(tw, "Temperature\t%s\t\t\n", view.Temperature)
	fmt.Fprintf(tw, "Dew point\t%s\t\t\n", view.DewPoint)
	if err := tw.Flush(); err != nil {
		return err
	}

	if view.Sky != nil {
		dark := "no"
		if view.Sky.Dark {
			dark = "yes"
		}
		fmt.Fprintf(out, "\nSun %.1f°  Moon %.1f° (%.0f%% lit)  Dark: %s\n",
			view.Sky.SunAltitude, view.Sky.MoonAltitude, view.Sky.MoonIllumination*100, dark)
	}

	fmt.Fprintln(out, "\nSeeing:")
	n := seeingHours
	if n > f.Hourly.Len() {
		n = f.Hourly.Len()
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		label := conditions.Placeholder
		if t, ok := f.Hourly.TimeAt(i); ok {
			label = t.Format("Mon 15:04")
		}
		value := conditions.Placeholder
		if s := f.Hourly.Value(conditions.Seeing, i); common.Finite(s) {
			value = common.FormatFloat(*s)
		}
		fmt.Fprintf(&b, "  %s  %s\n", label, value)
	}
	_, err := io.WriteString(out, b.String())
	return err
}
