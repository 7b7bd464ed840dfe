// Command airframe generates parametric fuselage geometry and reports its
// derived quantities.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chazu/airframe/pkg/fuselage"
	"github.com/chazu/airframe/pkg/logging"
	"github.com/chazu/airframe/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	tracing   bool

	// set up by the root command before any subcommand runs
	log       logging.Logger
	collector *observability.Collector
	app       *App
	shutdown  func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "airframe",
	Short: "Parametric aircraft fuselage geometry",
	Long: `Generate the outline, cross-sections and derived quantities of a
transport-aircraft fuselage from a small set of parameters.

A fuselage comes either from the built-in reference aircraft
(--aircraft) or from a fuselage script (--script):

  (fuselage :id "stretch" :aircraft :atr72 :length 30.0)
  (adjust_station :mid-nose :a 0.3 :rho-upper 0.4 :rho-lower 0.4)`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL or info")
	f.StringVar(&logFormat, "log-format", "", "log format (json, text); defaults to $LOG_FORMAT or json")
	f.BoolVar(&tracing, "trace", false, "print OpenTelemetry spans to stderr")
}

func setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg := logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	}
	if logLevel != "" {
		cfg.Level = logLevel
	}
	if logFormat != "" {
		cfg.Format = logFormat
	}
	log = logging.New(cfg)

	tcfg := observability.TracingConfigFromEnv()
	if tracing {
		tcfg.Enabled = true
	}
	tp, stop, err := observability.InitTracing(ctx, tcfg, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	shutdown = stop

	collector, err = observability.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app = NewApp(log, collector, fuselage.WithTracerProvider(tp))
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	observability.ShutdownWithTimeout(context.Background(), shutdown, log)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
