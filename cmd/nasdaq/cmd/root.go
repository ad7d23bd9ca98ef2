// Package cmd holds the nasdaq CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmanzanog/nasdaq-finance/internal/application"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/config"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/marketdata/nasdaq"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// options collects the persistent flags. Flags left unset fall back to the
// environment.
type options struct {
	envFile            string
	objectize          bool
	logLevel           string
	baseURL            string
	tickerConcurrency  int
	requestConcurrency int
	requestDelay       string

	cfg *config.Config
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd, _ := buildRootCmd()
	return rootCmd
}

func buildRootCmd() (*cobra.Command, *options) {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "nasdaq",
		Short: "Nasdaq quote data on the command line",
		Long: `Nasdaq quote data on the command line.

Commands:
    info      company summary
    price     last sale price
    ticks     full time & sales history
    watch     poll prices on an interval

One ticker prints its bare result; several print a list, or a map keyed by
ticker with --objectize. Output is JSON on stdout, logs go to stderr.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "environment file to load if present")
	flags.BoolVar(&opts.objectize, "objectize", false, "print several tickers as a map keyed by ticker")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.StringVar(&opts.baseURL, "base-url", "", "data host (overrides NASDAQ_BASE_URL)")
	flags.IntVar(&opts.tickerConcurrency, "ticker-concurrency", 0, "tickers fetched at once (overrides TICKER_CONCURRENCY)")
	flags.IntVar(&opts.requestConcurrency, "request-concurrency", 0, "pages fetched at once per section (overrides REQUEST_CONCURRENCY)")
	flags.StringVar(&opts.requestDelay, "request-delay", "", "wait before each page fetch, e.g. 100ms (overrides REQUEST_DELAY)")

	rootCmd.AddCommand(
		newInfoCmd(opts),
		newPriceCmd(opts),
		newTicksCmd(opts),
		newWatchCmd(opts),
	)

	return rootCmd, opts
}

// initConfig loads the env file and environment, then applies any flags the
// user set explicitly.
func (o *options) initConfig(cmd *cobra.Command) error {
	envErr := godotenv.Load(o.envFile)
	if envErr != nil && cmd.Flags().Changed("env-file") {
		return fmt.Errorf("failed to load %s: %w", o.envFile, envErr)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		if _, err := config.ParseLogLevel(o.logLevel); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("base-url") {
		cfg.NasdaqBaseURL = o.baseURL
	}
	if flags.Changed("ticker-concurrency") {
		if o.tickerConcurrency < 1 {
			return fmt.Errorf("invalid --ticker-concurrency: must be at least 1, got %d", o.tickerConcurrency)
		}
		cfg.TickerConcurrency = o.tickerConcurrency
		cfg.TicksTickerConcurrency = o.tickerConcurrency
	}
	if flags.Changed("request-concurrency") {
		if o.requestConcurrency < 1 {
			return fmt.Errorf("invalid --request-concurrency: must be at least 1, got %d", o.requestConcurrency)
		}
		cfg.RequestConcurrency = o.requestConcurrency
	}
	if flags.Changed("request-delay") {
		delay, err := config.ParseDelay(o.requestDelay)
		if err != nil {
			return fmt.Errorf("invalid --request-delay: %w", err)
		}
		cfg.RequestDelay = delay
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if envErr != nil {
		slog.Debug("No env file loaded, using environment variables", "file", o.envFile)
	}

	o.cfg = cfg
	return nil
}

func (o *options) quoteService() (*application.QuoteService, error) {
	client := nasdaq.NewClientWithHTTPClient(
		o.cfg.NasdaqBaseURL,
		&http.Client{Timeout: o.cfg.HTTPTimeout},
		nasdaq.Config{
			RequestConcurrency: o.cfg.RequestConcurrency,
			RequestDelay:       o.cfg.RequestDelay,
		},
	)

	return application.NewQuoteService(client, application.QuoteConfig{
		TickerConcurrency:      o.cfg.TickerConcurrency,
		TicksTickerConcurrency: o.cfg.TicksTickerConcurrency,
	})
}

// printResults writes shaped results as indented JSON. A single ticker that
// failed is reported as an error instead.
func printResults[T any](cmd *cobra.Command, results []application.TickerResult[T], objectize bool) error {
	single := len(results) == 1
	if single {
		if err := application.FirstError(results); err != nil {
			return err
		}
	}
	return writeJSON(cmd, application.Shape(results, single, objectize))
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
