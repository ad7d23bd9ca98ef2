package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/nasdaq-finance/internal/application"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/config"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/marketdata/nasdaq"
	httpHandler "github.com/jmanzanog/nasdaq-finance/internal/interfaces/http"
	"github.com/joho/godotenv"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// createQuoteService wires the Nasdaq client into the batch service
func createQuoteService(cfg *config.Config) (*application.QuoteService, error) {
	client := nasdaq.NewClientWithHTTPClient(
		cfg.NasdaqBaseURL,
		&http.Client{Timeout: cfg.HTTPTimeout},
		nasdaq.Config{
			RequestConcurrency: cfg.RequestConcurrency,
			RequestDelay:       cfg.RequestDelay,
		},
	)

	return application.NewQuoteService(client, application.QuoteConfig{
		TickerConcurrency:      cfg.TickerConcurrency,
		TicksTickerConcurrency: cfg.TicksTickerConcurrency,
	})
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, quoteService httpHandler.QuoteService) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	handler := httpHandler.NewHandler(quoteService)
	httpHandler.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

// App wraps the application components for easier testing
type App struct {
	Server        *http.Server
	CancelContext context.CancelFunc
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	a.CancelContext()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	return nil
}

// run contains the main application logic without os.Exit calls
func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		setupLogger(slog.LevelInfo)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.SlogLevel())
	if envErr != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	quoteService, err := createQuoteService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create quote service: %w", err)
	}
	slog.Info("Using Nasdaq data host",
		"base_url", cfg.NasdaqBaseURL,
		"request_concurrency", cfg.RequestConcurrency,
		"request_delay", cfg.RequestDelay)

	// Server-wide context: in-flight page walks are cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := buildServer(cfg, quoteService)
	server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	app := &App{
		Server:        server,
		CancelContext: cancel,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
