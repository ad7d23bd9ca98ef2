package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/config"
)

func TestSetupLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	logger := setupLogger(slog.LevelWarn)

	if logger == nil {
		t.Fatal("setupLogger returned nil logger")
	}

	if slog.Default() != logger {
		t.Error("setupLogger did not set the logger as default")
	}

	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		ServerHost:             "localhost",
		ServerPort:             "8080",
		NasdaqBaseURL:          baseURL,
		HTTPTimeout:            5 * time.Second,
		TickerConcurrency:      2,
		TicksTickerConcurrency: 1,
		RequestConcurrency:     2,
		RequestDelay:           0,
		LogLevel:               "info",
	}
}

func TestCreateQuoteService(t *testing.T) {
	service, err := createQuoteService(testConfig("http://localhost:1"))
	if err != nil {
		t.Fatalf("createQuoteService failed: %v", err)
	}
	if service == nil {
		t.Fatal("createQuoteService returned nil service")
	}
}

func TestBuildServer(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	service, err := createQuoteService(cfg)
	if err != nil {
		t.Fatalf("createQuoteService failed: %v", err)
	}

	server := buildServer(cfg, service)

	if server == nil {
		t.Fatal("buildServer returned nil server")
	}

	expectedAddr := "localhost:8080"
	if server.Addr != expectedAddr {
		t.Errorf("expected server address %q, got %q", expectedAddr, server.Addr)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status code 200, got %d", w.Code)
	}
}

func TestBuildServer_DifferentPorts(t *testing.T) {
	testCases := []struct {
		name string
		host string
		port string
		want string
	}{
		{
			name: "default localhost",
			host: "localhost",
			port: "8080",
			want: "localhost:8080",
		},
		{
			name: "all interfaces",
			host: "0.0.0.0",
			port: "3000",
			want: "0.0.0.0:3000",
		},
		{
			name: "custom port",
			host: "127.0.0.1",
			port: "9090",
			want: "127.0.0.1:9090",
		},
	}

	service, _ := createQuoteService(testConfig("http://localhost:1"))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig("http://localhost:1")
			cfg.ServerHost = tc.host
			cfg.ServerPort = tc.port

			server := buildServer(cfg, service)

			if server.Addr != tc.want {
				t.Errorf("expected server address %q, got %q", tc.want, server.Addr)
			}
		})
	}
}

// TestEndToEnd serves a price through the full stack against a stub data host.
func TestEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/g00/symbol/AAPL/time-sales" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<div id="qwidget_lastsale">$187.44</div>`))
	}))
	defer upstream.Close()

	cfg := testConfig(upstream.URL)
	service, err := createQuoteService(cfg)
	if err != nil {
		t.Fatalf("createQuoteService failed: %v", err)
	}
	server := buildServer(cfg, service)

	t.Run("known ticker", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/price/AAPL", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if w.Body.String() != "187.44" {
			t.Errorf("expected 187.44, got %s", w.Body.String())
		}
	})

	t.Run("unknown ticker", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/price/ZZZZ", nil)
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", w.Code)
		}
	})
}

func TestApp_Shutdown(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	service, _ := createQuoteService(cfg)

	cancelled := false
	app := &App{
		Server:        buildServer(cfg, service),
		CancelContext: func() { cancelled = true },
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !cancelled {
		t.Error("expected the server context to be cancelled")
	}
}

// TestMain is a special test function that runs before all tests
// We use it to setup global test configuration
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// BenchmarkSetupLogger benchmarks the logger setup
func BenchmarkSetupLogger(b *testing.B) {
	for i := 0; i < b.N; i++ {
		setupLogger(slog.LevelInfo)
	}
}
