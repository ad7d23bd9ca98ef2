package nasdaq

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmanzanog/nasdaq-finance/internal/domain"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/marketdata"
)

const (
	defaultBaseURL = "http://www.nasdaq.com"
	timeSalesPath  = "/g00/symbol/%s/time-sales"
	defaultTimeout = 30 * time.Second
)

// Config tunes how tick history is paged through.
type Config struct {
	RequestConcurrency int           // Max page fetches in flight per section (default: 4)
	RequestDelay       time.Duration // Wait before each page fetch (default: 0)
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		RequestConcurrency: 4,
		RequestDelay:       0,
	}
}

// Client implements marketdata.Provider by scraping the Nasdaq time & sales pages.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        Config
}

// NewClient creates a new Nasdaq client with default settings.
func NewClient(cfg Config) *Client {
	return NewClientWithBaseURL(defaultBaseURL, cfg)
}

// NewClientWithBaseURL creates a new client with a custom base URL (useful for mirrors and tests).
func NewClientWithBaseURL(baseURL string, cfg Config) *Client {
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: defaultTimeout}, cfg)
}

// NewClientWithHTTPClient creates a new client with a custom HTTP client.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, cfg Config) *Client {
	if cfg.RequestConcurrency < 1 {
		cfg.RequestConcurrency = DefaultConfig().RequestConcurrency
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		cfg:        cfg,
	}
}

// SetBaseURL sets the base URL for the site (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// DataURL returns the time & sales page for a ticker, without any query.
func (c *Client) DataURL(ticker string) string {
	return c.baseURL + fmt.Sprintf(timeSalesPath, ticker)
}

// FetchPage issues one GET for the ticker's page with the raw query appended
// ("", "?time=3" or "?time=3&pageno=7") and parses the response as HTML.
func (c *Client) FetchPage(ctx context.Context, ticker, query string) (*goquery.Document, error) {
	reqURL := c.DataURL(ticker) + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{URL: reqURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: reqURL, Err: fmt.Errorf("failed to execute request: %w", err)}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("site returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: reqURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse html: %w", err)}
	}

	return doc, nil
}

// GetInfo reads the company summary from the ticker's page.
func (c *Client) GetInfo(ctx context.Context, ticker string) (*domain.CompanyInfo, error) {
	doc, err := c.FetchPage(ctx, ticker, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load info for %s: %w", ticker, err)
	}

	info := parseInfo(doc)
	return &info, nil
}

// GetPrice reads the last sale price from the ticker's page.
func (c *Client) GetPrice(ctx context.Context, ticker string) (domain.Decimal, error) {
	doc, err := c.FetchPage(ctx, ticker, "")
	if err != nil {
		return domain.Decimal{}, fmt.Errorf("failed to load price for %s: %w", ticker, err)
	}

	return parsePrice(doc), nil
}

// GetTicks walks every section of the ticker's trade history.
func (c *Client) GetTicks(ctx context.Context, ticker string) ([]domain.Tick, error) {
	return newTickRetriever(c, c.cfg).retrieve(ctx, ticker)
}

// Compile-time check that Client implements Provider.
var _ marketdata.Provider = (*Client)(nil)
