package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmanzanog/nasdaq-finance/internal/domain"
	"github.com/jmanzanog/nasdaq-finance/internal/infrastructure/marketdata"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// QuoteConfig bounds how many tickers a batch works on at once.
type QuoteConfig struct {
	TickerConcurrency      int // info and price (default: 4)
	TicksTickerConcurrency int // tick history (default: 1)
}

// DefaultQuoteConfig returns the batch defaults.
func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{
		TickerConcurrency:      4,
		TicksTickerConcurrency: 1,
	}
}

// TickerResult is the outcome for one requested ticker. Exactly one of Value
// and Error is set.
type TickerResult[T any] struct {
	Ticker string `json:"ticker"`
	Value  *T     `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Err returns the failure as an error, or nil.
func (r TickerResult[T]) Err() error {
	if r.Error == "" {
		return nil
	}
	return errors.New(r.Error)
}

type QuoteService struct {
	provider marketdata.Provider
	cfg      QuoteConfig
	calls    singleflight.Group
}

func NewQuoteService(provider marketdata.Provider, cfg QuoteConfig) (*QuoteService, error) {
	if provider == nil {
		return nil, errors.New("market data provider is required")
	}

	defaults := DefaultQuoteConfig()
	if cfg.TickerConcurrency < 1 {
		cfg.TickerConcurrency = defaults.TickerConcurrency
	}
	if cfg.TicksTickerConcurrency < 1 {
		cfg.TicksTickerConcurrency = defaults.TicksTickerConcurrency
	}

	return &QuoteService{
		provider: provider,
		cfg:      cfg,
	}, nil
}

// GetInfo loads the company summary of every ticker.
func (s *QuoteService) GetInfo(ctx context.Context, tickers []string) []TickerResult[domain.CompanyInfo] {
	return dispatch(ctx, s, "info", tickers, s.cfg.TickerConcurrency, func(ctx context.Context, ticker string) (domain.CompanyInfo, error) {
		info, err := s.provider.GetInfo(ctx, ticker)
		if err != nil {
			return domain.CompanyInfo{}, err
		}
		return *info, nil
	})
}

// GetPrice loads the last sale price of every ticker.
func (s *QuoteService) GetPrice(ctx context.Context, tickers []string) []TickerResult[domain.Decimal] {
	return dispatch(ctx, s, "price", tickers, s.cfg.TickerConcurrency, s.provider.GetPrice)
}

// GetTicks loads the full tick history of every ticker.
func (s *QuoteService) GetTicks(ctx context.Context, tickers []string) []TickerResult[[]domain.Tick] {
	return dispatch(ctx, s, "ticks", tickers, s.cfg.TicksTickerConcurrency, s.provider.GetTicks)
}

// dispatch runs fetch for each ticker on a pool of at most limit workers.
// Results keep the input order. A failed ticker only fills its own slot, and
// identical tickers of the same operation in flight share one upstream call.
// The shared call outlives any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func dispatch[T any](ctx context.Context, s *QuoteService, op string, tickers []string, limit int, fetch func(context.Context, string) (T, error)) []TickerResult[T] {
	results := make([]TickerResult[T], len(tickers))
	if len(tickers) == 0 {
		return results
	}

	slog.InfoContext(ctx, "Dispatching batch", "operation", op, "count", len(tickers), "concurrency", limit)

	var g errgroup.Group
	g.SetLimit(limit)

	for i, ticker := range tickers {
		g.Go(func() error {
			results[i] = TickerResult[T]{Ticker: ticker}

			if err := ctx.Err(); err != nil {
				results[i].Error = err.Error()
				return nil
			}

			ch := s.calls.DoChan(op+":"+ticker, func() (any, error) {
				return fetch(context.WithoutCancel(ctx), ticker)
			})

			select {
			case <-ctx.Done():
				slog.WarnContext(ctx, "Ticker abandoned", "operation", op, "ticker", ticker, "error", ctx.Err())
				results[i].Error = ctx.Err().Error()
			case res := <-ch:
				if res.Err != nil {
					slog.WarnContext(ctx, "Ticker failed", "operation", op, "ticker", ticker, "error", res.Err)
					results[i].Error = res.Err.Error()
					return nil
				}
				if res.Shared {
					slog.DebugContext(ctx, "Shared in-flight call", "operation", op, "ticker", ticker)
				}

				value := res.Val.(T)
				results[i].Value = &value
			}
			return nil
		})
	}

	// Workers never return an error; failures live in the slots.
	_ = g.Wait()

	return results
}

// Shape lays out batch results for output: the bare value when a single
// ticker was asked for, a map keyed by ticker when objectize is set, and the
// ordered list otherwise. With objectize, a repeated ticker keeps its last
// result.
func Shape[T any](results []TickerResult[T], single, objectize bool) any {
	if single && len(results) == 1 {
		return results[0].Value
	}

	if objectize {
		byTicker := make(map[string]TickerResult[T], len(results))
		for _, r := range results {
			byTicker[r.Ticker] = r
		}
		return byTicker
	}

	return results
}

// FirstError returns the first failed result as an error naming its ticker.
func FirstError[T any](results []TickerResult[T]) error {
	for _, r := range results {
		if err := r.Err(); err != nil {
			return fmt.Errorf("%s: %w", r.Ticker, err)
		}
	}
	return nil
}
