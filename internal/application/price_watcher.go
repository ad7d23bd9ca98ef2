package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmanzanog/nasdaq-finance/internal/domain"
)

type PriceSource interface {
	GetPrice(ctx context.Context, tickers []string) []TickerResult[domain.Decimal]
}

// PriceSink receives each polled batch of prices.
type PriceSink func(ctx context.Context, at time.Time, prices []TickerResult[domain.Decimal]) error

type PriceWatcher struct {
	source   PriceSource
	tickers  []string
	interval time.Duration
	sink     PriceSink
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewPriceWatcher(source PriceSource, tickers []string, interval time.Duration, sink PriceSink) *PriceWatcher {
	return &PriceWatcher{
		source:   source,
		tickers:  tickers,
		interval: interval,
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// Start polls on every tick of the interval until Stop is called or ctx is
// done. The first poll happens one interval after Start.
func (w *PriceWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Price watcher started", "interval", w.interval, "tickers", w.tickers)

	for {
		select {
		case at := <-ticker.C:
			w.poll(ctx, at)
		case <-w.stopChan:
			slog.Info("Price watcher stopped")
			return
		case <-ctx.Done():
			slog.Info("Price watcher stopped due to context cancellation")
			return
		}
	}
}

// Poll fetches the watch list once and hands the batch to the sink.
func (w *PriceWatcher) Poll(ctx context.Context) {
	w.poll(ctx, time.Now())
}

func (w *PriceWatcher) poll(ctx context.Context, at time.Time) {
	prices := w.source.GetPrice(ctx, w.tickers)

	failed := 0
	for _, p := range prices {
		if p.Error != "" {
			failed++
		}
	}

	if err := w.sink(ctx, at, prices); err != nil {
		slog.Error("Error publishing prices", "error", err)
		return
	}
	slog.Debug("Prices polled", "count", len(prices), "failed", failed)
}

// Stop ends Start. Calling it more than once is a no-op.
func (w *PriceWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}
