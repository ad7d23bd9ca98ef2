package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmanzanog/nasdaq-finance/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPriceSource struct {
	mu        sync.Mutex
	callCount int
	tickers   []string
}

func (m *mockPriceSource) GetPrice(_ context.Context, tickers []string) []TickerResult[domain.Decimal] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.tickers = tickers

	results := make([]TickerResult[domain.Decimal], len(tickers))
	for i, ticker := range tickers {
		price := domain.NewDecimalFromInt(int64(i + 1))
		results[i] = TickerResult[domain.Decimal]{Ticker: ticker, Value: &price}
	}
	return results
}

func (m *mockPriceSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]TickerResult[domain.Decimal]
	err     error
}

func (s *recordingSink) Publish(_ context.Context, _ time.Time, prices []TickerResult[domain.Decimal]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, prices)
	return s.err
}

func (s *recordingSink) Batches() [][]TickerResult[domain.Decimal] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

func TestPriceWatcher_Start(t *testing.T) {
	t.Run("Polls prices on interval", func(t *testing.T) {
		source := &mockPriceSource{}
		sink := &recordingSink{}
		watcher := NewPriceWatcher(source, []string{"AAPL", "TSLA"}, 10*time.Millisecond, sink.Publish)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go watcher.Start(ctx)
		time.Sleep(50 * time.Millisecond)
		watcher.Stop()

		assert.GreaterOrEqual(t, source.CallCount(), 3)
		batches := sink.Batches()
		require.NotEmpty(t, batches)
		assert.Equal(t, "AAPL", batches[0][0].Ticker)
		assert.Equal(t, "TSLA", batches[0][1].Ticker)
	})

	t.Run("Keeps polling when the sink fails", func(t *testing.T) {
		source := &mockPriceSource{}
		sink := &recordingSink{err: errors.New("stdout closed")}
		watcher := NewPriceWatcher(source, []string{"AAPL"}, 10*time.Millisecond, sink.Publish)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go watcher.Start(ctx)
		time.Sleep(40 * time.Millisecond)
		watcher.Stop()

		assert.GreaterOrEqual(t, len(sink.Batches()), 2)
	})

	t.Run("Stops on context cancellation", func(t *testing.T) {
		source := &mockPriceSource{}
		sink := &recordingSink{}
		watcher := NewPriceWatcher(source, []string{"AAPL"}, 100*time.Millisecond, sink.Publish)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			watcher.Start(ctx)
			close(done)
		}()

		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop after cancellation")
		}
		assert.Equal(t, 0, source.CallCount())
	})

	t.Run("Stops on Stop() call", func(t *testing.T) {
		watcher := NewPriceWatcher(&mockPriceSource{}, []string{"AAPL"}, 100*time.Millisecond, (&recordingSink{}).Publish)

		done := make(chan struct{})
		go func() {
			watcher.Start(context.Background())
			close(done)
		}()

		watcher.Stop()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("Stop twice does not panic", func(t *testing.T) {
		watcher := NewPriceWatcher(&mockPriceSource{}, []string{"AAPL"}, time.Hour, (&recordingSink{}).Publish)

		assert.NotPanics(t, func() {
			watcher.Stop()
			watcher.Stop()
		})

		done := make(chan struct{})
		go func() {
			watcher.Start(context.Background())
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher started after Stop did not return")
		}
	})
}

func TestPriceWatcher_Poll(t *testing.T) {
	source := &mockPriceSource{}
	sink := &recordingSink{}
	watcher := NewPriceWatcher(source, []string{"MSFT", "NVDA"}, time.Hour, sink.Publish)

	watcher.Poll(context.Background())

	assert.Equal(t, 1, source.CallCount())
	assert.Equal(t, []string{"MSFT", "NVDA"}, source.tickers)
	require.Len(t, sink.Batches(), 1)
	assert.Len(t, sink.Batches()[0], 2)
}
