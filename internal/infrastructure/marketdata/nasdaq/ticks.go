package nasdaq

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmanzanog/nasdaq-finance/internal/domain"
	"golang.org/x/sync/errgroup"
)

// PageFetcher loads one page of a ticker's time & sales listing.
type PageFetcher interface {
	FetchPage(ctx context.Context, ticker, query string) (*goquery.Document, error)
}

// tickRetriever pages through the thirteen sections of a ticker's history.
type tickRetriever struct {
	pages       PageFetcher
	concurrency int
	delay       time.Duration
}

func newTickRetriever(pages PageFetcher, cfg Config) *tickRetriever {
	concurrency := cfg.RequestConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &tickRetriever{
		pages:       pages,
		concurrency: concurrency,
		delay:       cfg.RequestDelay,
	}
}

// retrieve loads sections 1..SectionCount one after another, each with its
// own scheduler, and concatenates them in section order. It stops at the
// first section that fails.
func (r *tickRetriever) retrieve(ctx context.Context, ticker string) ([]domain.Tick, error) {
	var ticks []domain.Tick

	for section := 1; section <= SectionCount; section++ {
		sectionTicks, err := r.loadSection(ctx, NewPageScheduler(), ticker, section)
		if err != nil {
			return nil, fmt.Errorf("failed to load ticks for %s section %d: %w", ticker, section, err)
		}
		ticks = append(ticks, sectionTicks...)
	}

	slog.DebugContext(ctx, "Loaded tick history", "ticker", ticker, "count", len(ticks))
	return ticks, nil
}

// loadSection reads page 1 of a section to learn its page count, then loads
// pages 2..N on a bounded pool. Page groups are reassembled by page number
// and the group order is reversed before flattening.
func (r *tickRetriever) loadSection(ctx context.Context, scheduler *PageScheduler, ticker string, section int) ([]domain.Tick, error) {
	sectionID := SectionID(section)
	if scheduler.Exhausted(sectionID) {
		return nil, nil
	}

	doc, err := r.pages.FetchPage(ctx, ticker, fmt.Sprintf("?time=%d", section))
	if err != nil {
		return nil, err
	}

	lastPage, ok := parseLastPageNumber(doc)
	if !ok {
		lastPage = 1
	}

	first := parseTicks(doc)
	if len(first) == 0 {
		scheduler.MarkEmpty(sectionID)
		return nil, nil
	}

	// groups[i] holds page i+1; page 1 keeps the order it was listed in.
	groups := make([][]domain.Tick, lastPage)
	groups[0] = first

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for page := 2; page <= lastPage; page++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ticks, err := r.loadPage(gctx, scheduler, ticker, section, page)
			if err != nil {
				return err
			}
			groups[page-1] = ticks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.Reverse(groups)
	return slices.Concat(groups...), nil
}

// loadPage fetches one page after the configured delay unless the section is
// already known to end before it. An empty page moves the scheduler's marker.
// The returned ticks are reversed relative to the page listing.
func (r *tickRetriever) loadPage(ctx context.Context, scheduler *PageScheduler, ticker string, section, page int) ([]domain.Tick, error) {
	pageID := PageID(section, page)
	if scheduler.Exhausted(pageID) {
		return nil, nil
	}

	if err := sleepContext(ctx, r.delay); err != nil {
		return nil, err
	}
	if scheduler.Exhausted(pageID) {
		return nil, nil
	}

	slog.DebugContext(ctx, "Downloading page", "ticker", ticker, "section", section, "page", page)

	doc, err := r.pages.FetchPage(ctx, ticker, fmt.Sprintf("?time=%d&pageno=%d", section, page))
	if err != nil {
		return nil, err
	}

	ticks := parseTicks(doc)
	if len(ticks) == 0 {
		scheduler.MarkEmpty(pageID)
	}

	slices.Reverse(ticks)
	return ticks, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
