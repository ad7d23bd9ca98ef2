package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jmanzanog/nasdaq-finance/internal/application"
	"github.com/jmanzanog/nasdaq-finance/internal/domain"
	"github.com/spf13/cobra"
)

// watchLine is one JSON document per poll.
type watchLine struct {
	Time   time.Time `json:"time"`
	Prices any       `json:"prices"`
}

func newWatchCmd(opts *options) *cobra.Command {
	var interval time.Duration

	watchCmd := &cobra.Command{
		Use:   "watch TICKER...",
		Short: "Print prices for a watch list on every interval until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("invalid --interval: must be positive, got %s", interval)
			}

			service, err := opts.quoteService()
			if err != nil {
				return err
			}

			sink := func(_ context.Context, at time.Time, prices []application.TickerResult[domain.Decimal]) error {
				return writeJSON(cmd, watchLine{
					Time:   at.UTC(),
					Prices: application.Shape(prices, false, opts.objectize),
				})
			}

			watcher := application.NewPriceWatcher(service, args, interval, sink)
			watcher.Poll(cmd.Context())
			watcher.Start(cmd.Context())
			return nil
		},
	}

	watchCmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "time between polls")

	return watchCmd
}
