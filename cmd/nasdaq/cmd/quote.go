package cmd

import (
	"github.com/spf13/cobra"
)

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info TICKER...",
		Short: "Company summary: name, exchange, industry, logo and price change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.quoteService()
			if err != nil {
				return err
			}
			return printResults(cmd, service.GetInfo(cmd.Context(), args), opts.objectize)
		},
	}
}

func newPriceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "price TICKER...",
		Short: "Last sale price",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.quoteService()
			if err != nil {
				return err
			}
			return printResults(cmd, service.GetPrice(cmd.Context(), args), opts.objectize)
		},
	}
}

func newTicksCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ticks TICKER...",
		Short: "Every trade of the session, section by section",
		Long: `Walks all thirteen time sections of the time & sales listing and prints
the collected trades. Large tickers span hundreds of pages; use
--request-concurrency and --request-delay to pace the crawl.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := opts.quoteService()
			if err != nil {
				return err
			}
			return printResults(cmd, service.GetTicks(cmd.Context(), args), opts.objectize)
		},
	}
}
