// Command nasdaq prints Nasdaq quote data as JSON.
//
//	nasdaq price AAPL
//	nasdaq --objectize info AAPL MSFT
//	nasdaq ticks TSLA > tsla.json
//	nasdaq watch AAPL TSLA --interval 30s
package main

import (
	"os"

	"github.com/jmanzanog/nasdaq-finance/cmd/nasdaq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
