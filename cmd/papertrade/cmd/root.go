package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papertrade",
	Short: "A paper-trading simulator that replays historical candle data",
	Long: `Papertrade replays historical OHLC candles and tracks hypothetical
positions against them, computing realized and unrealized P/L as the
simulated market advances.

It provides tools for:
  - Serving the replay session over HTTP for the charting frontend
  - Opening, partially closing, and fully closing paper trades
  - Resampling 1-minute candle files into coarser intervals
  - Auditing close events through CSV or SQLite journals`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
