package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/market"
)

var resampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Resample a 1-minute candle file into a coarser interval",
	Long: `Aggregate a 1-minute candle file into a coarser interval:
open = first, high = max, low = min, close = last, volume = sum.
Incomplete interval buckets are dropped.

Examples:
  papertrade resample -i data/EURUSD1.csv -n 15 -o data/EURUSD15.csv`,
	RunE: runResample,
}

var (
	resampleIn       string
	resampleOut      string
	resampleInterval int
)

func init() {
	rootCmd.AddCommand(resampleCmd)

	resampleCmd.Flags().StringVarP(&resampleIn, "in", "i", "", "source candle file (tab-separated, 1-minute)")
	resampleCmd.Flags().StringVarP(&resampleOut, "out", "o", "", "destination candle file")
	resampleCmd.Flags().IntVarP(&resampleInterval, "interval", "n", 5, "target interval in minutes")
	resampleCmd.MarkFlagRequired("in")
	resampleCmd.MarkFlagRequired("out")
}

func runResample(cmd *cobra.Command, args []string) error {
	series, err := market.LoadSeries(resampleIn)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	out, err := market.Resample(series, resampleInterval)
	if err != nil {
		return err
	}

	if err := market.WriteSeries(resampleOut, out); err != nil {
		return err
	}

	fmt.Printf("Resampled %d candles into %d x %d-minute candles\n", len(series), len(out), resampleInterval)
	fmt.Printf("Written to: %s\n", resampleOut)
	return nil
}
