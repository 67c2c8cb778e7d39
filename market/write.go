package market

import (
	"bufio"
	"fmt"
	"os"
)

// WriteSeries writes candles in the same tab-separated layout LoadSeries
// reads, so resampled files can be dropped next to the originals.
func WriteSeries(path string, series []Candle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create series: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range series {
		_, err := fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\n",
			c.Time.Format("2006-01-02 15:04"), c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("write series: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write series: %w", err)
	}
	return nil
}
