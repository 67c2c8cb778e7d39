package market

import "time"

// Candle represents one OHLC (Open, High, Low, Close) price bar for a
// time bucket, plus traded volume. Candles are value types and are never
// mutated after a series is loaded; the slice index of a series is the
// simulated clock.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
