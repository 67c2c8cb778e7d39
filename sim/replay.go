package sim

import (
	"fmt"
	"sync"

	"github.com/rustyeddy/papertrade/market"
)

// StepResult is the world state after one replay step: the candle that just
// became current, the index to request next, every trade, and the P/L marked
// at the new close price.
type StepResult struct {
	Candle    market.Candle
	NextIndex int
	Trades    []TradeSnapshot
	PL        PL
	Price     float64
}

// Replay drives a ledger forward through an ordered candle series. The
// series index is the simulated clock; callers hold the index and ask for
// one step at a time, which is how the historical frontend polls.
type Replay struct {
	mu     sync.Mutex
	ledger *Ledger
	series []market.Candle
}

func NewReplay(l *Ledger, series []market.Candle) *Replay {
	return &Replay{ledger: l, series: series}
}

// SetSeries swaps in a new candle series, e.g. after the caller picks a
// different time interval. The ledger and its trades are untouched.
func (r *Replay) SetSeries(series []market.Candle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series = series
}

// Len returns the number of candles in the active series.
func (r *Replay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.series)
}

// Step makes series[index] the current candle, re-marks all open trades at
// its close price, and returns the updated world state. An index past the
// end of the series fails with ErrExhaustedSeries and changes nothing.
func (r *Replay) Step(index int) (StepResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.series) {
		return StepResult{}, fmt.Errorf("step: index %d of %d candles: %w", index, len(r.series), ErrExhaustedSeries)
	}

	c := r.series[index]
	pl := r.ledger.Advance(c)
	trades, _ := r.ledger.Snapshot()

	return StepResult{
		Candle:    c,
		NextIndex: index + 1,
		Trades:    trades,
		PL:        pl,
		Price:     c.Close,
	}, nil
}
