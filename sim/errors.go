package sim

import "errors"

// Sentinel errors for the ledger and replay driver. Callers (the HTTP layer
// in particular) branch on these with errors.Is; the wrapped messages carry
// the detail.
var (
	ErrTradeNotFound   = errors.New("trade not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoPrice         = errors.New("no price available")
	ErrExhaustedSeries = errors.New("no more candles")
)
