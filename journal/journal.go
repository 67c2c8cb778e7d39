// Package journal records close events and P/L snapshots as they happen.
// It is an append-only audit trail: the ledger writes to it and never reads
// it back, so restarting the process always starts a fresh session.
package journal

import "time"

// CloseRecord is one realized slice of a trade: a partial close produces one
// record, a trade closed in N slices produces N records.
type CloseRecord struct {
	TradeID    string
	TradeIndex int
	Action     string
	Units      float64
	EntryPrice float64
	ClosePrice float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

// PLSnapshot is the aggregate P/L of the session at one replay step.
type PLSnapshot struct {
	Time       time.Time
	Price      float64
	Unrealized float64
	Realized   float64
	Total      float64
}

type Journal interface {
	RecordClose(CloseRecord) error
	RecordPL(PLSnapshot) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled and in tests.
type Nop struct{}

func (Nop) RecordClose(CloseRecord) error { return nil }
func (Nop) RecordPL(PLSnapshot) error     { return nil }
func (Nop) Close() error                  { return nil }
