package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/papertrade/internal/id"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
)

// PL is the canonical profit/loss snapshot returned by every operation that
// mutates or queries ledger state.
type PL struct {
	Unrealized float64 `json:"unrealized"`
	Realized   float64 `json:"realized"`
	Total      float64 `json:"total"`
}

// Rounded renders the snapshot for display.
func (p PL) Rounded() PL {
	return PL{
		Unrealized: Round2(p.Unrealized),
		Realized:   Round2(p.Realized),
		Total:      Round2(p.Total),
	}
}

// OpenRequest describes a position to open. A nil EntryPrice means "open at
// the current market price". A zero EntryTime is defaulted from the clock.
type OpenRequest struct {
	EntryPrice *float64
	Quantity   float64
	Action     string
	EntryTime  time.Time
}

// CloseResult reports one close operation: the realized delta for the closed
// slice, the trade after the close, and the session P/L at the close price.
type CloseResult struct {
	Delta float64
	Trade TradeSnapshot
	PL    PL
}

// Ledger owns the append-only trade sequence, the current candle, and the
// running realized total across all trades ever closed. A trade's slice
// index is its permanent identity; indices are never reused or compacted,
// and closed trades remain as history. The mutex makes every mutating call
// one critical section, so a single Ledger can sit behind a server.
type Ledger struct {
	mu       sync.Mutex
	trades   []*Trade
	current  *market.Candle
	realized float64
	journal  journal.Journal
	clock    Clock
}

func NewLedger(j journal.Journal, clock Clock) *Ledger {
	if j == nil {
		j = journal.Nop{}
	}
	if clock == nil {
		clock = systemClock
	}
	return &Ledger{journal: j, clock: clock}
}

// Open validates and appends a new trade, marks it against the current
// market price (falling back to its own entry price when no candle has been
// set yet), and returns the snapshot plus the price used for the mark.
func (l *Ledger) Open(req OpenRequest) (TradeSnapshot, float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := 0.0
	switch {
	case req.EntryPrice != nil:
		entry = *req.EntryPrice
	case l.current != nil:
		entry = l.current.Close
	default:
		return TradeSnapshot{}, 0, fmt.Errorf("open: no entry price given and no current candle: %w", ErrNoPrice)
	}

	t, err := NewTrade(entry, req.Quantity, req.Action, req.EntryTime, l.clock)
	if err != nil {
		return TradeSnapshot{}, 0, fmt.Errorf("open: %w", err)
	}
	t.ID = id.New()

	mark := entry
	if l.current != nil {
		mark = l.current.Close
	}
	t.UpdateUnrealized(mark)

	l.trades = append(l.trades, t)
	return t.Snapshot(len(l.trades) - 1), mark, nil
}

// Close realizes a slice of the trade at index. A nil closePrice means the
// current market price; quantity <= 0 means the full remaining amount. After
// a successful close the delta joins the ledger total and every open trade
// is re-marked at the close price, not just the one being closed. Error
// paths leave the ledger exactly as it was.
func (l *Ledger) Close(index int, closePrice *float64, quantity float64) (CloseResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.trades) {
		return CloseResult{}, fmt.Errorf("close: index %d: %w", index, ErrTradeNotFound)
	}
	t := l.trades[index]

	price := 0.0
	switch {
	case closePrice != nil:
		price = *closePrice
	case l.current != nil:
		price = l.current.Close
	default:
		return CloseResult{}, fmt.Errorf("close: no close price given and no current candle: %w", ErrNoPrice)
	}

	closeTime := l.clock()
	remainingBefore := t.Remaining
	delta, err := t.Close(price, quantity, closeTime)
	if err != nil {
		return CloseResult{}, fmt.Errorf("close trade %d: %w", index, err)
	}
	l.realized += delta

	reason := "close"
	if t.Open {
		reason = "partial_close"
	}
	// Audit only; a journal failure must not unwind an applied close.
	_ = l.journal.RecordClose(journal.CloseRecord{
		TradeID:    t.ID,
		TradeIndex: index,
		Action:     t.Action,
		Units:      remainingBefore - t.Remaining,
		EntryPrice: t.EntryPrice,
		ClosePrice: price,
		OpenTime:   t.EntryTime,
		CloseTime:  closeTime,
		RealizedPL: delta,
		Reason:     reason,
	})

	pl := l.recomputeLocked(price)
	return CloseResult{Delta: delta, Trade: t.Snapshot(index), PL: pl}, nil
}

// Recompute re-marks every open trade at price and returns the aggregate
// P/L snapshot.
func (l *Ledger) Recompute(price float64) PL {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recomputeLocked(price)
}

func (l *Ledger) recomputeLocked(price float64) PL {
	unrealized := 0.0
	for _, t := range l.trades {
		if !t.Open {
			continue
		}
		t.UpdateUnrealized(price)
		unrealized += t.Unrealized
	}
	return PL{
		Unrealized: unrealized,
		Realized:   l.realized,
		Total:      unrealized + l.realized,
	}
}

// Advance sets the current candle and re-marks the world at its close.
func (l *Ledger) Advance(c market.Candle) PL {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &c
	pl := l.recomputeLocked(c.Close)

	// Audit only; the replay itself does not depend on the journal.
	_ = l.journal.RecordPL(journal.PLSnapshot{
		Time:       c.Time,
		Price:      c.Close,
		Unrealized: pl.Unrealized,
		Realized:   pl.Realized,
		Total:      pl.Total,
	})
	return pl
}

// CurrentPrice returns the close of the current candle, if any.
func (l *Ledger) CurrentPrice() (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return 0, false
	}
	return l.current.Close, true
}

// CurrentCandle returns the current candle, if any.
func (l *Ledger) CurrentCandle() (market.Candle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return market.Candle{}, false
	}
	return *l.current, true
}

// Snapshot returns every trade (closed ones included, under their permanent
// indices) and the aggregate P/L. Open trades are re-marked at the current
// price when one exists; with no candle set the stored marks are summed
// as-is rather than inventing a price.
func (l *Ledger) Snapshot() ([]TradeSnapshot, PL) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var pl PL
	if l.current != nil {
		pl = l.recomputeLocked(l.current.Close)
	} else {
		unrealized := 0.0
		for _, t := range l.trades {
			unrealized += t.Unrealized
		}
		pl = PL{Unrealized: unrealized, Realized: l.realized, Total: unrealized + l.realized}
	}

	snaps := make([]TradeSnapshot, len(l.trades))
	for i, t := range l.trades {
		snaps[i] = t.Snapshot(i)
	}
	return snaps, pl
}
