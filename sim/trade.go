package sim

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Trade directions. Input is normalized to lowercase; anything else is
// rejected at construction rather than silently computing zero P/L.
const (
	Buy  = "buy"
	Sell = "sell"
)

// Trade is one opened position. Quantity is the originally requested size
// and never changes; Remaining decreases as slices are closed and is clamped
// to exactly 0 on full close. Realized accumulates the P/L of every closed
// slice. Trade is not safe for concurrent use; all mutation happens under
// the owning Ledger's lock.
type Trade struct {
	ID         string
	Action     string
	EntryPrice float64
	Quantity   float64
	Remaining  float64
	EntryTime  time.Time

	// Latest close event only; earlier partial closes are overwritten.
	ClosePrice float64
	CloseTime  time.Time

	Unrealized float64
	Realized   float64
	Open       bool
}

// NewTrade validates and builds a fully open trade. A zero entryTime is
// defaulted from the clock.
func NewTrade(entryPrice, quantity float64, action string, entryTime time.Time, clock Clock) (*Trade, error) {
	if clock == nil {
		clock = systemClock
	}
	if entryPrice <= 0 {
		return nil, fmt.Errorf("%w: entry price must be positive, got %v", ErrInvalidInput, entryPrice)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %v", ErrInvalidInput, quantity)
	}

	action = strings.ToLower(strings.TrimSpace(action))
	if action != Buy && action != Sell {
		return nil, fmt.Errorf("%w: action must be %q or %q, got %q", ErrInvalidInput, Buy, Sell, action)
	}

	if entryTime.IsZero() {
		entryTime = clock()
	}

	return &Trade{
		Action:     action,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		Remaining:  quantity,
		EntryTime:  entryTime,
		Open:       true,
	}, nil
}

func (t *Trade) sign() float64 {
	if t.Action == Sell {
		return -1
	}
	return 1
}

// UpdateUnrealized marks the open remainder of the position to price.
// No-op once the trade is fully closed: unrealized P/L stays pinned at 0.
func (t *Trade) UpdateUnrealized(price float64) {
	if !t.Open {
		return
	}
	t.Unrealized = t.sign() * (price - t.EntryPrice) * t.Remaining
}

// Close realizes a slice of the position at closePrice and returns the
// realized P/L delta for that slice. A quantity <= 0 or >= Remaining means a
// full close. The latest close event's price/time overwrite any prior
// partial-close record. Validation failures leave the trade untouched.
func (t *Trade) Close(closePrice, quantity float64, closeTime time.Time) (float64, error) {
	if !t.Open {
		return 0, fmt.Errorf("%w: trade is already closed", ErrInvalidInput)
	}
	if closePrice <= 0 {
		return 0, fmt.Errorf("%w: close price must be positive, got %v", ErrInvalidInput, closePrice)
	}

	qty := quantity
	if qty <= 0 || qty >= t.Remaining {
		qty = t.Remaining
	}

	delta := t.sign() * (closePrice - t.EntryPrice) * qty
	t.Realized += delta

	t.ClosePrice = closePrice
	t.CloseTime = closeTime

	t.Remaining -= qty
	if t.Remaining <= 0 {
		t.Remaining = 0
		t.Open = false
	}

	if t.Open {
		t.UpdateUnrealized(closePrice)
	} else {
		t.Unrealized = 0
	}

	return delta, nil
}

// TradeSnapshot is the external representation of a trade. Monetary P/L
// figures are rounded to 2 decimals here, at the presentation boundary only;
// the Trade itself accumulates at full precision.
type TradeSnapshot struct {
	Index              int      `json:"index"`
	EntryPrice         float64  `json:"entryPrice"`
	Quantity           float64  `json:"quantity"`
	RemainingQuantity  float64  `json:"remainingQuantity"`
	Action             string   `json:"action"`
	EntryTime          string   `json:"entryTime"`
	ClosePrice         *float64 `json:"closePrice"`
	CloseTime          *string  `json:"closeTime"`
	ProfitLoss         float64  `json:"profitLoss"`
	RealizedProfitLoss float64  `json:"realizedProfitLoss"`
	IsOpen             bool     `json:"isOpen"`
}

// timeLayout is minute precision, matching the candle files.
const timeLayout = "2006-01-02 15:04"

// Snapshot renders the trade for the API under its permanent ledger index.
func (t *Trade) Snapshot(index int) TradeSnapshot {
	s := TradeSnapshot{
		Index:              index,
		EntryPrice:         t.EntryPrice,
		Quantity:           t.Quantity,
		RemainingQuantity:  t.Remaining,
		Action:             t.Action,
		EntryTime:          t.EntryTime.Format(timeLayout),
		ProfitLoss:         Round2(t.Unrealized),
		RealizedProfitLoss: Round2(t.Realized),
		IsOpen:             t.Open,
	}
	if !t.CloseTime.IsZero() {
		cp := t.ClosePrice
		ct := t.CloseTime.Format(timeLayout)
		s.ClosePrice = &cp
		s.CloseTime = &ct
	}
	return s
}

// Round2 rounds a monetary value for display.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
