package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
)

type testJournal struct {
	closes []journal.CloseRecord
	pls    []journal.PLSnapshot
	closed bool
}

func (j *testJournal) RecordClose(rec journal.CloseRecord) error {
	j.closes = append(j.closes, rec)
	return nil
}

func (j *testJournal) RecordPL(rec journal.PLSnapshot) error {
	j.pls = append(j.pls, rec)
	return nil
}

func (j *testJournal) Close() error {
	j.closed = true
	return nil
}

// brokenJournal fails every write, like a journal on a full disk.
type brokenJournal struct{}

func (brokenJournal) RecordClose(journal.CloseRecord) error { return errors.New("disk full") }
func (brokenJournal) RecordPL(journal.PLSnapshot) error     { return errors.New("disk full") }
func (brokenJournal) Close() error                          { return nil }

func newLedger(t *testing.T) (*Ledger, *testJournal) {
	t.Helper()
	j := &testJournal{}
	return NewLedger(j, testClock), j
}

func candleAt(price float64, tm time.Time) market.Candle {
	return market.Candle{Time: tm, Open: price, High: price, Low: price, Close: price, Volume: 1}
}

func fp(v float64) *float64 { return &v }

func openBuy(t *testing.T, l *Ledger, entry *float64, qty float64) TradeSnapshot {
	t.Helper()
	snap, _, err := l.Open(OpenRequest{EntryPrice: entry, Quantity: qty, Action: "buy"})
	require.NoError(t, err)
	return snap
}

func TestLedgerOpenUsesCurrentPriceForMark(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	l.Advance(candleAt(1.1010, testEntryTime))

	snap, mark, err := l.Open(OpenRequest{EntryPrice: fp(1.1000), Quantity: 10000, Action: "buy"})
	require.NoError(t, err)
	assert.Equal(t, 1.1010, mark)
	assert.InDelta(t, 10.0, snap.ProfitLoss, 1e-9)
	assert.Equal(t, 0, snap.Index)
}

func TestLedgerOpenFallsBackToEntryPrice(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)

	snap, mark, err := l.Open(OpenRequest{EntryPrice: fp(1.1000), Quantity: 10000, Action: "buy"})
	require.NoError(t, err)
	assert.Equal(t, 1.1000, mark)
	assert.Zero(t, snap.ProfitLoss)
}

func TestLedgerOpenAtMarketPrice(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	l.Advance(candleAt(1.2345, testEntryTime))

	snap, _, err := l.Open(OpenRequest{Quantity: 100, Action: "sell"})
	require.NoError(t, err)
	assert.Equal(t, 1.2345, snap.EntryPrice)
}

func TestLedgerOpenNoPrice(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	_, _, err := l.Open(OpenRequest{Quantity: 100, Action: "buy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPrice)
}

func TestLedgerOpenInvalidAction(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	_, _, err := l.Open(OpenRequest{EntryPrice: fp(1.1), Quantity: 100, Action: "hold"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	trades, _ := l.Snapshot()
	assert.Empty(t, trades, "failed open must not append")
}

func TestLedgerCloseAccumulatesTotal(t *testing.T) {
	t.Parallel()

	l, j := newLedger(t)
	l.Advance(candleAt(1.1000, testEntryTime))
	openBuy(t, l, fp(1.1000), 10000)
	openBuy(t, l, fp(1.1000), 5000)

	res, err := l.Close(0, fp(1.1020), 4000)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, res.Delta, 1e-9)
	assert.InDelta(t, 8.0, res.PL.Realized, 1e-9)
	assert.True(t, res.Trade.IsOpen)
	assert.InDelta(t, 6000, res.Trade.RemainingQuantity, 1e-9)
	// every open trade is re-marked at the close price, not just index 0:
	// 6000*(1.1020-1.1000) + 5000*(1.1020-1.1000) = 12 + 10
	assert.InDelta(t, 22.0, res.PL.Unrealized, 1e-9)

	res, err = l.Close(1, fp(1.0990), 0)
	require.NoError(t, err)
	assert.InDelta(t, -5.0, res.Delta, 1e-9)
	assert.InDelta(t, 3.0, res.PL.Realized, 1e-9)

	// ledger total equals the sum of individual trade realized P/L
	trades, pl := l.Snapshot()
	sum := 0.0
	for _, tr := range trades {
		sum += tr.RealizedProfitLoss
	}
	assert.InDelta(t, sum, pl.Realized, 1e-9)

	require.Len(t, j.closes, 2)
	assert.Equal(t, "partial_close", j.closes[0].Reason)
	assert.InDelta(t, 4000, j.closes[0].Units, 1e-9)
	assert.Equal(t, "close", j.closes[1].Reason)
	assert.InDelta(t, 5000, j.closes[1].Units, 1e-9)
	assert.NotEmpty(t, j.closes[0].TradeID)
}

func TestLedgerCloseSurvivesJournalFailure(t *testing.T) {
	t.Parallel()

	l := NewLedger(brokenJournal{}, testClock)
	l.Advance(candleAt(1.1000, testEntryTime))
	openBuy(t, l, nil, 10000)

	// the journal is an audit trail; a write failure never turns an
	// applied close back into an error for the caller
	res, err := l.Close(0, fp(1.1020), 0)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, res.Delta, 1e-9)
	assert.False(t, res.Trade.IsOpen)

	trades, pl := l.Snapshot()
	require.Len(t, trades, 1)
	assert.False(t, trades[0].IsOpen)
	assert.InDelta(t, 20.0, pl.Realized, 1e-9)
}

func TestLedgerCloseUsesCurrentPrice(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	l.Advance(candleAt(1.1000, testEntryTime))
	openBuy(t, l, nil, 10000)
	l.Advance(candleAt(1.1010, testEntryTime.Add(time.Minute)))

	res, err := l.Close(0, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.Delta, 1e-9)
}

func TestLedgerCloseTradeNotFound(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	l.Advance(candleAt(1.1000, testEntryTime))
	openBuy(t, l, nil, 100)

	for _, idx := range []int{-1, 1, 99} {
		_, err := l.Close(idx, fp(1.1), 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTradeNotFound)
	}

	// failed closes leave everything as it was
	trades, pl := l.Snapshot()
	require.Len(t, trades, 1)
	assert.True(t, trades[0].IsOpen)
	assert.Zero(t, pl.Realized)
}

func TestLedgerCloseNoPrice(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	_, _, err := l.Open(OpenRequest{EntryPrice: fp(1.1), Quantity: 100, Action: "buy"})
	require.NoError(t, err)

	_, err = l.Close(0, nil, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPrice)

	trades, _ := l.Snapshot()
	assert.True(t, trades[0].IsOpen)
}

func TestLedgerClosedTradesStayInHistory(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	l.Advance(candleAt(1.1000, testEntryTime))
	openBuy(t, l, nil, 100)
	openBuy(t, l, nil, 200)

	_, err := l.Close(0, fp(1.1010), 0)
	require.NoError(t, err)

	// indices are permanent: trade 1 is still trade 1 after 0 closes
	trades, _ := l.Snapshot()
	require.Len(t, trades, 2)
	assert.False(t, trades[0].IsOpen)
	assert.True(t, trades[1].IsOpen)
	assert.Equal(t, 1, trades[1].Index)
	assert.InDelta(t, 200.0, trades[1].Quantity, 1e-9)
}

func TestLedgerRecompute(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	l.Advance(candleAt(1.1000, testEntryTime))
	openBuy(t, l, nil, 10000)
	openBuy(t, l, nil, 5000)

	pl := l.Recompute(1.1010)
	assert.InDelta(t, 15.0, pl.Unrealized, 1e-9)
	assert.Zero(t, pl.Realized)
	assert.InDelta(t, 15.0, pl.Total, 1e-9)
}

func TestLedgerAdvanceRecordsPL(t *testing.T) {
	t.Parallel()

	l, j := newLedger(t)
	pl := l.Advance(candleAt(1.1000, testEntryTime))
	assert.Zero(t, pl.Total)

	require.Len(t, j.pls, 1)
	assert.Equal(t, 1.1000, j.pls[0].Price)
	assert.Equal(t, testEntryTime, j.pls[0].Time)

	price, ok := l.CurrentPrice()
	require.True(t, ok)
	assert.Equal(t, 1.1000, price)
}
