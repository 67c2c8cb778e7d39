package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrade/market"
)

func testSeries() []market.Candle {
	t0 := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	prices := []float64{1.1000, 1.1010, 1.0990}
	out := make([]market.Candle, len(prices))
	for i, p := range prices {
		out[i] = candleAt(p, t0.Add(time.Duration(i)*time.Minute))
	}
	return out
}

func TestReplayStep(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	r := NewReplay(l, testSeries())

	step, err := r.Step(0)
	require.NoError(t, err)
	assert.Equal(t, 1, step.NextIndex)
	assert.Equal(t, 1.1000, step.Price)
	assert.Empty(t, step.Trades)

	openBuy(t, l, nil, 10000)

	step, err = r.Step(1)
	require.NoError(t, err)
	assert.Equal(t, 2, step.NextIndex)
	assert.InDelta(t, 10.0, step.PL.Unrealized, 1e-9)
	require.Len(t, step.Trades, 1)
	assert.InDelta(t, 10.0, step.Trades[0].ProfitLoss, 1e-9)

	step, err = r.Step(2)
	require.NoError(t, err)
	assert.InDelta(t, -10.0, step.PL.Unrealized, 1e-9)
}

func TestReplayStepPastEndLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	r := NewReplay(l, testSeries())

	_, err := r.Step(1)
	require.NoError(t, err)
	openBuy(t, l, nil, 10000)

	_, err = r.Step(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhaustedSeries)

	// current candle and marks untouched
	price, ok := l.CurrentPrice()
	require.True(t, ok)
	assert.Equal(t, 1.1010, price)

	_, err = r.Step(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhaustedSeries)
}

func TestReplaySetSeries(t *testing.T) {
	t.Parallel()

	l, _ := newLedger(t)
	r := NewReplay(l, nil)
	assert.Equal(t, 0, r.Len())

	_, err := r.Step(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhaustedSeries)

	r.SetSeries(testSeries())
	assert.Equal(t, 3, r.Len())

	_, err = r.Step(0)
	require.NoError(t, err)
}
