package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteRecordAndQuery(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)
	tm := time.Date(2024, 1, 2, 10, 15, 0, 0, time.UTC)

	rec := testRecord(tm)
	require.NoError(t, j.RecordClose(rec))

	final := rec
	final.Units = 6000
	final.ClosePrice = 1.0990
	final.RealizedPL = -6.0
	final.Reason = "close"
	final.CloseTime = tm.Add(time.Minute)
	require.NoError(t, j.RecordClose(final))

	got, err := j.GetTradeCloses("01HTEST")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "partial_close", got[0].Reason)
	assert.Equal(t, "close", got[1].Reason)
	assert.InDelta(t, 8.0, got[0].RealizedPL, 1e-9)
	assert.InDelta(t, -6.0, got[1].RealizedPL, 1e-9)
	assert.True(t, got[0].CloseTime.Before(got[1].CloseTime))
}

func TestSQLiteGetTradeClosesMissing(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)
	_, err := j.GetTradeCloses("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListClosesBetween(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)
	tm := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := testRecord(tm.Add(time.Duration(i) * time.Hour))
		require.NoError(t, j.RecordClose(rec))
	}

	got, err := j.ListClosesBetween(tm, tm.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2, "range is half-open")

	got, err = j.ListClosesBetween(tm.Add(24*time.Hour), tm.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteRecordPL(t *testing.T) {
	t.Parallel()

	j := newTestDB(t)
	require.NoError(t, j.RecordPL(PLSnapshot{
		Time: time.Now().UTC(), Price: 1.1, Unrealized: 1, Realized: 2, Total: 3,
	}))
}
