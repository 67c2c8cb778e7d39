package journal

import (
	"fmt"
	"time"
)

// GetTradeCloses returns every close slice recorded for one trade, oldest
// first. A trade closed in two partial slices yields two records.
func (j *SQLiteJournal) GetTradeCloses(tradeID string) ([]CloseRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, trade_index, action, units, entry_price, close_price, open_time, close_time, realized_pl, reason
		FROM closes
		WHERE trade_id = ?
		ORDER BY close_time ASC`, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := scanCloses(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("trade %q not found", tradeID)
	}
	return out, nil
}

// ListClosesBetween returns close slices whose close_time is within [start, end).
func (j *SQLiteJournal) ListClosesBetween(start, end time.Time) ([]CloseRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, trade_index, action, units, entry_price, close_price, open_time, close_time, realized_pl, reason
		FROM closes
		WHERE close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCloses(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanCloses(rows rowScanner) ([]CloseRecord, error) {
	var out []CloseRecord
	for rows.Next() {
		var rec CloseRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.TradeIndex,
			&rec.Action,
			&rec.Units,
			&rec.EntryPrice,
			&rec.ClosePrice,
			&rec.OpenTime,
			&rec.CloseTime,
			&rec.RealizedPL,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
