package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordClose(r CloseRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO closes
		(trade_id, trade_index, action, units, entry_price, close_price, open_time, close_time, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TradeID, r.TradeIndex, r.Action, r.Units, r.EntryPrice,
		r.ClosePrice, r.OpenTime, r.CloseTime, r.RealizedPL, r.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordPL(s PLSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO pl
		(time, price, unrealized, realized, total)
		VALUES (?, ?, ?, ?, ?)`,
		s.Time, s.Price, s.Unrealized, s.Realized, s.Total,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
