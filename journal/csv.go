package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	closes *csv.Writer
	pl     *csv.Writer
	cf, pf *os.File
}

func NewCSV(closesPath, plPath string) (*CSVJournal, error) {
	cf, err := os.Create(closesPath)
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(plPath)
	if err != nil {
		cf.Close()
		return nil, err
	}

	cw := csv.NewWriter(cf)
	pw := csv.NewWriter(pf)

	if err := cw.Write([]string{"trade_id", "trade_index", "action", "units", "entry_price", "close_price", "open_time", "close_time", "realized_pl", "reason"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"time", "price", "unrealized", "realized", "total"}); err != nil {
		return nil, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{cw, pw, cf, pf}, nil
}

func (j *CSVJournal) RecordClose(r CloseRecord) error {
	err := j.closes.Write([]string{
		r.TradeID,
		strconv.Itoa(r.TradeIndex),
		r.Action,
		f(r.Units),
		f(r.EntryPrice),
		f(r.ClosePrice),
		r.OpenTime.Format(time.RFC3339),
		r.CloseTime.Format(time.RFC3339),
		f(r.RealizedPL),
		r.Reason,
	})
	if err != nil {
		return err
	}
	j.closes.Flush()
	return j.closes.Error()
}

func (j *CSVJournal) RecordPL(s PLSnapshot) error {
	err := j.pl.Write([]string{
		s.Time.Format(time.RFC3339),
		f(s.Price),
		f(s.Unrealized),
		f(s.Realized),
		f(s.Total),
	})
	if err != nil {
		return err
	}
	j.pl.Flush()
	return j.pl.Error()
}

func (j *CSVJournal) Close() error {
	j.closes.Flush()
	if err := j.closes.Error(); err != nil {
		return err
	}
	j.pl.Flush()
	if err := j.pl.Error(); err != nil {
		return err
	}

	if err := j.cf.Close(); err != nil {
		return err
	}
	return j.pf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
