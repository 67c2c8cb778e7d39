package market

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrNoData is returned when a source file exists but contains no usable rows.
var ErrNoData = errors.New("no candle data")

// Accepted datetime layouts. MT4-style exports use dotted dates, minute
// precision; some tools re-export with dashes or add seconds.
var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02 15:04:05",
}

// LoadSeries reads a tab-separated candle file with rows of
//
//	datetime  open  high  low  close  volume
//
// and no header (a header line is tolerated and skipped, as are blank and
// malformed lines). Rows are returned in file order.
func LoadSeries(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var candles []Candle
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 6 {
			continue
		}

		ts, err := parseTime(parts[0])
		if err != nil {
			// header or junk line
			continue
		}

		var vals [5]float64
		bad := false
		for i := 1; i <= 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				bad = true
				break
			}
			vals[i-1] = v
		}
		if bad {
			continue
		}

		candles = append(candles, Candle{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoData, path)
	}
	return candles, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Resample aggregates a minute series into intervalMinutes buckets:
// open = first, high = max, low = min, close = last, volume = sum.
// Buckets missing any of their minutes are dropped so a coarse candle never
// misrepresents a partially covered interval. interval 1 returns the input.
func Resample(series []Candle, intervalMinutes int) ([]Candle, error) {
	if intervalMinutes < 1 {
		return nil, fmt.Errorf("resample: interval must be >= 1, got %d", intervalMinutes)
	}
	if intervalMinutes == 1 || len(series) == 0 {
		return series, nil
	}

	interval := time.Duration(intervalMinutes) * time.Minute

	var out []Candle
	var cur Candle
	count := 0
	var bucket time.Time

	flush := func() {
		if count == intervalMinutes {
			out = append(out, cur)
		}
		count = 0
	}

	for _, c := range series {
		b := c.Time.Truncate(interval)
		if count == 0 || !b.Equal(bucket) {
			flush()
			bucket = b
			cur = Candle{
				Time:   b,
				Open:   c.Open,
				High:   c.High,
				Low:    c.Low,
				Close:  c.Close,
				Volume: c.Volume,
			}
			count = 1
			continue
		}

		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
		count++
	}
	flush()

	return out, nil
}
