package server

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/sim"
)

const timeLayout = "2006-01-02 15:04"

// candleJSON is the wire shape the frontend charts: minute-precision time
// strings rather than RFC3339.
type candleJSON struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func toCandleJSON(c market.Candle) candleJSON {
	return candleJSON{
		Time:   c.Time.Format(timeLayout),
		Open:   c.Open,
		High:   c.High,
		Low:    c.Low,
		Close:  c.Close,
		Volume: c.Volume,
	}
}

func toCandlesJSON(cs []market.Candle) []candleJSON {
	out := make([]candleJSON, len(cs))
	for i, c := range cs {
		out[i] = toCandleJSON(c)
	}
	return out
}

// loadSeries returns the candle series for an interval, loading it on first
// use. When no file exists for the interval, the 1-minute base file is
// resampled instead.
func (s *Server) loadSeries(interval int) ([]market.Candle, error) {
	if interval < 1 {
		interval = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if series, ok := s.series[interval]; ok {
		return series, nil
	}

	path := s.Data.FileFor(interval)
	if _, err := os.Stat(path); err == nil {
		series, err := market.LoadSeries(path)
		if err != nil {
			return nil, err
		}
		s.series[interval] = series
		return series, nil
	}

	base, err := market.LoadSeries(s.Data.BaseFile())
	if err != nil {
		return nil, err
	}
	series, err := market.Resample(base, interval)
	if err != nil {
		return nil, err
	}
	s.series[interval] = series
	return series, nil
}

// activate loads the interval's series, points the replay at it, and sets
// the first candle current so price queries work before the first step.
func (s *Server) activate(interval int) ([]market.Candle, error) {
	series, err := s.loadSeries(interval)
	if err != nil {
		return nil, err
	}
	s.Replay.SetSeries(series)
	if len(series) > 0 {
		s.Ledger.Advance(series[0])
	}
	return series, nil
}

// --- Handlers ---

func (s *Server) initialize(c *gin.Context) {
	series, err := s.activate(s.Data.DefaultInterval)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, market.ErrNoData) {
			s.notFound(c, "no data found")
			return
		}
		s.internalError(c, "initialize", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "System initialized",
		"currentCandle": toCandleJSON(series[0]),
		"currentPrice":  series[0].Close,
	})
}

func (s *Server) currentPrice(c *gin.Context) {
	price, ok := s.Ledger.CurrentPrice()
	if !ok {
		s.notFound(c, "no price data available")
		return
	}
	c.JSON(http.StatusOK, gin.H{"currentPrice": price})
}

type historicalDataRequest struct {
	TimeInterval int    `json:"timeInterval"`
	StartDate    string `json:"startDate"`
}

func (s *Server) historicalData(c *gin.Context) {
	var req historicalDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}
	if req.TimeInterval == 0 {
		req.TimeInterval = 1
	}

	series, err := s.activate(req.TimeInterval)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, market.ErrNoData) {
			s.notFound(c, "no data found")
			return
		}
		s.internalError(c, "historicalData", err)
		return
	}

	if req.StartDate != "" {
		cutoff, err := parseMinuteTime(req.StartDate)
		if err != nil {
			s.badRequest(c, "invalid startDate")
			return
		}
		filtered := make([]market.Candle, 0, len(series))
		for _, cd := range series {
			if !cd.Time.After(cutoff) {
				filtered = append(filtered, cd)
			}
		}
		series = filtered
	}

	c.JSON(http.StatusOK, toCandlesJSON(series))
}

func (s *Server) getAccount(c *gin.Context) {
	trades, pl := s.Ledger.Snapshot()

	resp := gin.H{
		"trades": trades,
		"pnl":    pl.Rounded(),
	}
	if price, ok := s.Ledger.CurrentPrice(); ok {
		resp["currentPrice"] = price
	} else {
		resp["currentPrice"] = nil
	}
	c.JSON(http.StatusOK, resp)
}

type openTradeRequest struct {
	Price    *float64 `json:"price"`
	Quantity float64  `json:"quantity"`
	Action   string   `json:"action"`
	Time     string   `json:"time"`
}

func (s *Server) openTrade(c *gin.Context) {
	var req openTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}

	var entryTime time.Time
	if req.Time != "" {
		t, err := parseMinuteTime(req.Time)
		if err != nil {
			s.badRequest(c, "invalid time")
			return
		}
		entryTime = t
	}

	trade, price, err := s.Ledger.Open(sim.OpenRequest{
		EntryPrice: req.Price,
		Quantity:   req.Quantity,
		Action:     req.Action,
		EntryTime:  entryTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, sim.ErrInvalidInput), errors.Is(err, sim.ErrNoPrice):
			s.badRequest(c, err.Error())
		default:
			s.internalError(c, "openTrade", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Trade saved successfully!",
		"trade":        trade,
		"currentPrice": price,
	})
}

type closeTradeRequest struct {
	TradeIndex *int     `json:"tradeIndex"`
	ClosePrice *float64 `json:"closePrice"`
	Quantity   *float64 `json:"quantity"`
}

func (s *Server) closeTrade(c *gin.Context) {
	var req closeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}
	if req.TradeIndex == nil {
		s.badRequest(c, "trade index is required")
		return
	}

	qty := 0.0 // full close
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	res, err := s.Ledger.Close(*req.TradeIndex, req.ClosePrice, qty)
	if err != nil {
		switch {
		case errors.Is(err, sim.ErrTradeNotFound):
			s.notFound(c, err.Error())
		case errors.Is(err, sim.ErrInvalidInput), errors.Is(err, sim.ErrNoPrice):
			s.badRequest(c, err.Error())
		default:
			s.internalError(c, "closeTrade", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Trade closed successfully!",
		"trade":      res.Trade,
		"realizedPL": sim.Round2(res.Delta),
		"pnl":        res.PL.Rounded(),
	})
}

type backtestRequest struct {
	CurrentIndex int `json:"currentIndex"`
	TimeInterval int `json:"timeInterval"`
}

func (s *Server) nextCandle(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body")
		return
	}
	if req.TimeInterval == 0 {
		req.TimeInterval = 1
	}

	series, err := s.loadSeries(req.TimeInterval)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, market.ErrNoData) {
			s.notFound(c, "no data found")
			return
		}
		s.internalError(c, "nextCandle", err)
		return
	}
	s.Replay.SetSeries(series)

	step, err := s.Replay.Step(req.CurrentIndex)
	if err != nil {
		if errors.Is(err, sim.ErrExhaustedSeries) {
			s.badRequest(c, "no more data")
			return
		}
		s.internalError(c, "nextCandle", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nextCandlestick": toCandleJSON(step.Candle),
		"nextIndex":       step.NextIndex,
		"trades":          step.Trades,
		"pnl":             step.PL.Rounded(),
		"currentPrice":    step.Price,
	})
}

func parseMinuteTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{timeLayout, "2006-01-02 15:04:05", "2006-01-02", time.RFC3339}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
