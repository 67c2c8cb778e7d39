// Package server exposes the paper-trading session over HTTP, with routes
// and JSON shapes meant for a polling single-page frontend.
package server

import (
	"net/http"
	"sync"
	"time"

	gin "github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/sim"
)

// Server wires the router, the single replay session, and middleware.
// The session (ledger + replay) is injected, never a package-level global,
// and serializes its own mutation; the server adds no state of its own
// beyond the per-interval series cache.
type Server struct {
	R      *gin.Engine
	Ledger *sim.Ledger
	Replay *sim.Replay
	Data   config.DataConfig
	Logger *zap.Logger

	mu     sync.Mutex
	series map[int][]market.Candle // interval minutes -> loaded series
}

type apiError struct {
	Error string `json:"error"`
}

func NewServer(ledger *sim.Ledger, data config.DataConfig, logger *zap.Logger, corsOrigin string) *Server {
	g := gin.New()

	// Request logging
	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info("http_request",
			zap.String("method", cn.Request.Method),
			zap.String("path", cn.Request.URL.Path),
			zap.Int("status", cn.Writer.Status()),
			zap.String("ip", cn.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	})

	g.Use(gin.Recovery())

	// CORS
	g.Use(func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	})

	s := &Server{
		R:      g,
		Ledger: ledger,
		Replay: sim.NewReplay(ledger, nil),
		Data:   data,
		Logger: logger,
		series: make(map[int][]market.Candle),
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })
	g.GET("/api/initialize", s.initialize)
	g.GET("/api/current_price", s.currentPrice)
	g.POST("/api/historical_data", s.historicalData)
	g.GET("/api/account", s.getAccount)
	g.POST("/api/account", s.openTrade)
	g.POST("/api/close_trade", s.closeTrade)
	g.POST("/api/backtest", s.nextCandle)

	return s
}

// --- Helpers ---

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Error: msg})
}

func (s *Server) notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, apiError{Error: msg})
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apiError{Error: "internal server error"})
}
