package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete simulator configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Data    DataConfig    `json:"data" yaml:"data"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr       string `json:"addr" yaml:"addr" env:"PAPERTRADE_ADDR"`
	CORSOrigin string `json:"cors_origin" yaml:"cors_origin" env:"PAPERTRADE_CORS_ORIGIN"`
}

// DataConfig locates candle files. Files are named <symbol><interval>.csv
// (EURUSD1.csv, EURUSD5.csv, ...); when an interval file is missing the
// 1-minute file is resampled instead.
type DataConfig struct {
	Dir             string `json:"dir" yaml:"dir" env:"PAPERTRADE_DATA_DIR"`
	Symbol          string `json:"symbol" yaml:"symbol" env:"PAPERTRADE_SYMBOL"`
	DefaultInterval int    `json:"default_interval" yaml:"default_interval"`
}

// FileFor returns the candle file path for an interval in minutes.
func (d DataConfig) FileFor(interval int) string {
	return filepath.Join(d.Dir, fmt.Sprintf("%s%d.csv", d.Symbol, interval))
}

// BaseFile is the 1-minute source every coarser interval can be resampled from.
func (d DataConfig) BaseFile() string {
	return d.FileFor(1)
}

// JournalConfig controls the audit journal of close events.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	ClosesFile string `json:"closes_file,omitempty" yaml:"closes_file,omitempty"`
	PLFile     string `json:"pl_file,omitempty" yaml:"pl_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty" env:"PAPERTRADE_JOURNAL_DB"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on
// content), applies environment overrides, and validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays PAPERTRADE_* environment variables onto the config.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("apply env overrides: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}
	if c.Data.DefaultInterval < 1 {
		return fmt.Errorf("data.default_interval must be >= 1")
	}
	switch strings.ToLower(c.Journal.Type) {
	case "csv":
		if c.Journal.ClosesFile == "" || c.Journal.PLFile == "" {
			return fmt.Errorf("journal closes_file and pl_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":5000",
			CORSOrigin: "*",
		},
		Data: DataConfig{
			Dir:             "./data",
			Symbol:          "EURUSD",
			DefaultInterval: 1,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./papertrade.sqlite",
		},
	}
}
