package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "EURUSD", cfg.Data.Symbol)
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papertrade.yaml")
	content := `
server:
  addr: ":8080"
  cors_origin: "http://localhost:3000"
data:
  dir: ./testdata
  symbol: EURUSD
  default_interval: 5
journal:
  type: csv
  closes_file: ./closes.csv
  pl_file: ./pl.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Data.DefaultInterval)
	assert.Equal(t, "csv", cfg.Journal.Type)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papertrade.json")
	content := `{"server":{"addr":":8080"},"data":{"dir":"./d","symbol":"EURUSD","default_interval":1},"journal":{"type":"none"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing_addr", func(c *Config) { c.Server.Addr = "" }},
		{"missing_dir", func(c *Config) { c.Data.Dir = "" }},
		{"missing_symbol", func(c *Config) { c.Data.Symbol = "" }},
		{"bad_interval", func(c *Config) { c.Data.DefaultInterval = 0 }},
		{"bad_journal_type", func(c *Config) { c.Journal.Type = "postgres" }},
		{"csv_missing_files", func(c *Config) { c.Journal.Type = "csv" }},
		{"sqlite_missing_path", func(c *Config) { c.Journal.Type = "sqlite"; c.Journal.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PAPERTRADE_ADDR", ":9999")
	t.Setenv("PAPERTRADE_DATA_DIR", "/srv/candles")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/srv/candles", cfg.Data.Dir)
	assert.Equal(t, "EURUSD", cfg.Data.Symbol, "untouched fields keep defaults")
}

func TestFileFor(t *testing.T) {
	d := DataConfig{Dir: "/data", Symbol: "EURUSD"}
	assert.Equal(t, filepath.Join("/data", "EURUSD15.csv"), d.FileFor(15))
	assert.Equal(t, filepath.Join("/data", "EURUSD1.csv"), d.BaseFile())
}
