package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfigFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Symbol != "BTCTRY" {
		t.Errorf("Expected default symbol BTCTRY, got %s", cfg.Symbol)
	}
	if cfg.Mode != ModeSimulation {
		t.Errorf("Expected default mode SIMULATION, got %s", cfg.Mode)
	}
	if cfg.BaseAsset != "BTC" || cfg.QuoteAsset != "TRY" {
		t.Errorf("Expected BTC/TRY derived, got %s/%s", cfg.BaseAsset, cfg.QuoteAsset)
	}
	if len(cfg.CandidateEndpoints) == 0 {
		t.Error("Expected default endpoint candidates")
	}
	if cfg.CandidateEndpoints[0] != "https://api.trbinance.com" {
		t.Errorf("Expected Binance TR endpoint first, got %s", cfg.CandidateEndpoints[0])
	}
	if cfg.MinNotional != 10 {
		t.Errorf("Expected default min notional 10, got %v", cfg.MinNotional)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"symbol": "ETHUSDT",
		"interval": "1h",
		"candle_window": 50,
		"per_trade_budget": 100,
		"mode": "SIMULATION",
		"poll_interval_seconds": 30,
		"min_notional": 100
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Symbol != "ETHUSDT" {
		t.Errorf("Expected ETHUSDT, got %s", cfg.Symbol)
	}
	if cfg.BaseAsset != "ETH" || cfg.QuoteAsset != "USDT" {
		t.Errorf("Expected ETH/USDT derived, got %s/%s", cfg.BaseAsset, cfg.QuoteAsset)
	}
	if cfg.MinNotional != 100 {
		t.Errorf("Expected min notional 100, got %v", cfg.MinNotional)
	}
	if cfg.PollIntervalSeconds != 30 {
		t.Errorf("Expected poll interval 30, got %d", cfg.PollIntervalSeconds)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfigFrom(path)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TradingConfig)
		wantErr bool
	}{
		{"valid", func(c *TradingConfig) {}, false},
		{"empty endpoints", func(c *TradingConfig) { c.CandidateEndpoints = nil }, true},
		{"window below bollinger period", func(c *TradingConfig) { c.CandleWindow = 10 }, true},
		{"bad mode", func(c *TradingConfig) { c.Mode = "PAPER" }, true},
		{"live without keys", func(c *TradingConfig) { c.Mode = ModeLive }, true},
		{"live with keys", func(c *TradingConfig) {
			c.Mode = ModeLive
			c.BinanceAPIKey = "k"
			c.BinanceSecretKey = "s"
		}, false},
		{"missing assets", func(c *TradingConfig) { c.BaseAsset = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Expected ConfigurationError, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
		})
	}
}

func TestDeriveAssets(t *testing.T) {
	tests := []struct {
		symbol string
		base   string
		quote  string
		ok     bool
	}{
		{"BTCTRY", "BTC", "TRY", true},
		{"ETHUSDT", "ETH", "USDT", true},
		{"SOLTRY", "SOL", "TRY", true},
		{"DOGEBTC", "DOGE", "BTC", true},
		{"XYZ", "", "", false},
		{"USDT", "", "", false}, // 只有计价币没有基础币
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			base, quote, ok := deriveAssets(tt.symbol)
			if ok != tt.ok || base != tt.base || quote != tt.quote {
				t.Errorf("deriveAssets(%s) = %s/%s/%v, expected %s/%s/%v",
					tt.symbol, base, quote, ok, tt.base, tt.quote, tt.ok)
			}
		})
	}
}
