package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// TradingConfig 一次会话的全部配置，加载后不再修改
// 建议复制 config.local.example.json 为 config.local.json 填写，
// 该文件应加入 .gitignore，避免提交 API Key
type TradingConfig struct {
	Symbol              string   `json:"symbol"`                // 交易对，如 "BTCTRY"
	Interval            string   `json:"interval"`              // K线周期，如 "15m"
	CandleWindow        int      `json:"candle_window"`         // 拉取的K线数量
	PerTradeBudget      float64  `json:"per_trade_budget"`      // 单次买入预算（计价币）
	Mode                Mode     `json:"mode"`                  // SIMULATION / LIVE
	PollIntervalSeconds int      `json:"poll_interval_seconds"` // 轮询间隔（秒）
	CandidateEndpoints  []string `json:"candidate_endpoints"`   // REST 地址候选列表，按优先级排列
	MinNotional         float64  `json:"min_notional"`          // 交易所最小名义价值
	QuoteAsset          string   `json:"quote_asset"`           // 留空则从 symbol 推导
	BaseAsset           string   `json:"base_asset"`            // 留空则从 symbol 推导
	TradeLogCapacity    int      `json:"trade_log_capacity"`    // 交易日志容量

	// 币安实盘相关（LIVE 模式必填）
	BinanceAPIKey    string `json:"binance_api_key"`
	BinanceSecretKey string `json:"binance_secret_key"`
	BinanceProxyURL  string `json:"binance_proxy_url"`

	// Telegram 通知（可选）
	Telegram TelegramConfig `json:"telegram"`

	// Web 监控端口
	WebPort int `json:"web_port"`
}

// 常见计价币后缀，用于从交易对推导 base/quote
var knownQuoteAssets = []string{"USDT", "BUSD", "USDC", "TRY", "BTC", "ETH", "BNB"}

// LoadConfig 读取 config.local.json，环境变量兜底，最后套默认值并校验
func LoadConfig() (*TradingConfig, error) {
	return loadConfigFrom("config.local.json")
}

func loadConfigFrom(path string) (*TradingConfig, error) {
	// .env 存在则先加载进环境变量
	_ = godotenv.Load()

	cfg := &TradingConfig{}

	// 1. 优先从本地文件读取
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("解析 %s 失败: %v", path, err)}
		}
	}

	// 2. 文件中没填的，用环境变量兜底
	if cfg.Symbol == "" {
		cfg.Symbol = os.Getenv("TRADING_SYMBOL")
	}
	if cfg.Interval == "" {
		cfg.Interval = os.Getenv("TRADING_INTERVAL")
	}
	if cfg.Mode == "" {
		cfg.Mode = Mode(strings.ToUpper(os.Getenv("TRADING_MODE")))
	}
	if cfg.BinanceAPIKey == "" {
		cfg.BinanceAPIKey = os.Getenv("BINANCE_API_KEY")
	}
	if cfg.BinanceSecretKey == "" {
		cfg.BinanceSecretKey = os.Getenv("BINANCE_SECRET_KEY")
	}
	if cfg.BinanceProxyURL == "" {
		cfg.BinanceProxyURL = os.Getenv("BINANCE_PROXY_URL")
	}
	if cfg.PollIntervalSeconds == 0 {
		if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
			if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
				cfg.PollIntervalSeconds = sec
			}
		}
	}

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults 补齐默认值，默认模拟盘 + 币安TR优先的地址列表
func applyDefaults(cfg *TradingConfig) {
	if cfg.Symbol == "" {
		cfg.Symbol = "BTCTRY"
	}
	if cfg.Interval == "" {
		cfg.Interval = "15m"
	}
	if cfg.CandleWindow <= 0 {
		cfg.CandleWindow = 100
	}
	if cfg.PerTradeBudget <= 0 {
		cfg.PerTradeBudget = 250
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeSimulation
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 15
	}
	if len(cfg.CandidateEndpoints) == 0 {
		cfg.CandidateEndpoints = []string{
			"https://api.trbinance.com",
			"https://api.binance.com",
			"https://api1.binance.com",
			"https://api2.binance.com",
		}
	}
	if cfg.MinNotional <= 0 {
		cfg.MinNotional = 10
	}
	if cfg.TradeLogCapacity <= 0 {
		cfg.TradeLogCapacity = defaultTradeLogCapacity
	}
	if cfg.WebPort <= 0 {
		cfg.WebPort = 8080
	}

	if cfg.BaseAsset == "" || cfg.QuoteAsset == "" {
		if base, quote, ok := deriveAssets(cfg.Symbol); ok {
			if cfg.BaseAsset == "" {
				cfg.BaseAsset = base
			}
			if cfg.QuoteAsset == "" {
				cfg.QuoteAsset = quote
			}
		}
	}
}

// validateConfig 启动期校验，任何一条不满足都视为致命的配置错误
func validateConfig(cfg *TradingConfig) error {
	if cfg.Symbol == "" {
		return &ConfigurationError{Reason: "symbol 不能为空"}
	}
	if len(cfg.CandidateEndpoints) == 0 {
		return &ConfigurationError{Reason: "candidate_endpoints 不能为空"}
	}
	if cfg.Mode != ModeSimulation && cfg.Mode != ModeLive {
		return &ConfigurationError{Reason: fmt.Sprintf("mode 必须是 SIMULATION 或 LIVE: %q", cfg.Mode)}
	}
	// 布林带需要20根，RSI需要15根，窗口至少要覆盖布林带
	if cfg.CandleWindow < bollPeriod {
		return &ConfigurationError{Reason: fmt.Sprintf("candle_window 至少为 %d，当前 %d", bollPeriod, cfg.CandleWindow)}
	}
	if cfg.BaseAsset == "" || cfg.QuoteAsset == "" {
		return &ConfigurationError{Reason: fmt.Sprintf("无法从交易对 %q 推导 base/quote，请显式配置 base_asset / quote_asset", cfg.Symbol)}
	}
	if cfg.Mode == ModeLive && (cfg.BinanceAPIKey == "" || cfg.BinanceSecretKey == "") {
		return &ConfigurationError{Reason: "LIVE 模式必须配置 binance_api_key / binance_secret_key"}
	}
	return nil
}

// deriveAssets 按已知计价币后缀拆分交易对，如 BTCTRY -> BTC / TRY
func deriveAssets(symbol string) (base, quote string, ok bool) {
	for _, q := range knownQuoteAssets {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return symbol[:len(symbol)-len(q)], q, true
		}
	}
	return "", "", false
}
