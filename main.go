package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	fmt.Println("╔═══════════════════════════════════════════════════╗")
	fmt.Println("║       Simple Spot Trader (RSI + Bollinger)        ║")
	fmt.Println("║       单交易对 | 轮询决策 | 模拟/实盘             ║")
	fmt.Println("╚═══════════════════════════════════════════════════╝")

	// 统一从本地配置文件 / 环境变量读取
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Println(err.Error())
		fmt.Println("👉 你可以直接在项目根目录创建 config.local.json 来配置")
		os.Exit(1)
	}

	// 有 API Key 就走真实币安行情，否则用模拟交易所
	var factory ExchangeFactory
	if cfg.BinanceAPIKey != "" && cfg.BinanceSecretKey != "" {
		fmt.Printf("🚀 使用真实币安行情 (%s 模式)\n", cfg.Mode)
		factory = func(endpoint string) ExchangeClient {
			return NewBinanceSpotExchange(cfg.BinanceAPIKey, cfg.BinanceSecretKey, endpoint, cfg.BinanceProxyURL)
		}
	} else {
		fmt.Println("🧪 使用模拟交易所 (虚拟资金 1000)")
		sim := NewSimulatedExchange(1000.0, cfg.QuoteAsset)
		factory = func(endpoint string) ExchangeClient { return sim }
	}

	conn := NewConnectionManager(cfg.CandidateEndpoints, factory)

	var notifier *TelegramNotifier
	if cfg.Telegram.Enabled {
		notifier = NewTelegramNotifier(cfg.Telegram)
	}

	engine := NewEngine(cfg, conn, notifier)

	// 启动 Web 监控
	server := NewWebServer(engine)
	engine.SetPublishHook(server.BroadcastState)
	server.Start(cfg.WebPort)

	// Ctrl+C / SIGTERM 优雅退出，在周期边界生效
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx); err != nil {
		log.Fatalf("引擎启动失败: %v", err)
	}
}
