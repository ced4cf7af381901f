package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"
)

// BinanceSpotExchange 真实币安现货客户端，绑定到单个 REST 地址
// 故障转移由 ConnectionManager 负责：每个候选地址各自构造一个实例
type BinanceSpotExchange struct {
	client   *binance.Client
	limiter  *rate.Limiter
	endpoint string
}

// NewBinanceSpotExchange 创建绑定指定 endpoint 的现货客户端
func NewBinanceSpotExchange(apiKey, secretKey, endpoint, proxyURL string) *BinanceSpotExchange {
	client := binance.NewClient(apiKey, secretKey)
	if endpoint != "" {
		client.BaseURL = endpoint
	}

	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			log.Printf("Warning: Invalid Proxy URL: %v", err)
		} else {
			client.HTTPClient = &http.Client{
				Transport: &http.Transport{Proxy: http.ProxyURL(proxy)},
			}
			log.Printf("✅ Binance Client using Proxy: %s", proxyURL)
		}
	}

	return &BinanceSpotExchange{
		client: client,
		// 现货 REST 权重限制约 1200/min，保守限制为每秒 8 个请求
		limiter:  rate.NewLimiter(rate.Limit(8), 16),
		endpoint: endpoint,
	}
}

// Endpoint 返回当前绑定的 REST 地址
func (e *BinanceSpotExchange) Endpoint() string { return e.endpoint }

// GetServerTime 获取服务器时间，用作连通性探测
func (e *BinanceSpotExchange) GetServerTime(ctx context.Context) (int64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return e.client.NewServerTimeService().Do(ctx)
}

// GetKlines 获取原始K线行
func (e *BinanceSpotExchange) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]RawKline, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	klines, err := e.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]RawKline, 0, len(klines))
	for _, k := range klines {
		rows = append(rows, RawKline{
			OpenTime: k.OpenTime,
			Open:     k.Open,
			High:     k.High,
			Low:      k.Low,
			Close:    k.Close,
			Volume:   k.Volume,
		})
	}
	return rows, nil
}

// GetFreeBalance 查询某资产的可用余额
func (e *BinanceSpotExchange) GetFreeBalance(ctx context.Context, asset string) (float64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	acc, err := e.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return 0, err
	}

	for _, b := range acc.Balances {
		if b.Asset != asset {
			continue
		}
		free, err := strconv.ParseFloat(b.Free, 64)
		if err != nil {
			return 0, fmt.Errorf("解析 %s 可用余额失败: %w", asset, err)
		}
		return free, nil
	}
	// 账户里没有该资产视作余额为0
	return 0, nil
}

// SubmitMarketOrder 提交市价单
func (e *BinanceSpotExchange) SubmitMarketOrder(ctx context.Context, symbol string, side OrderSide, quantity string) (int64, float64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return 0, 0, err
	}

	res, err := e.client.NewCreateOrderService().
		Symbol(symbol).
		Side(binance.SideType(side)).
		Type(binance.OrderTypeMarket).
		Quantity(quantity).
		Do(ctx)
	if err != nil {
		return 0, 0, err
	}

	filled, _ := strconv.ParseFloat(res.ExecutedQuantity, 64)
	log.Printf("Binance Executed: %s %s Qty:%s OrderID:%d", side, symbol, quantity, res.OrderID)
	return res.OrderID, filled, nil
}
