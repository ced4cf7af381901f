package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2/common"
)

// SimulatedExchange 模拟交易所：随机游走行情 + 虚拟余额，实现 ExchangeClient
// 没有配置 API Key 时作为数据源使用，测试也用它跑完整周期
type SimulatedExchange struct {
	mu          sync.Mutex
	balances    map[string]float64
	series      map[string][]Kline
	rng         *rand.Rand
	nextOrderID int64
}

// NewSimulatedExchange 创建模拟交易所，初始资金记入指定计价币
func NewSimulatedExchange(initialQuote float64, quoteAsset string) *SimulatedExchange {
	s := &SimulatedExchange{
		balances:    make(map[string]float64),
		series:      make(map[string][]Kline),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		nextOrderID: 1,
	}
	if quoteAsset != "" {
		s.balances[quoteAsset] = initialQuote
	}
	return s
}

// GetServerTime 模拟盘永远在线
func (s *SimulatedExchange) GetServerTime(ctx context.Context) (int64, error) {
	return time.Now().UnixMilli(), nil
}

// GetKlines 生成随机游走K线；每次调用向前推进一根，模拟时间流逝
func (s *SimulatedExchange) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]RawKline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := intervalToDuration(interval)
	series := s.series[symbol]
	if len(series) < limit {
		series = s.generateSeries(symbol, step, limit)
	} else {
		series = append(series, s.nextKline(series, step))
		// 防止序列无限增长
		if len(series) > limit*2 {
			series = series[len(series)-limit:]
		}
	}
	s.series[symbol] = series

	tail := series
	if len(tail) > limit {
		tail = tail[len(tail)-limit:]
	}

	rows := make([]RawKline, 0, len(tail))
	for _, k := range tail {
		rows = append(rows, RawKline{
			OpenTime: k.OpenTime,
			Open:     strconv.FormatFloat(k.Open, 'f', -1, 64),
			High:     strconv.FormatFloat(k.High, 'f', -1, 64),
			Low:      strconv.FormatFloat(k.Low, 'f', -1, 64),
			Close:    strconv.FormatFloat(k.Close, 'f', -1, 64),
			Volume:   strconv.FormatFloat(k.Volume, 'f', -1, 64),
		})
	}
	return rows, nil
}

// GetFreeBalance 查询虚拟余额
func (s *SimulatedExchange) GetFreeBalance(ctx context.Context, asset string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[asset], nil
}

// SubmitMarketOrder 按最新收盘价立刻成交，维护虚拟余额
// 余额不足时返回与币安一致的 APIError，方便上层统一分类
func (s *SimulatedExchange) SubmitMarketOrder(ctx context.Context, symbol string, side OrderSide, quantity string) (int64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty, err := strconv.ParseFloat(quantity, 64)
	if err != nil || qty <= 0 {
		return 0, 0, fmt.Errorf("无效的下单数量: %q", quantity)
	}

	series := s.series[symbol]
	if len(series) == 0 {
		return 0, 0, fmt.Errorf("no market data for %s", symbol)
	}
	price := series[len(series)-1].Close

	base, quote, ok := deriveAssets(symbol)
	if !ok {
		return 0, 0, fmt.Errorf("无法识别交易对 %s 的 base/quote", symbol)
	}

	switch side {
	case SideBuy:
		cost := qty * price
		if s.balances[quote] < cost {
			return 0, 0, &common.APIError{Code: -2010, Message: "Account has insufficient balance for requested action."}
		}
		s.balances[quote] -= cost
		s.balances[base] += qty
	case SideSell:
		if s.balances[base] < qty {
			return 0, 0, &common.APIError{Code: -2010, Message: "Account has insufficient balance for requested action."}
		}
		s.balances[base] -= qty
		s.balances[quote] += qty * price
	default:
		return 0, 0, fmt.Errorf("无效的订单方向: %s", side)
	}

	orderID := s.nextOrderID
	s.nextOrderID++
	return orderID, qty, nil
}

// generateSeries 生成以当前时间结尾的完整随机游走序列，起始价 100
func (s *SimulatedExchange) generateSeries(symbol string, step time.Duration, limit int) []Kline {
	series := make([]Kline, 0, limit)
	openTime := time.Now().Add(-time.Duration(limit) * step).Truncate(step)
	price := 100.0

	for i := 0; i < limit; i++ {
		k := s.randomKline(price, openTime.UnixMilli())
		series = append(series, k)
		price = k.Close
		openTime = openTime.Add(step)
	}
	return series
}

// nextKline 基于序列末尾生成下一根K线
func (s *SimulatedExchange) nextKline(series []Kline, step time.Duration) Kline {
	last := series[len(series)-1]
	return s.randomKline(last.Close, last.OpenTime+step.Milliseconds())
}

// randomKline 单根K线：收盘价在开盘价基础上随机波动 ±0.5%
func (s *SimulatedExchange) randomKline(open float64, openTime int64) Kline {
	change := (s.rng.Float64() - 0.5) / 100.0
	close := open * (1 + change)
	high := open
	if close > high {
		high = close
	}
	low := open
	if close < low {
		low = close
	}
	return Kline{
		OpenTime: openTime,
		Open:     open,
		High:     high * 1.001,
		Low:      low * 0.999,
		Close:    close,
		Volume:   s.rng.Float64() * 10,
	}
}
