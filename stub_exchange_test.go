package main

import (
	"context"
	"strconv"
	"time"
)

// mockExchangeClient scripted ExchangeClient for tests
type mockExchangeClient struct {
	serverTimeErr error
	klines        []RawKline
	klinesErr     error
	freeBalance   float64
	balanceErr    error
	orderErr      error
	orderID       int64

	serverTimeCalls int
	klinesCalls     int
	balanceCalls    int
	orderCalls      int
	lastOrderSide   OrderSide
	lastOrderQty    string
}

func (m *mockExchangeClient) GetServerTime(ctx context.Context) (int64, error) {
	m.serverTimeCalls++
	if m.serverTimeErr != nil {
		return 0, m.serverTimeErr
	}
	return time.Now().UnixMilli(), nil
}

func (m *mockExchangeClient) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]RawKline, error) {
	m.klinesCalls++
	if m.klinesErr != nil {
		return nil, m.klinesErr
	}
	return m.klines, nil
}

func (m *mockExchangeClient) GetFreeBalance(ctx context.Context, asset string) (float64, error) {
	m.balanceCalls++
	if m.balanceErr != nil {
		return 0, m.balanceErr
	}
	return m.freeBalance, nil
}

func (m *mockExchangeClient) SubmitMarketOrder(ctx context.Context, symbol string, side OrderSide, quantity string) (int64, float64, error) {
	m.orderCalls++
	m.lastOrderSide = side
	m.lastOrderQty = quantity
	if m.orderErr != nil {
		return 0, 0, m.orderErr
	}
	qty, _ := strconv.ParseFloat(quantity, 64)
	if m.orderID == 0 {
		m.orderID = 1
	}
	return m.orderID, qty, nil
}

// makeKlines builds an ascending series from close prices
func makeKlines(closes []float64) []Kline {
	klines := make([]Kline, 0, len(closes))
	base := int64(1_700_000_000_000)
	for i, c := range closes {
		klines = append(klines, Kline{
			OpenTime: base + int64(i)*60_000,
			Open:     c,
			High:     c * 1.001,
			Low:      c * 0.999,
			Close:    c,
			Volume:   1,
		})
	}
	return klines
}

// makeRawKlines builds raw rows from close prices
func makeRawKlines(closes []float64) []RawKline {
	rows := make([]RawKline, 0, len(closes))
	base := int64(1_700_000_000_000)
	for i, c := range closes {
		s := strconv.FormatFloat(c, 'f', -1, 64)
		rows = append(rows, RawKline{
			OpenTime: base + int64(i)*60_000,
			Open:     s,
			High:     s,
			Low:      s,
			Close:    s,
			Volume:   "1",
		})
	}
	return rows
}

// flatCloses returns n identical closes
func flatCloses(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

// oscillatingCloses 在 base 附近交替波动，涨跌平衡，RSI 保持中性
func oscillatingCloses(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i%2)
	}
	return out
}

func testConfig() *TradingConfig {
	return &TradingConfig{
		Symbol:              "BTCTRY",
		Interval:            "15m",
		CandleWindow:        100,
		PerTradeBudget:      250,
		Mode:                ModeSimulation,
		PollIntervalSeconds: 15,
		CandidateEndpoints:  []string{"https://example.test"},
		MinNotional:         10,
		QuoteAsset:          "TRY",
		BaseAsset:           "BTC",
		TradeLogCapacity:    10,
	}
}
