package main

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// fetchKlines 拉取原始K线并做数值解析与校验
// 空响应、无法解析的字段、乱序时间戳都归为 DataError，网络类错误原样透传
// 不做缓存，每次调用都重新拉取，数据新鲜度由轮询周期兜底
func fetchKlines(ctx context.Context, client ExchangeClient, symbol, interval string, window int) ([]Kline, error) {
	rows, err := client.GetKlines(ctx, symbol, interval, window)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &DataError{Symbol: symbol, Reason: "K线响应为空"}
	}

	klines := make([]Kline, 0, len(rows))
	prevOpenTime := int64(-1)
	for i, r := range rows {
		k, err := parseRawKline(r)
		if err != nil {
			return nil, &DataError{Symbol: symbol, Reason: fmt.Sprintf("第 %d 行解析失败", i), Cause: err}
		}
		if k.OpenTime <= prevOpenTime {
			return nil, &DataError{Symbol: symbol, Reason: fmt.Sprintf("第 %d 行时间戳乱序", i)}
		}
		prevOpenTime = k.OpenTime
		klines = append(klines, k)
	}
	return klines, nil
}

// parseRawKline 将字符串字段解析为数值，收盘价必须为正
func parseRawKline(r RawKline) (Kline, error) {
	var k Kline
	var err error

	k.OpenTime = r.OpenTime
	if k.Open, err = strconv.ParseFloat(r.Open, 64); err != nil {
		return k, fmt.Errorf("open %q: %w", r.Open, err)
	}
	if k.High, err = strconv.ParseFloat(r.High, 64); err != nil {
		return k, fmt.Errorf("high %q: %w", r.High, err)
	}
	if k.Low, err = strconv.ParseFloat(r.Low, 64); err != nil {
		return k, fmt.Errorf("low %q: %w", r.Low, err)
	}
	if k.Close, err = strconv.ParseFloat(r.Close, 64); err != nil {
		return k, fmt.Errorf("close %q: %w", r.Close, err)
	}
	if k.Volume, err = strconv.ParseFloat(r.Volume, 64); err != nil {
		return k, fmt.Errorf("volume %q: %w", r.Volume, err)
	}
	if k.Close <= 0 {
		return k, fmt.Errorf("close 必须为正数: %v", k.Close)
	}
	return k, nil
}

// intervalToDuration 解析K线周期字符串，如 "15m" / "1h" / "1d"
func intervalToDuration(interval string) time.Duration {
	if len(interval) < 2 {
		return time.Minute
	}
	n, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil || n <= 0 {
		return time.Minute
	}
	switch interval[len(interval)-1] {
	case 'm':
		return time.Duration(n) * time.Minute
	case 'h':
		return time.Duration(n) * time.Hour
	case 'd':
		return time.Duration(n) * 24 * time.Hour
	default:
		return time.Minute
	}
}
