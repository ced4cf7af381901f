package main

import (
	"math"
)

// 指标参数
const (
	rsiPeriod         = 14
	bollPeriod        = 20
	bollStdMultiplier = 2.0
)

// computeSnapshot 基于K线序列计算指标快照
// 历史不足时对应指标保持未定义 (HasXXX=false)，而不是填零
func computeSnapshot(klines []Kline) IndicatorSnapshot {
	var snap IndicatorSnapshot
	if len(klines) == 0 {
		return snap
	}
	snap.LastPrice = klines[len(klines)-1].Close

	if rsi, ok := calculateRSI(klines, rsiPeriod); ok {
		snap.RSI14 = rsi
		snap.HasRSI = true
	}

	if upper, ma, lower, std, ok := calculateBollingerBands(klines, bollPeriod, bollStdMultiplier); ok {
		snap.UpperBand = upper
		snap.MA20 = ma
		snap.LowerBand = lower
		snap.StdDev20 = std
		snap.HasBands = true
		snap.BandState = bandStateOf(snap.LastPrice, upper, lower)
	}

	return snap
}

// calculateRSI 计算RSI (Wilder平滑)，需要至少 period+1 根K线
func calculateRSI(klines []Kline, period int) (float64, bool) {
	if len(klines) <= period {
		return 0, false
	}

	gains := 0.0
	losses := 0.0

	// 计算初始平均涨跌幅
	for i := 1; i <= period; i++ {
		change := klines[i].Close - klines[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// 使用Wilder平滑方法计算后续RSI
	for i := period + 1; i < len(klines); i++ {
		change := klines[i].Close - klines[i-1].Close
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + (-change)) / float64(period)
		}
	}

	// 纯上涨行情没有跌幅，振荡器饱和在100，不能让除法出错
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	return rsi, true
}

// calculateBollingerBands 计算布林带 (基于SMA与样本标准差)
// 返回: upper, middle, lower, std
func calculateBollingerBands(klines []Kline, period int, stdDevMultiplier float64) (float64, float64, float64, float64, bool) {
	if len(klines) < period || period < 2 {
		return 0, 0, 0, 0, false
	}

	// 1. 计算 SMA (Middle Band)，取最近 period 个点
	subset := klines[len(klines)-period:]
	sum := 0.0
	for _, k := range subset {
		sum += k.Close
	}
	sma := sum / float64(period)

	// 2. 计算样本标准差
	varianceSum := 0.0
	for _, k := range subset {
		diff := k.Close - sma
		varianceSum += diff * diff
	}
	variance := varianceSum / float64(period-1)
	stdDev := math.Sqrt(variance)

	// 3. 计算 Upper 和 Lower
	upper := sma + (stdDev * stdDevMultiplier)
	lower := sma - (stdDev * stdDevMultiplier)

	return upper, sma, lower, stdDev, true
}

// bandStateOf 判断价格相对布林带的位置
func bandStateOf(price, upper, lower float64) BandState {
	switch {
	case price < lower:
		return BandBelowLower
	case price > upper:
		return BandAboveUpper
	default:
		return BandNormal
	}
}
