package main

import (
	"fmt"
	"time"
)

// 信号阈值：买入要求 RSI 与布林带双重确认（入场保守），
// 卖出任一条件触发即离场（出场积极）
const (
	rsiBuyThreshold  = 32.0
	rsiSellThreshold = 68.0
)

// decide 将最新指标快照映射为交易决策
// 纯函数：同样的快照永远得到同样的决策，不产生任何副作用
func decide(snap IndicatorSnapshot, now time.Time) Decision {
	d := Decision{
		Action:         ActionHold,
		Timestamp:      now,
		ReferencePrice: snap.LastPrice,
	}

	// 任一指标未定义时一律观望，历史不足不是可交易信号
	if !snap.HasRSI || !snap.HasBands {
		d.Reason = "指标历史不足，观望"
		return d
	}

	switch {
	case snap.RSI14 < rsiBuyThreshold && snap.LastPrice < snap.LowerBand:
		d.Action = ActionBuy
		d.Reason = fmt.Sprintf("RSI=%.1f 低于 %.0f 且价格 %.4f 跌破下轨 %.4f",
			snap.RSI14, rsiBuyThreshold, snap.LastPrice, snap.LowerBand)
	case snap.RSI14 > rsiSellThreshold || snap.LastPrice > snap.UpperBand:
		d.Action = ActionSell
		d.Reason = fmt.Sprintf("RSI=%.1f / 价格 %.4f 相对上轨 %.4f 触发离场",
			snap.RSI14, snap.LastPrice, snap.UpperBand)
	default:
		d.Reason = fmt.Sprintf("RSI=%.1f 区间内，价格在带内，持仓不动", snap.RSI14)
	}
	return d
}
