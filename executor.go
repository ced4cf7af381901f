package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// quantityPrecision 下单数量统一保留的小数位数
const quantityPrecision = 6

// ExecutionController 把信号决策转换为订单（或模拟记录）
// 安全约束：每个周期对同一决策最多发起一次下单尝试，失败不重试
type ExecutionController struct {
	cfg *TradingConfig
}

// NewExecutionController 创建执行控制器
func NewExecutionController(cfg *TradingConfig) *ExecutionController {
	return &ExecutionController{cfg: cfg}
}

// Execute 按决策执行，返回 nil 表示本周期无需记录 (HOLD 或无可卖余额)
func (e *ExecutionController) Execute(ctx context.Context, d Decision, client ExchangeClient) *TradeLogEntry {
	switch d.Action {
	case ActionBuy:
		return e.executeBuy(ctx, d, client)
	case ActionSell:
		return e.executeSell(ctx, d, client)
	default:
		// HOLD 不落日志
		return nil
	}
}

// executeBuy 用固定预算按参考价换算数量买入
func (e *ExecutionController) executeBuy(ctx context.Context, d Decision, client ExchangeClient) *TradeLogEntry {
	if d.ReferencePrice <= 0 {
		return &TradeLogEntry{
			Timestamp: d.Timestamp,
			Outcome:   OutcomeFailed,
			Text:      fmt.Sprintf("买入 %s 失败: 参考价格无效 %.4f", e.cfg.Symbol, d.ReferencePrice),
		}
	}

	qty := roundQuantity(e.cfg.PerTradeBudget / d.ReferencePrice)

	if e.cfg.Mode == ModeSimulation {
		return &TradeLogEntry{
			Timestamp: d.Timestamp,
			Outcome:   OutcomeSignalOnly,
			Text: fmt.Sprintf("📈 买入信号 %s 数量 %s @ %.4f (模拟，不下单)",
				e.cfg.Symbol, qty, d.ReferencePrice),
		}
	}

	order := e.submit(ctx, client, SideBuy, qty)
	return e.entryFor(order, d)
}

// executeSell 卖出全部可用余额
// 余额在决策时刻重新查询，绝不复用上个周期的旧值，避免超卖
func (e *ExecutionController) executeSell(ctx context.Context, d Decision, client ExchangeClient) *TradeLogEntry {
	free, err := client.GetFreeBalance(ctx, e.cfg.BaseAsset)
	if err != nil {
		oe := classifyOrderError(err)
		log.Printf("❌ 查询 %s 余额失败: %v", e.cfg.BaseAsset, err)
		return &TradeLogEntry{
			Timestamp: d.Timestamp,
			Outcome:   OutcomeFailed,
			Text:      fmt.Sprintf("卖出 %s 失败 [%s]: 查询余额出错: %v", e.cfg.Symbol, oe.Kind, err),
		}
	}

	// 没有可卖余额：不下单也不落日志
	if free <= 0 {
		return nil
	}

	notional := free * d.ReferencePrice
	if notional < e.cfg.MinNotional {
		return &TradeLogEntry{
			Timestamp: d.Timestamp,
			Outcome:   OutcomeSkipped,
			Text: fmt.Sprintf("卖出跳过: 名义价值 %.2f %s 低于最小限制 %.2f",
				notional, e.cfg.QuoteAsset, e.cfg.MinNotional),
		}
	}

	// 向下取整，数量不能超过实际余额
	qty := floorQuantity(free)

	if e.cfg.Mode == ModeSimulation {
		return &TradeLogEntry{
			Timestamp: d.Timestamp,
			Outcome:   OutcomeSignalOnly,
			Text: fmt.Sprintf("📉 卖出信号 %s 数量 %s @ %.4f (模拟，不下单)",
				e.cfg.Symbol, qty, d.ReferencePrice),
		}
	}

	order := e.submit(ctx, client, SideSell, qty)
	return e.entryFor(order, d)
}

// submit 发起一次下单尝试并把结果固化为 Order，终态后不再修改
func (e *ExecutionController) submit(ctx context.Context, client ExchangeClient, side OrderSide, qty string) Order {
	order := Order{
		Side:     side,
		Symbol:   e.cfg.Symbol,
		Quantity: qty,
		Status:   OrderSubmitted,
	}

	orderID, _, err := client.SubmitMarketOrder(ctx, e.cfg.Symbol, side, qty)
	if err != nil {
		oe := classifyOrderError(err)
		log.Printf("❌ %s 下单失败: %v", side, oe)
		order.Status = OrderRejected
		order.ErrorKind = oe.Kind
		return order
	}

	order.Status = OrderFilled
	order.OrderID = orderID
	return order
}

// entryFor 把订单结果转成交易日志条目
func (e *ExecutionController) entryFor(order Order, d Decision) *TradeLogEntry {
	if order.Status == OrderRejected {
		return &TradeLogEntry{
			Timestamp: d.Timestamp,
			Outcome:   OutcomeFailed,
			Text: fmt.Sprintf("%s %s 失败 [%s] 数量 %s",
				sideLabel(order.Side), order.Symbol, order.ErrorKind, order.Quantity),
		}
	}
	return &TradeLogEntry{
		Timestamp: d.Timestamp,
		Outcome:   OutcomeExecuted,
		Text: fmt.Sprintf("✅ %s %s 成交 数量 %s 订单号 %d @ %.4f",
			sideLabel(order.Side), order.Symbol, order.Quantity, order.OrderID, d.ReferencePrice),
	}
}

func sideLabel(side OrderSide) string {
	if side == SideBuy {
		return "买入"
	}
	return "卖出"
}

// roundQuantity 四舍五入到固定精度，返回下单接口要求的字符串格式
func roundQuantity(q float64) string {
	return decimal.NewFromFloat(q).Round(quantityPrecision).StringFixed(quantityPrecision)
}

// floorQuantity 向下取整到固定精度，用于卖出全部余额时防止数量超出持仓
func floorQuantity(q float64) string {
	return decimal.NewFromFloat(q).RoundFloor(quantityPrecision).StringFixed(quantityPrecision)
}
