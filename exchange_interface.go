package main

import "context"

// ExchangeClient 定义核心所需的交易所能力，由适配器实现
// 鉴权正确性是适配器的事，核心只消费这组能力
type ExchangeClient interface {
	// GetServerTime 获取服务器时间（毫秒），用作连通性探测
	GetServerTime(ctx context.Context) (int64, error)

	// GetKlines 获取原始K线行，按时间升序
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]RawKline, error)

	// GetFreeBalance 查询某资产当前的可用余额
	GetFreeBalance(ctx context.Context, asset string) (float64, error)

	// SubmitMarketOrder 提交市价单，返回订单ID与成交数量
	SubmitMarketOrder(ctx context.Context, symbol string, side OrderSide, quantity string) (orderID int64, filledQty float64, err error)
}

// ExchangeFactory 按 endpoint 构造客户端，连接管理器用它做故障转移
type ExchangeFactory func(endpoint string) ExchangeClient
