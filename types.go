package main

import "time"

// Kline 单根K线 (OHLCV)，按 OpenTime 升序排列，获取后不再修改
type Kline struct {
	OpenTime int64   `json:"open_time"` // 开盘时间戳（毫秒）
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}

// RawKline 交易所返回的原始K线行，数值字段为未解析的字符串
type RawKline struct {
	OpenTime int64
	Open     string
	High     string
	Low      string
	Close    string
	Volume   string
}

// BandState 价格相对布林带的位置
type BandState string

const (
	BandBelowLower BandState = "BELOW_LOWER"
	BandAboveUpper BandState = "ABOVE_UPPER"
	BandNormal     BandState = "NORMAL"
)

// IndicatorSnapshot 指标快照，每个周期基于最新K线重新计算
// K线不足时对应的 HasXXX 为 false，数值字段无意义，下游必须先检查
type IndicatorSnapshot struct {
	LastPrice float64 `json:"last_price"`

	RSI14  float64 `json:"rsi14"`
	HasRSI bool    `json:"has_rsi"` // 少于15根K线时为 false

	MA20      float64   `json:"ma20"`
	StdDev20  float64   `json:"std_dev20"`
	UpperBand float64   `json:"upper_band"`
	LowerBand float64   `json:"lower_band"`
	BandState BandState `json:"band_state,omitempty"`
	HasBands  bool      `json:"has_bands"` // 少于20根K线时为 false
}

// Action 信号动作
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Decision 信号决策，快照的纯函数输出，每周期重算，不跨周期保留
type Decision struct {
	Action         Action    `json:"action"`
	Timestamp      time.Time `json:"timestamp"`
	ReferencePrice float64   `json:"reference_price"`
	Reason         string    `json:"reason"` // 人类可读的触发原因
}

// Mode 运行模式
type Mode string

const (
	ModeSimulation Mode = "SIMULATION" // 只产生信号，不向交易所下单
	ModeLive       Mode = "LIVE"       // 真实下单
)

// OrderSide 订单方向
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// OrderStatus 订单状态，进入终态后不再变更
type OrderStatus string

const (
	OrderSubmitted OrderStatus = "SUBMITTED"
	OrderFilled    OrderStatus = "FILLED"
	OrderRejected  OrderStatus = "REJECTED"
)

// Order 一次下单尝试的结果
type Order struct {
	Side      OrderSide      `json:"side"`
	Symbol    string         `json:"symbol"`
	Quantity  string         `json:"quantity"`
	Status    OrderStatus    `json:"status"`
	OrderID   int64          `json:"order_id,omitempty"`
	ErrorKind OrderErrorKind `json:"error_kind,omitempty"`
}

// TradeOutcome 交易日志结果分类
type TradeOutcome string

const (
	OutcomeSignalOnly TradeOutcome = "SIGNAL_ONLY" // 模拟模式，仅记录信号
	OutcomeExecuted   TradeOutcome = "EXECUTED"
	OutcomeFailed     TradeOutcome = "FAILED"
	OutcomeSkipped    TradeOutcome = "SKIPPED" // 低于最小名义价值等主动跳过
)

// TradeLogEntry 交易日志条目，写入后不再修改
type TradeLogEntry struct {
	Timestamp time.Time    `json:"timestamp"`
	Text      string       `json:"text"`
	Outcome   TradeOutcome `json:"outcome"`
}

// ConnStatus 连接状态机状态
type ConnStatus string

const (
	ConnDisconnected ConnStatus = "DISCONNECTED"
	ConnProbing      ConnStatus = "PROBING"
	ConnConnected    ConnStatus = "CONNECTED"
)

// ConnectionState 连接状态，只由 ConnectionManager 修改
type ConnectionState struct {
	Status         ConnStatus `json:"status"`
	ActiveEndpoint string     `json:"active_endpoint,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

// CurrentState 每个周期结束后发布的只读快照
// 前端只读取这个结构，不直接访问交易所客户端或核心内部状态
type CurrentState struct {
	CycleCount   int                `json:"cycle_count"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Active       bool               `json:"active"`
	Mode         Mode               `json:"mode"`
	Symbol       string             `json:"symbol"`
	Connection   ConnectionState    `json:"connection"`
	Klines       []Kline            `json:"klines,omitempty"`
	Snapshot     *IndicatorSnapshot `json:"snapshot,omitempty"`
	LastDecision *Decision          `json:"last_decision,omitempty"`
	FreeBalance  float64            `json:"free_balance"`
	RecentLog    []TradeLogEntry    `json:"recent_log"`
}
