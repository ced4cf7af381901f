package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// 开关关闭时的待机检查间隔
const standbyInterval = 2 * time.Second

// Engine 轮询引擎：连接 → 拉取K线 → 计算指标 → 信号决策 → 执行 → 发布快照
// 一个周期内全部同步完成，没有并发周期，也不会并发下单
// TradeLog 与 ConnectionState 只由本循环修改，外部只能拿到只读快照
type Engine struct {
	cfg      *TradingConfig
	conn     *ConnectionManager
	executor *ExecutionController
	tradeLog *TradeLog
	notifier *TelegramNotifier // 可为 nil

	active atomic.Bool // 前端的"系统开关"，只在周期边界检查

	mu        sync.RWMutex
	published CurrentState

	// 周期内部状态，只由循环自身读写
	cycleCount     int
	lastKlines     []Kline
	lastSnapshot   *IndicatorSnapshot
	lastDecision   *Decision
	freeBalance    float64
	connFailLogged bool // 连接失败只在进入故障时记一条，避免刷掉交易记录

	onPublish func(CurrentState) // 每次发布快照后的回调（WS 推送）
}

// NewEngine 组装轮询引擎
func NewEngine(cfg *TradingConfig, conn *ConnectionManager, notifier *TelegramNotifier) *Engine {
	e := &Engine{
		cfg:      cfg,
		conn:     conn,
		executor: NewExecutionController(cfg),
		tradeLog: NewTradeLog(cfg.TradeLogCapacity),
		notifier: notifier,
	}
	e.active.Store(true)
	return e
}

// SetPublishHook 注册快照发布回调，需在 Run 之前调用
func (e *Engine) SetPublishHook(fn func(CurrentState)) {
	e.onPublish = fn
}

// SetActive 切换系统开关，下一个周期边界生效
func (e *Engine) SetActive(on bool) {
	e.active.Store(on)
	if on {
		log.Println("▶️ 系统已启用")
	} else {
		log.Println("⏸ 系统已停用，进入待机")
	}
}

// Active 当前开关状态
func (e *Engine) Active() bool {
	return e.active.Load()
}

// CurrentState 返回最近一次发布的快照副本
func (e *Engine) CurrentState() CurrentState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Run 驱动轮询循环直到 ctx 取消
// 周期内的任何失败都转换为日志或连接状态变化，循环继续；
// 唯一的致命错误是启动期配置问题
func (e *Engine) Run(ctx context.Context) error {
	if len(e.cfg.CandidateEndpoints) == 0 {
		return &ConfigurationError{Reason: "candidate_endpoints 不能为空"}
	}

	log.Printf("🚀 轮询引擎启动: %s %s 窗口=%d 周期=%ds 模式=%s",
		e.cfg.Symbol, e.cfg.Interval, e.cfg.CandleWindow, e.cfg.PollIntervalSeconds, e.cfg.Mode)

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 收到退出信号，轮询引擎停止")
			return nil
		default:
		}

		// 开关关闭时只刷新展示状态，不碰交易所
		if !e.active.Load() {
			e.publish()
			if !e.sleep(ctx, standbyInterval) {
				return nil
			}
			continue
		}

		e.runCycle(ctx)

		if !e.sleep(ctx, time.Duration(e.cfg.PollIntervalSeconds)*time.Second) {
			return nil
		}
	}
}

// runCycle 执行一个完整周期，任何失败都在这里消化掉
func (e *Engine) runCycle(ctx context.Context) {
	e.cycleCount++

	client, err := e.conn.EnsureConnected(ctx)
	if err != nil {
		log.Printf("❌ 连接交易所失败: %v", err)
		// 持续故障期间每个周期都会走到这里，日志只记故障的第一个周期
		if !e.connFailLogged {
			e.connFailLogged = true
			e.tradeLog.Append(TradeLogEntry{
				Timestamp: time.Now(),
				Outcome:   OutcomeFailed,
				Text:      fmt.Sprintf("连接失败: %v", err),
			})
		}
		e.publish()
		return
	}
	e.connFailLogged = false

	klines, err := fetchKlines(ctx, client, e.cfg.Symbol, e.cfg.Interval, e.cfg.CandleWindow)
	if err != nil {
		var dataErr *DataError
		if errors.As(err, &dataErr) {
			// 数据异常：连接状态不变，保留上一次快照用于展示，本周期不做决策
			log.Printf("⚠️ %v", dataErr)
		} else {
			// 网络类失败：降级连接状态，下个周期重新探测
			e.conn.MarkFailed(err)
			log.Printf("⚠️ 拉取行情失败，连接降级: %v", err)
		}
		e.publish()
		return
	}
	e.lastKlines = klines

	snap := computeSnapshot(klines)
	e.lastSnapshot = &snap

	d := decide(snap, time.Now())
	e.lastDecision = &d
	log.Printf("🧭 周期 #%d 信号: %s | %s", e.cycleCount, d.Action, d.Reason)

	if entry := e.executor.Execute(ctx, d, client); entry != nil {
		e.tradeLog.Append(*entry)
		log.Printf("📒 %s", entry.Text)
		e.notify(*entry)
	}

	e.refreshBalance(ctx, client)
	e.publish()
}

// refreshBalance 查询基础资产余额用于前端展示，失败不影响周期
func (e *Engine) refreshBalance(ctx context.Context, client ExchangeClient) {
	free, err := client.GetFreeBalance(ctx, e.cfg.BaseAsset)
	if err != nil {
		log.Printf("⚠️ 查询 %s 余额失败: %v", e.cfg.BaseAsset, err)
		return
	}
	e.freeBalance = free
}

// publish 把本周期的结果合成只读快照原子发布
func (e *Engine) publish() {
	klines := make([]Kline, len(e.lastKlines))
	copy(klines, e.lastKlines)

	st := CurrentState{
		CycleCount:   e.cycleCount,
		UpdatedAt:    time.Now(),
		Active:       e.active.Load(),
		Mode:         e.cfg.Mode,
		Symbol:       e.cfg.Symbol,
		Connection:   e.conn.State(),
		Klines:       klines,
		Snapshot:     e.lastSnapshot,
		LastDecision: e.lastDecision,
		FreeBalance:  e.freeBalance,
		RecentLog:    e.tradeLog.Snapshot(0),
	}

	e.mu.Lock()
	e.published = st
	e.mu.Unlock()

	if e.onPublish != nil {
		e.onPublish(st)
	}
}

// notify 推送执行结果，只推真正执行过或失败的
func (e *Engine) notify(entry TradeLogEntry) {
	if e.notifier == nil || !e.notifier.Enabled() {
		return
	}
	if entry.Outcome != OutcomeExecuted && entry.Outcome != OutcomeFailed {
		return
	}
	go func() {
		if err := e.notifier.Send(entry.Text); err != nil {
			log.Printf("⚠️ Telegram 推送失败: %v", err)
		}
	}()
}

// sleep 等待指定时长，ctx 取消时返回 false
func (e *Engine) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		log.Println("🛑 收到退出信号，轮询引擎停止")
		return false
	case <-t.C:
		return true
	}
}
