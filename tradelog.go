package main

// 默认日志容量，与前端展示的行数一致
const defaultTradeLogCapacity = 10

// TradeLog 固定容量的交易日志，FIFO 淘汰最旧记录
// 只由轮询循环写入；对外只暴露副本，条目写入后不会被修改
type TradeLog struct {
	entries  []TradeLogEntry
	capacity int
}

// NewTradeLog 创建交易日志，capacity<=0 时使用默认容量
func NewTradeLog(capacity int) *TradeLog {
	if capacity <= 0 {
		capacity = defaultTradeLogCapacity
	}
	return &TradeLog{
		entries:  make([]TradeLogEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append 追加一条记录，超出容量时淘汰最旧的
func (l *TradeLog) Append(e TradeLogEntry) {
	l.entries = append(l.entries, e)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Snapshot 返回最近 n 条记录的副本，按时间从旧到新
// n<=0 或超过当前数量时返回全部
func (l *TradeLog) Snapshot(n int) []TradeLogEntry {
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]TradeLogEntry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len 当前记录数
func (l *TradeLog) Len() int {
	return len(l.entries)
}
