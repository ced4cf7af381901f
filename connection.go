package main

import (
	"context"
	"log"
	"time"
)

// 单个地址连通性探测的超时上限
const probeTimeout = 5 * time.Second

// ConnectionManager 负责从候选地址列表中选出可用的交易所客户端
// 状态机: DISCONNECTED -> PROBING (逐个候选) -> CONNECTED / DISCONNECTED
// 已连接后直接复用客户端，直到某次操作失败被 MarkFailed 降级
type ConnectionManager struct {
	endpoints []string
	factory   ExchangeFactory

	state  ConnectionState
	client ExchangeClient
}

// NewConnectionManager 创建连接管理器，候选地址按优先级排列
func NewConnectionManager(endpoints []string, factory ExchangeFactory) *ConnectionManager {
	return &ConnectionManager{
		endpoints: endpoints,
		factory:   factory,
		state:     ConnectionState{Status: ConnDisconnected},
	}
}

// EnsureConnected 返回当前可用客户端
// 已连接时直接复用；否则按顺序探测候选地址，取第一个探测成功的
// 每个轮询周期最多触发一轮探测，不在周期内紧循环重试
func (m *ConnectionManager) EnsureConnected(ctx context.Context) (ExchangeClient, error) {
	if m.state.Status == ConnConnected && m.client != nil {
		return m.client, nil
	}

	var lastErr error
	for _, ep := range m.endpoints {
		m.state = ConnectionState{Status: ConnProbing, ActiveEndpoint: ep}

		c := m.factory(ep)
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		_, err := c.GetServerTime(probeCtx)
		cancel()
		if err != nil {
			log.Printf("⚠️ 探测 %s 失败: %v", ep, err)
			lastErr = err
			continue
		}

		m.client = c
		m.state = ConnectionState{Status: ConnConnected, ActiveEndpoint: ep}
		log.Printf("✅ 已连接交易所: %s", ep)
		return c, nil
	}

	m.client = nil
	connErr := &ConnectivityError{Attempts: len(m.endpoints), Last: lastErr}
	m.state = ConnectionState{Status: ConnDisconnected, LastError: connErr.Error()}
	return nil, connErr
}

// MarkFailed 当前客户端操作失败，降级为未连接，下个周期重新探测
func (m *ConnectionManager) MarkFailed(err error) {
	m.client = nil
	m.state = ConnectionState{Status: ConnDisconnected, LastError: err.Error()}
}

// State 返回当前连接状态副本
func (m *ConnectionManager) State() ConnectionState {
	return m.state
}
