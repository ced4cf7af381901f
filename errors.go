package main

import (
	"errors"
	"fmt"

	"github.com/adshao/go-binance/v2/common"
)

// ConnectivityError 所有候选地址探测失败
type ConnectivityError struct {
	Attempts int   // 探测过的候选地址数量
	Last     error // 最后一个底层错误
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("所有 %d 个候选地址均不可用，最后错误: %v", e.Attempts, e.Last)
}

func (e *ConnectivityError) Unwrap() error { return e.Last }

// DataError K线响应为空或无法解析
type DataError struct {
	Symbol string
	Reason string
	Cause  error
}

func (e *DataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s 行情数据异常: %s: %v", e.Symbol, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s 行情数据异常: %s", e.Symbol, e.Reason)
}

func (e *DataError) Unwrap() error { return e.Cause }

// OrderErrorKind 下单失败分类
type OrderErrorKind string

const (
	OrderErrInsufficientFunds OrderErrorKind = "INSUFFICIENT_FUNDS"
	OrderErrMinNotional       OrderErrorKind = "MIN_NOTIONAL"
	OrderErrRateLimited       OrderErrorKind = "RATE_LIMITED"
	OrderErrNetwork           OrderErrorKind = "NETWORK"
	OrderErrAuth              OrderErrorKind = "AUTH"
)

// OrderError 一次下单尝试的失败，带分类；同一周期内不重试
type OrderError struct {
	Kind  OrderErrorKind
	Cause error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("下单失败 [%s]: %v", e.Kind, e.Cause)
}

func (e *OrderError) Unwrap() error { return e.Cause }

// ConfigurationError 启动期配置错误，唯一允许终止程序的错误
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("配置错误: %s", e.Reason)
}

// classifyOrderError 将币安 API 错误码映射为 OrderErrorKind
// 无法识别的错误一律按网络类处理
func classifyOrderError(err error) *OrderError {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case -2010, -2019: // 余额不足
			return &OrderError{Kind: OrderErrInsufficientFunds, Cause: err}
		case -1013: // MIN_NOTIONAL / LOT_SIZE 过滤器拒绝
			return &OrderError{Kind: OrderErrMinNotional, Cause: err}
		case -1003, -1015: // 请求频率超限
			return &OrderError{Kind: OrderErrRateLimited, Cause: err}
		case -1022, -2014, -2015: // 签名 / API Key 无效
			return &OrderError{Kind: OrderErrAuth, Cause: err}
		}
	}
	return &OrderError{Kind: OrderErrNetwork, Cause: err}
}
