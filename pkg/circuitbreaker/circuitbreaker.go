// Package circuitbreaker 存储层熔断器
//
// 基于github.com/sony/gobreaker,对外保持简单的Execute(func() error) error接口:
// 1. CLOSED: 请求正常通过,统计失败次数
// 2. OPEN: 连续失败达到阈值后快速失败,不再访问存储
// 3. HALF_OPEN: Timeout之后放行MaxRequests个探测请求,全部成功则恢复CLOSED
//
// IsSuccessful决定哪些错误算作"失败"。业务拒绝(校验失败、版本冲突等)
// 说明存储是健康的,不应该触发熔断。
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 关闭状态（正常）
	StateOpen                  // 打开状态（熔断）
	StateHalfOpen              // 半开状态（探测）
)

// String 状态转字符串（便于日志）
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// ErrOpenState 熔断器打开(或半开状态探测请求已满)
var ErrOpenState = errors.New("circuit breaker is open")

// Counts 统计数据
type Counts struct {
	Requests             uint32 // 总请求数
	TotalSuccesses       uint32 // 总成功数
	TotalFailures        uint32 // 总失败数
	ConsecutiveSuccesses uint32 // 连续成功数
	ConsecutiveFailures  uint32 // 连续失败数
}

// FailureRate 计算失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的最大请求数
	MaxRequests uint32

	// Interval 关闭状态下统计数据的清零周期,0表示不清零
	Interval time.Duration

	// Timeout 打开状态持续时间,之后转为HALF_OPEN
	Timeout time.Duration

	// ReadyToTrip 判断是否应该打开熔断器,为nil时连续失败5次熔断
	ReadyToTrip func(counts Counts) bool

	// IsSuccessful 判断一次调用是否算成功,为nil时只有err==nil算成功
	IsSuccessful func(err error) bool

	// OnStateChange 状态变化回调(日志、指标)
	OnStateChange func(name string, from State, to State)
}

// ConsecutiveFailures 连续失败n次熔断
func ConsecutiveFailures(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, config Config) *CircuitBreaker {
	st := gobreaker.Settings{
		Name:         name,
		MaxRequests:  config.MaxRequests,
		Interval:     config.Interval,
		Timeout:      config.Timeout,
		IsSuccessful: config.IsSuccessful,
	}
	if config.ReadyToTrip != nil {
		trip := config.ReadyToTrip
		st.ReadyToTrip = func(c gobreaker.Counts) bool { return trip(toCounts(c)) }
	}
	if config.OnStateChange != nil {
		fn := config.OnStateChange
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			fn(name, fromGobreaker(from), fromGobreaker(to))
		}
	}
	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(st)}
}

// Execute 执行请求
// 熔断器打开时不调用req,直接返回ErrOpenState;否则原样返回req的错误
func (c *CircuitBreaker) Execute(req func() error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, req()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrOpenState
	}
	return err
}

func (c *CircuitBreaker) Name() string { return c.cb.Name() }

// State 当前状态
func (c *CircuitBreaker) State() State {
	return fromGobreaker(c.cb.State())
}

// Counts 当前统计
func (c *CircuitBreaker) Counts() Counts {
	return toCounts(c.cb.Counts())
}

func toCounts(c gobreaker.Counts) Counts {
	return Counts{
		Requests:             c.Requests,
		TotalSuccesses:       c.TotalSuccesses,
		TotalFailures:        c.TotalFailures,
		ConsecutiveSuccesses: c.ConsecutiveSuccesses,
		ConsecutiveFailures:  c.ConsecutiveFailures,
	}
}
