// Package metrics 基于Prometheus的指标收集
//
// 指标分四组:
//   - HTTP请求: 请求数、耗时、并发数
//   - 引擎操作: 每个实体的create/update/delete/get/list次数与耗时,
//     版本冲突数,校验失败数,聚合重算次数
//   - 熔断器: 当前状态、请求结果
//   - 消息队列: 变更事件的发布与消费
//
// 所有指标在InitMetrics中注册到默认Registry,由/metrics端点暴露。
// InitMetrics可以重复调用,只有第一次生效;下面的辅助函数会自动调用它。
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// OperationsTotal 引擎操作总数
	// 标签：entity（book/order/...）、op（create/update/delete/get/list）、result（ok/错误码）
	OperationsTotal *prometheus.CounterVec

	// OperationDuration 引擎操作耗时（含事务提交）
	OperationDuration *prometheus.HistogramVec

	// ConflictsTotal 版本冲突次数
	ConflictsTotal *prometheus.CounterVec

	// ValidationFailuresTotal 校验失败次数（包括外键引用不存在）
	ValidationFailuresTotal *prometheus.CounterVec

	// RecomputationsTotal 聚合字段重算次数
	// 标签：aggregate（order_total/portfolio_total）、changed（true/false）
	RecomputationsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 变更事件发布总数
	// 标签：exchange、routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 变更事件消费总数
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册全部指标
func InitMetrics() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_operations_total",
			Help: "引擎操作总数",
		},
		[]string{"entity", "op", "result"},
	)

	// 单条记录的读写通常在毫秒级,列表查询可能更慢
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_operation_duration_seconds",
			Help:    "引擎操作耗时（秒）",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"entity", "op"},
	)

	ConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_version_conflicts_total",
			Help: "版本冲突次数",
		},
		[]string{"entity"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_validation_failures_total",
			Help: "校验失败次数",
		},
		[]string{"entity"},
	)

	RecomputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_recomputations_total",
			Help: "聚合字段重算次数",
		},
		[]string{"aggregate", "changed"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// HTTPStarted 请求开始时调用,返回的函数在请求结束时调用
func HTTPStarted() func(method, path string, status int, elapsed time.Duration) {
	InitMetrics()
	HTTPRequestsInProgress.Inc()
	return func(method, path string, status int, elapsed time.Duration) {
		HTTPRequestsInProgress.Dec()
		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
	}
}

// ObserveOperation 记录一次引擎操作
// result为"ok"或错误码字符串
func ObserveOperation(entity, op, result string, elapsed time.Duration) {
	InitMetrics()
	OperationsTotal.WithLabelValues(entity, op, result).Inc()
	OperationDuration.WithLabelValues(entity, op).Observe(elapsed.Seconds())
}

func IncConflict(entity string) {
	InitMetrics()
	ConflictsTotal.WithLabelValues(entity).Inc()
}

func IncValidationFailure(entity string) {
	InitMetrics()
	ValidationFailuresTotal.WithLabelValues(entity).Inc()
}

func IncRecomputation(aggregate string, changed bool) {
	InitMetrics()
	label := "false"
	if changed {
		label = "true"
	}
	RecomputationsTotal.WithLabelValues(aggregate, label).Inc()
}

// SetBreakerState 熔断器状态变化时调用
func SetBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func IncBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

func IncPublished(exchange, routingKey string, err error) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, resultLabel(err)).Inc()
}

// ObserveConsumed 记录一条消息的处理结果与耗时
func ObserveConsumed(queue string, err error, elapsed time.Duration) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, resultLabel(err)).Inc()
	MessageProcessingDuration.Observe(elapsed.Seconds())
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
