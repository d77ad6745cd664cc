// Package facade 仓储门面:每个实体的create/update/delete/get/list
//
// 写操作在一个存储事务内按固定顺序执行:
//
//	validate → 版本检查(条件写) → persist → recompute → commit
//
// 任何一步失败整个事务回滚,调用方只会看到完整的结果或类型化错误:
//   - ValidationFailed          全部字段违规
//   - NotFound                  行不存在
//   - ConcurrencyConflict       版本号不一致,Details带当前版本号
//   - ReferentialIntegrity      存在依赖行,禁止删除
//   - SubstrateUnavailable      存储不可达/熔断,调用方可重试
//
// 门面不做重试,不缓存实体状态,也不做权限判断。
package facade

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookfund/internal/domain/aggregate"
	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
	"github.com/xiebiao/bookfund/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/metrics"
	"github.com/xiebiao/bookfund/pkg/tracing"
)

const tracerName = "bookfund/facade"

// Substrate 门面依赖的存储
// mysql.Store与memory.Store都实现了这个接口
type Substrate interface {
	store.Transactor
	invariant.Refs

	Authors() book.AuthorRepository
	Categories() book.CategoryRepository
	Books() book.BookRepository
	Customers() order.CustomerRepository
	Orders() order.OrderRepository
	OrderItems() order.OrderItemRepository
	Banks() fund.BankRepository
	Funds() fund.FundRepository
	UserFunds() fund.UserFundRepository
	Users() user.Repository
}

// Facade 仓储门面
type Facade struct {
	sub       Substrate
	recompute *aggregate.Recomputer
	breaker   *circuitbreaker.CircuitBreaker
	notifier  Notifier
	log       *logger.Logger
	now       func() time.Time
}

// Option 可选依赖
type Option func(*Facade)

// WithBreaker 存储调用经过熔断器
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(f *Facade) { f.breaker = cb }
}

// WithNotifier 事务提交后发布变更事件
func WithNotifier(n Notifier) Option {
	return func(f *Facade) { f.notifier = n }
}

func withClock(now func() time.Time) Option {
	return func(f *Facade) { f.now = now }
}

func New(sub Substrate, log *logger.Logger, opts ...Option) *Facade {
	f := &Facade{
		sub:       sub,
		recompute: aggregate.NewRecomputer(sub.Orders(), sub.OrderItems(), sub.Users(), sub.UserFunds()),
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// op 一次门面操作的上下文
// 写操作在事务内把变更事件暂存在events中,提交后才发布
type op struct {
	kind   store.Kind
	name   string
	events []ChangeEvent
}

func (o *op) emit(kind store.Kind, id uint, version uint64, action Action) {
	o.events = append(o.events, ChangeEvent{Entity: kind, ID: id, Version: version, Action: action})
}

// read 读操作:不开事务,不做校验
func (f *Facade) read(ctx context.Context, kind store.Kind, name string, fn func(ctx context.Context) error) error {
	return f.run(ctx, &op{kind: kind, name: name}, fn)
}

// write 写操作:整个fn在一个事务中
func (f *Facade) write(ctx context.Context, kind store.Kind, name string, fn func(ctx context.Context, o *op) error) error {
	o := &op{kind: kind, name: name}
	err := f.run(ctx, o, func(ctx context.Context) error {
		return f.sub.Transaction(ctx, func(ctx context.Context) error {
			return fn(ctx, o)
		})
	})
	if err != nil {
		return err
	}
	f.publish(ctx, o.events)
	return nil
}

func (f *Facade) run(ctx context.Context, o *op, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, string(o.kind)+"."+o.name,
		attribute.String("entity", string(o.kind)),
		attribute.String("op", o.name),
	)

	err := f.guard(func() error { return fn(ctx) })
	err = f.classify(o, err)

	tracing.End(span, err)
	metrics.ObserveOperation(string(o.kind), o.name, resultOf(err), time.Since(start))
	return err
}

// guard 经过熔断器调用存储
// 业务拒绝(4xxxx)说明存储是健康的,不计入失败
func (f *Facade) guard(fn func() error) error {
	if f.breaker == nil {
		return fn()
	}
	err := f.breaker.Execute(fn)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncBreakerRequest(f.breaker.Name(), "rejected")
		return apperrors.Unavailable(err, "存储服务熔断中,请稍后重试")
	case err == nil || BreakerSuccess(err):
		metrics.IncBreakerRequest(f.breaker.Name(), "success")
	default:
		metrics.IncBreakerRequest(f.breaker.Name(), "failure")
	}
	return err
}

// classify 统一错误类型并记录冲突/校验失败指标
func (f *Facade) classify(o *op, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if !apperrors.IsAppError(err) {
			return apperrors.Unavailable(err, "操作已取消或超时")
		}
	}

	appErr := apperrors.GetAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeConcurrencyConflict:
		metrics.IncConflict(string(o.kind))
		f.log.Debug("版本冲突", "entity", o.kind, "op", o.name, "details", appErr.Details)
	case apperrors.ErrCodeValidationFailed:
		metrics.IncValidationFailure(string(o.kind))
	default:
		if appErr.Code >= 50000 {
			f.log.Error("门面操作失败", "entity", o.kind, "op", o.name, "code", appErr.Code, "error", err)
		}
	}
	return appErr
}

// publish 提交后发布事件,失败只记录日志
func (f *Facade) publish(ctx context.Context, events []ChangeEvent) {
	if f.notifier == nil {
		return
	}
	at := f.now()
	for _, ev := range events {
		ev.OccurredAt = at
		if err := f.notifier.Notify(ctx, ev); err != nil {
			f.log.Warn("变更事件发布失败", "entity", ev.Entity, "id", ev.ID, "action", ev.Action, "error", err)
		}
	}
}

// BreakerSuccess 熔断器的"成功"判定:客户端错误和调用方取消都不算存储故障
func BreakerSuccess(err error) bool {
	if err == nil || apperrors.IsClientError(err) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	return strconv.Itoa(apperrors.GetAppError(err).Code)
}
