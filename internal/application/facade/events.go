package facade

import (
	"context"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/store"
)

// Action 变更动作
type Action string

const (
	ActionCreated    Action = "created"
	ActionUpdated    Action = "updated"
	ActionDeleted    Action = "deleted"
	ActionRecomputed Action = "recomputed" // 聚合字段被重算(订单总额/投资总值)
)

// ChangeEvent 事务提交后的变更通知
// 只携带定位信息,下游需要完整数据时自行读取
type ChangeEvent struct {
	Entity     store.Kind `json:"entity"`
	ID         uint       `json:"id"`
	Version    uint64     `json:"version,omitempty"`
	Action     Action     `json:"action"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Notifier 变更事件接收方
// 在事务提交之后调用,返回的错误不影响操作结果
type Notifier interface {
	Notify(ctx context.Context, ev ChangeEvent) error
}

// NotifierFunc 函数适配器
type NotifierFunc func(ctx context.Context, ev ChangeEvent) error

func (fn NotifierFunc) Notify(ctx context.Context, ev ChangeEvent) error { return fn(ctx, ev) }
