// Package event 把门面的变更事件发布到RabbitMQ
//
// routing key格式: bookfund.<entity>.<action>,例如bookfund.order.recomputed
package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/mq"
)

const keyPrefix = "bookfund"

// Publisher 消息发布(*mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Notifier 实现facade.Notifier
type Notifier struct {
	pub Publisher
}

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

// Notify 发布一条变更事件
func (n *Notifier) Notify(ctx context.Context, ev facade.ChangeEvent) error {
	return n.pub.Publish(ctx, RoutingKey(ev), ev)
}

// RoutingKey 事件的routing key
func RoutingKey(ev facade.ChangeEvent) string {
	return fmt.Sprintf("%s.%s.%s", keyPrefix, ev.Entity, ev.Action)
}

// Decode 解析消息体
func Decode(body []byte) (facade.ChangeEvent, error) {
	var ev facade.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("解析变更事件失败: %w", err)
	}
	if ev.Entity == "" || ev.Action == "" {
		return ev, fmt.Errorf("变更事件缺少entity或action")
	}
	return ev, nil
}

// LogHandler 事件日志消费者:每条事件输出一行结构化日志
// 格式错误的消息记录后丢弃(重新入队也无法解析)
func LogHandler(log *logger.Logger) mq.Handler {
	return func(_ context.Context, d mq.Delivery) error {
		ev, err := Decode(d.Body)
		if err != nil {
			log.Warn("丢弃无法解析的变更事件", "routing_key", d.RoutingKey, "error", err)
			return nil
		}
		kv := []interface{}{
			"routing_key", d.RoutingKey,
			"entity", ev.Entity,
			"id", ev.ID,
			"action", ev.Action,
			"occurred_at", ev.OccurredAt,
		}
		if ev.Version > 0 {
			kv = append(kv, "version", ev.Version)
		}
		log.Info("变更事件", kv...)
		return nil
	}
}
