// Package mq 基于RabbitMQ的消息发布与消费
//
// 引擎在事务提交后把变更事件发布到topic Exchange,Routing Key形如
// bookfund.<entity>.<action>。下游（缓存失效、审计日志）按通配符订阅。
//
// 消费端使用手动确认：handler返回nil时Ack,否则Nack并重新入队。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/metrics"
)

// channel 发布者用到的Channel方法（便于测试替换）
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher 消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	log      *logger.Logger
}

// NewPublisher 连接RabbitMQ并声明持久化Exchange
func NewPublisher(url, exchange, exchangeType string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := declareExchange(ch, exchange, exchangeType); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("消息发布者已创建", "exchange", exchange, "type", exchangeType)
	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

func declareExchange(ch *amqp.Channel, exchange, exchangeType string) error {
	err := ch.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}

// Publish 发布JSON消息（持久化投递）
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	metrics.IncPublished(p.exchange, routingKey, err)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.log.Debug("消息已发布", "routing_key", routingKey, "bytes", len(body))
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// Delivery 交给handler的消息
type Delivery struct {
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Handler 消息处理函数,返回错误时消息重新入队
type Handler func(ctx context.Context, d Delivery) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *logger.Logger
}

// NewConsumer 声明Exchange、持久化Queue并按routingKeys绑定
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, log *logger.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	fail := func(err error) (*Consumer, error) {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := declareExchange(ch, exchange, exchangeType); err != nil {
		return fail(err)
	}

	q, err := ch.QueueDeclare(
		queue,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		nil,
	)
	if err != nil {
		return fail(fmt.Errorf("声明Queue失败: %w", err))
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fail(fmt.Errorf("绑定Queue失败: %w", err))
		}
	}

	log.Info("消息消费者已创建", "queue", q.Name, "routing_keys", routingKeys)
	return &Consumer{conn: conn, channel: ch, queue: q.Name, log: log}, nil
}

// Consume 阻塞消费直到ctx取消或连接断开
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // Consumer标签（自动生成）
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.log.Info("开始消费消息", "queue", c.queue)
	return dispatch(ctx, c.queue, msgs, handler, c.log)
}

func dispatch(ctx context.Context, queue string, msgs <-chan amqp.Delivery, handler Handler, log *logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("消费者退出", "queue", queue)
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}

			start := time.Now()
			err := handler(ctx, Delivery{RoutingKey: msg.RoutingKey, Body: msg.Body, Timestamp: msg.Timestamp})
			metrics.ObserveConsumed(queue, err, time.Since(start))

			if err != nil {
				log.Warn("消息处理失败,重新入队", "routing_key", msg.RoutingKey, "error", err)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
