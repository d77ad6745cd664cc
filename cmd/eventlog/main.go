// eventlog 订阅引擎发布的变更事件并逐条写入结构化日志
//
// 队列与绑定取自mq.queue和mq.routing_keys,默认绑定bookfund.#
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookfund/internal/infrastructure/config"
	"github.com/xiebiao/bookfund/internal/infrastructure/event"
	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/metrics"
	"github.com/xiebiao/bookfund/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	appLog, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer appLog.Sync()

	if !cfg.MQ.Enabled {
		appLog.Fatal("未启用mq,事件日志消费者无事可做")
	}
	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, "topic", cfg.MQ.Queue, cfg.MQ.Bindings, appLog)
	if err != nil {
		appLog.Fatal("创建消费者失败", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLog.Info("开始消费变更事件", "queue", cfg.MQ.Queue, "routing_keys", cfg.MQ.Bindings)
	if err := consumer.Consume(ctx, event.LogHandler(appLog)); err != nil && !errors.Is(err, context.Canceled) {
		appLog.Error("消费中断", "error", err)
	}
	appLog.Info("事件日志消费者已退出")
}
