package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/internal/infrastructure/config"
	"github.com/xiebiao/bookfund/internal/infrastructure/event"
	"github.com/xiebiao/bookfund/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookfund/internal/infrastructure/persistence/mysql"
	appredis "github.com/xiebiao/bookfund/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookfund/pkg/circuitbreaker"
	"github.com/xiebiao/bookfund/pkg/jwt"
	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/metrics"
	"github.com/xiebiao/bookfund/pkg/mq"
)

// App 进程内的顶层对象
type App struct {
	Config *config.Config
	Log    *logger.Logger
	Engine *gin.Engine
}

func provideLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	log, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, err
	}
	return log, log.Sync, nil
}

// provideSubstrate 按database.driver选择存储
func provideSubstrate(cfg *config.Config, log *logger.Logger) (facade.Substrate, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("使用进程内存储,重启后数据丢失")
		return memory.New(), func() {}, nil
	}

	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return mysql.NewStore(db), cleanup, nil
}

// provideBreaker 存储层熔断器,状态变化写日志和指标
func provideBreaker(cfg *config.Config, log *logger.Logger) *circuitbreaker.CircuitBreaker {
	b := cfg.Breaker
	return circuitbreaker.NewCircuitBreaker("substrate", circuitbreaker.Config{
		MaxRequests:  b.MaxRequests,
		Interval:     b.Interval,
		Timeout:      b.Timeout,
		ReadyToTrip:  circuitbreaker.ConsecutiveFailures(b.ConsecutiveFailures),
		IsSuccessful: facade.BreakerSuccess,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("熔断器状态变化", "breaker", name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, int(to))
		},
	})
}

// provideNotifier 未启用MQ时不发布变更事件
func provideNotifier(cfg *config.Config, log *logger.Logger) (facade.Notifier, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化事件发布者失败: %w", err)
	}
	return event.NewNotifier(pub), func() { _ = pub.Close() }, nil
}

func provideFacade(sub facade.Substrate, log *logger.Logger, cb *circuitbreaker.CircuitBreaker, n facade.Notifier) *facade.Facade {
	return facade.New(sub, log, facade.WithBreaker(cb), facade.WithNotifier(n))
}

func provideRedis(cfg *config.Config, log *logger.Logger) (*goredis.Client, func(), error) {
	client, err := appredis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
}
