package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookfund/internal/infrastructure/config"
	"github.com/xiebiao/bookfund/pkg/logger"
)

const defaultPingTimeout = 3 * time.Second

// Options 由配置生成连接参数
// 吊销检查在每个需要登录的请求上执行,池大小未配置时按go-redis默认(10*CPU)
func Options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// NewClient 创建客户端并Ping一次,不可达时直接返回错误(Token吊销依赖Redis)
func NewClient(cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(Options(cfg.Redis))

	timeout := cfg.Redis.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, redisError(err, "Redis连接失败")
	}

	log.Info("Redis连接成功", "addr", cfg.Redis.Addr(), "db", cfg.Redis.DB)
	return client, nil
}
