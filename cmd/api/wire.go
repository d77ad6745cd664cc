//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后执行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	"github.com/xiebiao/bookfund/internal/infrastructure/config"
	appredis "github.com/xiebiao/bookfund/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookfund/internal/interface/http/handler"
	"github.com/xiebiao/bookfund/internal/interface/http/middleware"
	"github.com/xiebiao/bookfund/internal/interface/http/router"
)

// infrastructureSet 配置、日志、存储、熔断器、事件发布
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	provideSubstrate,
	provideBreaker,
	provideNotifier,
)

// engineSet 一致性与查询引擎
var engineSet = wire.NewSet(
	provideFacade,
)

// authSet Token解析与吊销
// TokenStore同时满足中间件的查询接口和登出的写入接口
var authSet = wire.NewSet(
	provideRedis,
	appredis.NewTokenStore,
	provideJWTManager,
	wire.Bind(new(middleware.Revocations), new(*appredis.TokenStore)),
	wire.Bind(new(handler.Revoker), new(*appredis.TokenStore)),
	middleware.NewAuthMiddleware,
)

// httpSet 处理器与路由
var httpSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewOrderHandler,
	handler.NewFundHandler,
	handler.NewAuthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// cleanup按与创建相反的顺序关闭连接
func InitializeApp() (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		engineSet,
		authSet,
		httpSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
