package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/xiebiao/bookfund/docs"
	"github.com/xiebiao/bookfund/pkg/tracing"
)

// @title           BookFund API
// @version         1.0
// @description     图书目录/订单与基金投资组合的一致性与查询引擎
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     格式: Bearer {token}

// main 启动流程:
// 配置 → 日志 → Redis/JWT → 存储 → 熔断器/事件 → 引擎 → 路由 → HTTP服务
func main() {
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	defer cleanup()

	cfg := app.Config
	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		app.Log.Fatal("初始化链路追踪失败", "error", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		app.Log.Info("服务启动", "addr", srv.Addr, "mode", cfg.Server.Mode, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatal("HTTP服务启动失败", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	app.Log.Info("正在关闭服务")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		app.Log.Error("HTTP服务强制关闭", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		app.Log.Warn("关闭链路追踪失败", "error", err)
	}
	app.Log.Info("服务已关闭")
}
