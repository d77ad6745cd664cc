// Package router 组装gin引擎:全局中间件、健康检查、指标、文档和/api/v1路由
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookfund/internal/infrastructure/config"
	"github.com/xiebiao/bookfund/internal/interface/http/handler"
	"github.com/xiebiao/bookfund/internal/interface/http/middleware"
	"github.com/xiebiao/bookfund/pkg/jwt"
	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/metrics"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Books  *handler.BookHandler
	Orders *handler.OrderHandler
	Funds  *handler.FundHandler
	Auth   *handler.AuthHandler
}

// New 创建gin引擎并注册路由
//
// 权限划分:
//   - 图书、基金查询公开
//   - 订单全部接口需要登录,修改类接口还需要admin角色
//   - /me下的投资接口只需要登录,所有者取自Token
func New(cfg *config.Config, log *logger.Logger, auth *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}
	metrics.InitMetrics()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Logger(log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admin := []gin.HandlerFunc{auth.RequireAuth(), auth.RequireRole(jwt.RoleAdmin)}

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("", h.Books.ListBooks)
			books.GET("/:id", h.Books.GetBook)
			books.POST("", append(admin, h.Books.CreateBook)...)
			books.PUT("/:id", append(admin, h.Books.UpdateBook)...)
			books.DELETE("/:id", append(admin, h.Books.DeleteBook)...)
		}

		orders := v1.Group("/orders")
		orders.Use(auth.RequireAuth())
		{
			orders.GET("/:id", h.Orders.GetOrder)

			manage := orders.Group("")
			manage.Use(auth.RequireRole(jwt.RoleAdmin))
			manage.POST("", h.Orders.CreateOrder)
			manage.PUT("/:id", h.Orders.UpdateOrder)
			manage.DELETE("/:id", h.Orders.DeleteOrder)
			manage.POST("/:id/items", h.Orders.AddItem)
			manage.PUT("/:id/items/:itemId", h.Orders.UpdateItem)
			manage.DELETE("/:id/items/:itemId", h.Orders.DeleteItem)
		}

		v1.GET("/funds/info", h.Funds.ListFundInfo)

		me := v1.Group("/me")
		me.Use(auth.RequireAuth())
		{
			me.GET("/investments", h.Funds.ListInvestments)
			me.POST("/investments", h.Funds.CreateInvestment)
			me.PUT("/investments/:id", h.Funds.UpdateInvestment)
			me.DELETE("/investments/:id", h.Funds.DeleteInvestment)
			me.GET("/portfolio", h.Funds.GetPortfolio)
		}

		v1.POST("/auth/logout", auth.RequireAuth(), h.Auth.Logout)
	}

	log.Info("路由注册完成", "routes", len(r.Routes()))
	return r
}
