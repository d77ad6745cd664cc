package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookfund/pkg/metrics"
)

// Metrics HTTP请求指标
// path使用路由模板(/api/v1/books/:id),避免标签基数随ID增长
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.HTTPStarted()
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		done(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
