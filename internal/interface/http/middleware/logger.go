package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookfund/pkg/logger"
	"github.com/xiebiao/bookfund/pkg/response"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	slowRequest = 3 * time.Second
)

// Logger 请求日志中间件
// 1. 沿用调用方传入的X-Request-ID,没有则生成
// 2. 带request_id的日志对象绑定到Context,response.Error等会用它输出
// 3. 每个请求结束时输出一行结构化日志
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		response.SetLogger(c, log.With("request_id", requestID))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		l := response.Logger(c)
		switch {
		case latency > slowRequest:
			l.Warn("慢请求", kv...)
		case c.Writer.Status() >= 500:
			l.Warn("请求完成", kv...)
		default:
			l.Info("请求完成", kv...)
		}
	}
}

// GetRequestID 当前请求的request_id
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
