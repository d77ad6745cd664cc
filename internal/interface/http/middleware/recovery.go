package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/response"
)

// Recovery panic时返回统一的50000响应并记录日志
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		response.Logger(c).Error("请求处理panic", "path", c.Request.URL.Path, "panic", recovered)
		response.ErrorWithCode(c, apperrors.ErrCodeInternal, "系统内部错误")
		c.Abort()
	})
}
