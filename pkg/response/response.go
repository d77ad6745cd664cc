package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/logger"
)

// Response 统一响应格式
// 失败时Data携带错误明细（字段校验结果、当前版本号、关联数据数量）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const loggerKey = "bookfund.logger"

// SetLogger 绑定请求级日志对象（带request_id）
func SetLogger(c *gin.Context, l *logger.Logger) {
	c.Set(loggerKey, l)
}

// Logger 取出请求级日志对象,未绑定时返回Nop
func Logger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Nop()
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
// 内部错误只写日志,客户端只看到Code/Message/Details
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	log := Logger(c)
	switch {
	case appErr.Code >= 50000:
		log.Error("请求处理失败", "code", appErr.Code, "path", c.FullPath(), "error", err)
	case appErr.Err != nil:
		log.Warn("请求被拒绝", "code", appErr.Code, "path", c.FullPath(), "error", appErr.Err)
	}

	c.JSON(HTTPStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    appErr.Details,
	})
}

// ErrorWithCode 直接返回错误码（参数绑定失败等）
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(HTTPStatus(code), Response{
		Code:    code,
		Message: message,
	})
}

// HTTPStatus 业务错误码对应的HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code == apperrors.ErrCodeSubstrateUnavailable:
		return http.StatusServiceUnavailable
	case code >= 50000:
		return http.StatusInternalServerError
	case code == apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code == apperrors.ErrCodeConcurrencyConflict,
		code == apperrors.ErrCodeReferentialIntegrity,
		code == apperrors.ErrCodeDuplicateEntry:
		return http.StatusConflict
	case code == apperrors.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case code >= 40000:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

// PageData 列表数据
type PageData struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
}

func SuccessWithList(c *gin.Context, list interface{}, total int64) {
	Success(c, &PageData{List: list, Total: total})
}
