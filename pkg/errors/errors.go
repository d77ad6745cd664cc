package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
// 4. Details是结构化的错误数据（校验失败明细、当前版本号等），会返回给客户端
type AppError struct {
	Code    int         `json:"code"`              // 业务错误码
	Message string      `json:"message"`           // 用户友好的错误提示
	Details interface{} `json:"details,omitempty"` // 结构化错误数据
	Err     error       `json:"-"`                 // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配
// 预定义错误只是"错误类别"，携带Details的副本与原始变量视为同一类错误：
//
//	errors.Is(err, apperrors.ErrConcurrencyConflict)
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails 返回携带结构化数据的副本（不修改预定义错误本身）
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage 返回替换提示信息的副本
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Unavailable 包装存储层不可达/超时错误
// 调用方可以重试，引擎内部不会重试
func Unavailable(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeSubstrateUnavailable,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal             = 50000 // 内部错误
	ErrCodeDatabaseError        = 50001 // 数据库错误
	ErrCodeRedisError           = 50002 // Redis错误
	ErrCodeSubstrateUnavailable = 50003 // 存储不可用（可重试）

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized = 40100 // 未登录
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期
	ErrCodeForbidden    = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound = 40400 // 资源不存在(通用)

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError        = 40000 // 业务错误(通用)
	ErrCodeInvalidOrderStatus   = 40002 // 订单状态非法
	ErrCodeDuplicateEntry       = 40009 // 重复记录(通用)
	ErrCodeConcurrencyConflict  = 40010 // 并发修改冲突(版本号不匹配)
	ErrCodeReferentialIntegrity = 40011 // 存在关联数据,禁止删除

	// 参数错误（40900-40999）
	ErrCodeInvalidParams    = 40900 // 参数错误
	ErrCodeBindError        = 40901 // 参数绑定失败
	ErrCodeValidationFailed = 40902 // 字段校验失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal             = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError        = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError           = New(ErrCodeRedisError, "缓存服务错误")
	ErrSubstrateUnavailable = New(ErrCodeSubstrateUnavailable, "存储服务暂不可用,请稍后重试")

	// 认证授权
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 业务规则
	ErrInvalidOrderStatus   = New(ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
	ErrDuplicateEntry       = New(ErrCodeDuplicateEntry, "记录已存在")
	ErrConcurrencyConflict  = New(ErrCodeConcurrencyConflict, "数据已被其他人修改,请刷新后重试")
	ErrReferentialIntegrity = New(ErrCodeReferentialIntegrity, "存在关联数据,无法删除")

	// 参数错误
	ErrInvalidParams    = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError        = New(ErrCodeBindError, "参数格式错误")
	ErrValidationFailed = New(ErrCodeValidationFailed, "数据校验失败")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsClientError 判断是否为客户端/业务错误（4xxxx）
// 熔断器用它区分"存储故障"和"正常的业务拒绝"
func IsClientError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= 40000 && appErr.Code < 50000
}
