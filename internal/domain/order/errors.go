package order

import (
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrOrderNumberDuplicate 订单号重复
	ErrOrderNumberDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号已存在")
)
