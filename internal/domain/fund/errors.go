package fund

import (
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// 基金领域错误定义
var (
	ErrBankNotFound     = apperrors.New(apperrors.ErrCodeNotFound, "银行不存在")
	ErrFundNotFound     = apperrors.New(apperrors.ErrCodeNotFound, "基金不存在")
	ErrUserFundNotFound = apperrors.New(apperrors.ErrCodeNotFound, "投资记录不存在")
)
