package user

import (
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeNotFound, "用户不存在")
)
