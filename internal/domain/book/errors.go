package book

import (
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeNotFound, "图书不存在")

	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeNotFound, "作者不存在")

	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeNotFound, "分类不存在")
)
