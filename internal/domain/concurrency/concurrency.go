// Package concurrency 乐观锁协议
//
// 存储层的条件写只返回结果值(committed/version_mismatch/not_found),
// 这里把结果值翻译成调用方能处理的类型化错误:
//   - VersionMismatch → ErrConcurrencyConflict,Details带当前版本号
//   - NotFound        → ErrNotFound
//
// 不做任何重试或合并,冲突交给调用方重新读取后再提交。
package concurrency

import (
	"context"
	"errors"

	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// ConflictDetail 版本冲突详情
type ConflictDetail struct {
	Entity         store.Kind `json:"entity"`
	ID             uint       `json:"id"`
	CurrentVersion uint64     `json:"current_version"`
}

// Resolve 把条件写结果转换为新版本号或类型化错误
func Resolve(kind store.Kind, id uint, res store.WriteResult) (uint64, error) {
	switch res.Outcome {
	case store.Committed:
		return res.Version, nil
	case store.VersionMismatch:
		return 0, Conflict(kind, id, res.Version)
	case store.NotFound:
		return 0, store.NotFoundError(kind, id)
	default:
		return 0, apperrors.Wrapf(errors.New(res.Outcome.String()), "%s写入结果未知", kind.Label())
	}
}

// Conflict 构造版本冲突错误
func Conflict(kind store.Kind, id uint, current uint64) error {
	return apperrors.ErrConcurrencyConflict.WithDetails(ConflictDetail{
		Entity:         kind,
		ID:             id,
		CurrentVersion: current,
	})
}

// Update 以expected为条件整行写入,返回新版本号
func Update[T any](ctx context.Context, s store.Store[T], kind store.Kind, id uint, row *T, expected uint64) (uint64, error) {
	res, err := s.ConditionalWrite(ctx, row, expected)
	if err != nil {
		return 0, err
	}
	return Resolve(kind, id, res)
}

// Delete 以expected为条件删除
func Delete[T any](ctx context.Context, s store.Store[T], kind store.Kind, id uint, expected uint64) error {
	res, err := s.Delete(ctx, id, expected)
	if err != nil {
		return err
	}
	_, err = Resolve(kind, id, res)
	return err
}

// CurrentVersion 从冲突错误中取出服务端当前版本号
func CurrentVersion(err error) (uint64, bool) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeConcurrencyConflict {
		return 0, false
	}
	d, ok := appErr.Details.(ConflictDetail)
	if !ok {
		return 0, false
	}
	return d.CurrentVersion, true
}
