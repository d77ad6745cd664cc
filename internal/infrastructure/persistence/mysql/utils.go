package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// GORM v2的错误判断(需开启TranslateError)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	// 兼容检查:MySQL与SQLite的错误信息
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isForeignKeyError 判断是否为外键约束错误
// MySQL错误码:
// - 1451: Cannot delete or update a parent row
// - 1452: Cannot add or update a child row
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == 1451 || myErr.Number == 1452) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isUnavailableError 连接断开/超时等可重试的错误
func isUnavailableError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mysqldriver.ErrInvalidConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapDBError 把数据库错误转换为业务错误
func wrapDBError(err error, message string) error {
	switch {
	case isDuplicateError(err):
		return apperrors.ErrDuplicateEntry
	case isForeignKeyError(err):
		return apperrors.ErrReferentialIntegrity
	case isUnavailableError(err):
		return apperrors.Unavailable(err, message)
	default:
		return apperrors.Wrap(err, message)
	}
}

// duplicate 唯一约束冲突(目前只有订单号)
func duplicate(kind store.Kind) error {
	return apperrors.ErrDuplicateEntry.WithMessage(kind.Label() + "已存在")
}
