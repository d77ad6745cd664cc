package mysql

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都会在同一事务中执行,
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := book.ValidateBook(ctx, refs, b); err != nil {
//	        return err
//	    }
//	    res, err := bookRepo.ConditionalWrite(ctx, b, expected)
//	    ...
//	    return err // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := getDB(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中
		// Repository通过getDB从context提取事务DB
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	if err != nil && !apperrors.IsAppError(err) {
		return wrapDBError(err, "事务执行失败")
	}
	return err
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
