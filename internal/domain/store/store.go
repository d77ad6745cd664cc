// Package store 定义领域层对持久化存储的最小需求（端口）
//
// 设计说明:
// 1. 所有可变实体都嵌入Versioned,携带主键与乐观锁版本号
// 2. 写操作只有"条件写":以期望版本号为条件,一步完成校验与递增
// 3. MySQL(GORM)与内存两种实现都满足同一个Store接口
package store

import (
	"context"

	"github.com/xiebiao/bookfund/internal/domain/query"
)

// Versioned 实体的主键与版本号
// 版本号插入时为1,每次成功的条件写+1
type Versioned struct {
	ID      uint
	Version uint64
}

// Revision 返回自身指针,供通用仓储读写主键与版本号
func (v *Versioned) Revision() *Versioned { return v }

// Row 可被通用仓储管理的实体
type Row interface {
	Revision() *Versioned
}

// Outcome 条件写(更新/删除)的结果
type Outcome int

const (
	Committed       Outcome = iota + 1 // 已提交
	VersionMismatch                    // 行存在但版本号不一致
	NotFound                           // 行不存在
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case VersionMismatch:
		return "version_mismatch"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// WriteResult 条件写结果
// Committed时Version为新版本号;VersionMismatch时为存储中的当前版本号
type WriteResult struct {
	Outcome Outcome
	Version uint64
}

// Store 单个实体类型的存储端口
type Store[T any] interface {
	// Insert 插入新行,回填ID,Version置为1
	Insert(ctx context.Context, row *T) error

	// Read 按ID读取,不存在返回NotFoundError
	Read(ctx context.Context, id uint) (*T, error)

	// ReadMany 按谓词读取,结果按ID升序;空结果不是错误
	ReadMany(ctx context.Context, pred query.Predicate) ([]*T, error)

	// ConditionalWrite 当且仅当当前版本号等于expectedVersion时整行覆盖写
	// 提交成功后row.Version更新为新版本号
	ConditionalWrite(ctx context.Context, row *T, expectedVersion uint64) (WriteResult, error)

	// Delete 当且仅当当前版本号等于expectedVersion时物理删除
	Delete(ctx context.Context, id uint, expectedVersion uint64) (WriteResult, error)

	// Exists 外键存在性检查
	Exists(ctx context.Context, id uint) (bool, error)

	// Count 按谓词计数(删除前统计依赖行)
	Count(ctx context.Context, pred query.Predicate) (int64, error)
}

// Transactor 事务边界
// fn内通过ctx传递事务,fn返回error时整体回滚
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
