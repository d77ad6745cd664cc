package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

type rowPtr[E any] interface {
	*E
	store.Row
}

type modelPtr[M any] interface {
	*M
	base() *VersionedModel
}

// repository 通用的乐观锁仓储实现(GORM)
// 设计说明:
// 1. 实现domain/store.Store接口,每种实体一个实例
// 2. 负责domain实体与GORM模型之间的转换
// 3. 条件写用 UPDATE ... WHERE id = ? AND version = ? 一步完成校验与递增,
//    影响行数为0时再查一次区分"不存在"和"版本不一致"
type repository[E any, EP rowPtr[E], M any, MP modelPtr[M]] struct {
	db       *gorm.DB
	kind     store.Kind
	table    string
	joins    map[string]join
	toModel  func(*E) *M
	toEntity func(*M) *E
}

func (r *repository[E, EP, M, MP]) label() string { return r.kind.Label() }

// Insert 插入新行,版本号置为1,回填自增ID
func (r *repository[E, EP, M, MP]) Insert(ctx context.Context, row *E) error {
	m := r.toModel(row)
	b := MP(m).base()
	b.ID = 0
	b.Version = 1

	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(m).Error; err != nil {
		if isDuplicateError(err) {
			return duplicate(r.kind)
		}
		return wrapDBError(err, "创建"+r.label()+"失败")
	}

	*row = *r.toEntity(m)
	return nil
}

// Read 根据ID查找
func (r *repository[E, EP, M, MP]) Read(ctx context.Context, id uint) (*E, error) {
	var m M
	if err := getDB(ctx, r.db).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.NotFoundError(r.kind, id)
		}
		return nil, wrapDBError(err, "查询"+r.label()+"失败")
	}
	return r.toEntity(&m), nil
}

// ReadMany 按谓词查询,按ID升序
func (r *repository[E, EP, M, MP]) ReadMany(ctx context.Context, pred query.Predicate) ([]*E, error) {
	var models []M
	db := applyPredicate(getDB(ctx, r.db).Model(new(M)), r.table, pred, r.joins)
	err := db.Select(r.table + ".*").Order(r.table + ".id ASC").Find(&models).Error
	if err != nil {
		return nil, wrapDBError(err, "查询"+r.label()+"列表失败")
	}

	out := make([]*E, 0, len(models))
	for i := range models {
		out = append(out, r.toEntity(&models[i]))
	}
	return out, nil
}

// ConditionalWrite 整行覆盖写,以版本号为条件
func (r *repository[E, EP, M, MP]) ConditionalWrite(ctx context.Context, row *E, expected uint64) (store.WriteResult, error) {
	m := r.toModel(row)
	id := EP(row).Revision().ID
	MP(m).base().Version = expected + 1

	// UPDATE t SET ... , version = expected+1 WHERE id = ? AND version = ?
	// Select("*")保证零值字段(如IsActive=false)也会被写入
	result := getDB(ctx, r.db).Model(m).
		Where(r.table+".version = ?", expected).
		Select("*").
		Omit(clause.Associations).
		Updates(m)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return store.WriteResult{}, duplicate(r.kind)
		}
		return store.WriteResult{}, wrapDBError(result.Error, "更新"+r.label()+"失败")
	}

	if result.RowsAffected == 0 {
		return r.miss(ctx, id)
	}

	*row = *r.toEntity(m)
	return store.WriteResult{Outcome: store.Committed, Version: expected + 1}, nil
}

// Delete 物理删除,以版本号为条件
func (r *repository[E, EP, M, MP]) Delete(ctx context.Context, id uint, expected uint64) (store.WriteResult, error) {
	result := getDB(ctx, r.db).
		Where("id = ? AND version = ?", id, expected).
		Delete(new(M))
	if result.Error != nil {
		return store.WriteResult{}, wrapDBError(result.Error, "删除"+r.label()+"失败")
	}

	if result.RowsAffected == 0 {
		return r.miss(ctx, id)
	}
	return store.WriteResult{Outcome: store.Committed, Version: expected}, nil
}

// miss 条件写未命中时再查一次确定原因
func (r *repository[E, EP, M, MP]) miss(ctx context.Context, id uint) (store.WriteResult, error) {
	var versions []uint64
	err := getDB(ctx, r.db).Model(new(M)).Where("id = ?", id).Pluck("version", &versions).Error
	if err != nil {
		return store.WriteResult{}, wrapDBError(err, "查询"+r.label()+"失败")
	}
	if len(versions) == 0 {
		return store.WriteResult{Outcome: store.NotFound}, nil
	}
	return store.WriteResult{Outcome: store.VersionMismatch, Version: versions[0]}, nil
}

func (r *repository[E, EP, M, MP]) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := getDB(ctx, r.db).Model(new(M)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, wrapDBError(err, "查询"+r.label()+"失败")
	}
	return n > 0, nil
}

func (r *repository[E, EP, M, MP]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	var n int64
	db := applyPredicate(getDB(ctx, r.db).Model(new(M)), r.table, pred, r.joins)
	if err := db.Count(&n).Error; err != nil {
		return 0, wrapDBError(err, "统计"+r.label()+"失败")
	}
	return n, nil
}
