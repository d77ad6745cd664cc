package facade

import (
	"context"
	"fmt"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/concurrency"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/metrics"
)

type rowPtr[T any] interface {
	*T
	store.Row
}

// owner 需要重算聚合的拥有者行
type owner struct {
	kind store.Kind
	id   uint
}

// dependent 删除保护:统计引用本行的依赖行
type dependent struct {
	kind  store.Kind
	count func(ctx context.Context, sub Substrate, id uint) (int64, error)
}

func dependentsBy[T any](kind store.Kind, repo func(Substrate) store.Store[T], field string) dependent {
	return dependent{
		kind: kind,
		count: func(ctx context.Context, sub Substrate, id uint) (int64, error) {
			return repo(sub).Count(ctx, query.ByField(field, id))
		},
	}
}

// DependentDetail ReferentialIntegrity错误详情
type DependentDetail struct {
	Entity         store.Kind `json:"entity"`
	ID             uint       `json:"id"`
	DependentKind  store.Kind `json:"dependent_kind"`
	DependentCount int64      `json:"dependent_count"`
}

// entity 一种实体在门面中的行为
type entity[T any, P rowPtr[T]] struct {
	kind     store.Kind
	repo     func(Substrate) store.Store[T]
	validate func(ctx context.Context, sub Substrate, row, prev *T) error

	// prepare 创建前设置默认值,清空调用方传入的派生字段
	prepare func(row *T, now time.Time)
	// carry 更新前从已存储的行继承派生字段和创建时间
	carry func(row, prev *T, now time.Time)
	// owners 本行写入后需要重算的聚合
	owners func(row *T) []owner

	dependents []dependent
}

func (e entity[T, P]) ownersOf(row *T) []owner {
	if e.owners == nil || row == nil {
		return nil
	}
	return e.owners(row)
}

// create和update在调用方行的副本上工作,事务提交后才回写调用方的行
func create[T any, P rowPtr[T]](ctx context.Context, f *Facade, e entity[T, P], row *T) (*T, error) {
	work := *row
	err := f.write(ctx, e.kind, "create", func(ctx context.Context, o *op) error {
		rev := P(&work).Revision()
		rev.ID, rev.Version = 0, 0
		if e.prepare != nil {
			e.prepare(&work, f.now())
		}
		if err := e.validate(ctx, f.sub, &work, nil); err != nil {
			return err
		}
		if err := e.repo(f.sub).Insert(ctx, &work); err != nil {
			return err
		}
		o.emit(e.kind, rev.ID, rev.Version, ActionCreated)
		return f.recomputeOwners(ctx, o, e.ownersOf(&work))
	})
	if err != nil {
		return nil, err
	}
	*row = work
	return row, nil
}

func update[T any, P rowPtr[T]](ctx context.Context, f *Facade, e entity[T, P], id uint, expected uint64, row *T) (*T, error) {
	work := *row
	err := f.write(ctx, e.kind, "update", func(ctx context.Context, o *op) error {
		repo := e.repo(f.sub)
		prev, err := repo.Read(ctx, id)
		if err != nil {
			return err
		}

		P(&work).Revision().ID = id
		if e.carry != nil {
			e.carry(&work, prev, f.now())
		}
		if err := e.validate(ctx, f.sub, &work, prev); err != nil {
			return err
		}

		version, err := concurrency.Update(ctx, repo, e.kind, id, &work, expected)
		if err != nil {
			return err
		}
		o.emit(e.kind, id, version, ActionUpdated)

		// 拥有者发生变化时新旧两边都要重算
		return f.recomputeOwners(ctx, o, append(e.ownersOf(prev), e.ownersOf(&work)...))
	})
	if err != nil {
		return nil, err
	}
	*row = work
	return row, nil
}

func remove[T any, P rowPtr[T]](ctx context.Context, f *Facade, e entity[T, P], id uint, expected uint64) error {
	return f.write(ctx, e.kind, "delete", func(ctx context.Context, o *op) error {
		repo := e.repo(f.sub)
		prev, err := repo.Read(ctx, id)
		if err != nil {
			return err
		}

		for _, d := range e.dependents {
			n, err := d.count(ctx, f.sub, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return apperrors.ErrReferentialIntegrity.
					WithMessage(fmt.Sprintf("%s存在%d条%s,无法删除", e.kind.Label(), n, d.kind.Label())).
					WithDetails(DependentDetail{Entity: e.kind, ID: id, DependentKind: d.kind, DependentCount: n})
			}
		}

		if err := concurrency.Delete(ctx, repo, e.kind, id, expected); err != nil {
			return err
		}
		o.emit(e.kind, id, expected, ActionDeleted)
		return f.recomputeOwners(ctx, o, e.ownersOf(prev))
	})
}

func get[T any, P rowPtr[T]](ctx context.Context, f *Facade, e entity[T, P], id uint) (*T, error) {
	var row *T
	err := f.read(ctx, e.kind, "get", func(ctx context.Context) error {
		var err error
		row, err = e.repo(f.sub).Read(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func list[T any, P rowPtr[T]](ctx context.Context, f *Facade, e entity[T, P], pred query.Predicate) ([]*T, error) {
	var rows []*T
	err := f.read(ctx, e.kind, "list", func(ctx context.Context) error {
		var err error
		rows, err = e.repo(f.sub).ReadMany(ctx, pred)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*T{}
	}
	return rows, nil
}

// recomputeOwners 依次重算聚合,同一拥有者只重算一次
func (f *Facade) recomputeOwners(ctx context.Context, o *op, owners []owner) error {
	seen := make(map[owner]bool, len(owners))
	for _, ow := range owners {
		if ow.id == 0 || seen[ow] {
			continue
		}
		seen[ow] = true

		var (
			changed bool
			err     error
			name    string
		)
		switch ow.kind {
		case store.KindOrder:
			name = "order_total"
			changed, err = f.recompute.RecomputeOrderTotal(ctx, ow.id)
		case store.KindUser:
			name = "portfolio_total"
			changed, err = f.recompute.RecomputePortfolioTotal(ctx, ow.id)
		default:
			continue
		}
		if err != nil {
			return err
		}
		metrics.IncRecomputation(name, changed)
		if changed {
			o.emit(ow.kind, ow.id, 0, ActionRecomputed)
		}
	}
	return nil
}

// stamp 时间字段为空时填入now
func stamp(t *time.Time, now time.Time) {
	if t.IsZero() {
		*t = now
	}
}
