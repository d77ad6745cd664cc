package memory

import (
	"sort"

	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// rowPtr 让泛型表能读写实体内嵌的store.Versioned
type rowPtr[T any] interface {
	*T
	store.Row
}

// table 单个实体类型的内存表
// 行以值的形式保存,读出时返回副本
type table[T any, P rowPtr[T]] struct {
	kind   store.Kind
	rows   map[uint]T
	nextID uint
	copyFn func(T) T      // 深拷贝(实体含指针字段时提供)
	unique func(*T) string // 唯一键(为空串表示不参与唯一约束)
}

func newTable[T any, P rowPtr[T]](kind store.Kind) *table[T, P] {
	return &table[T, P]{kind: kind, rows: make(map[uint]T)}
}

func (t *table[T, P]) copyRow(row T) T {
	if t.copyFn != nil {
		return t.copyFn(row)
	}
	return row
}

func (t *table[T, P]) clone() *table[T, P] {
	cp := &table[T, P]{
		kind:   t.kind,
		rows:   make(map[uint]T, len(t.rows)),
		nextID: t.nextID,
		copyFn: t.copyFn,
		unique: t.unique,
	}
	for id, row := range t.rows {
		cp.rows[id] = t.copyRow(row)
	}
	return cp
}

func (t *table[T, P]) checkUnique(row *T, selfID uint) error {
	if t.unique == nil {
		return nil
	}
	key := t.unique(row)
	if key == "" {
		return nil
	}
	for id := range t.rows {
		if id == selfID {
			continue
		}
		existing := t.rows[id]
		if t.unique(&existing) == key {
			return apperrors.ErrDuplicateEntry.WithMessage(t.kind.Label() + "已存在")
		}
	}
	return nil
}

// insert 分配ID并把版本号置为1,两者都写回row
func (t *table[T, P]) insert(row *T) error {
	if err := t.checkUnique(row, 0); err != nil {
		return err
	}
	t.nextID++
	rev := P(row).Revision()
	rev.ID = t.nextID
	rev.Version = 1
	t.rows[rev.ID] = t.copyRow(*row)
	return nil
}

func (t *table[T, P]) read(id uint) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	cp := t.copyRow(row)
	return &cp, true
}

func (t *table[T, P]) sortedIDs() []uint {
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *table[T, P]) readMany(pred query.Predicate, fields func(*T) query.Fields) []*T {
	out := make([]*T, 0)
	for _, id := range t.sortedIDs() {
		row := t.rows[id]
		if pred.IsEmpty() || query.Match(pred, fields(&row)) {
			cp := t.copyRow(row)
			out = append(out, &cp)
		}
	}
	return out
}

func (t *table[T, P]) count(pred query.Predicate, fields func(*T) query.Fields) int64 {
	var n int64
	for id := range t.rows {
		row := t.rows[id]
		if pred.IsEmpty() || query.Match(pred, fields(&row)) {
			n++
		}
	}
	return n
}

// conditionalWrite 检查版本号并整行覆盖,调用方持有写锁
func (t *table[T, P]) conditionalWrite(row *T, expected uint64) (store.WriteResult, error) {
	rev := P(row).Revision()
	current, ok := t.rows[rev.ID]
	if !ok {
		return store.WriteResult{Outcome: store.NotFound}, nil
	}
	if v := P(&current).Revision().Version; v != expected {
		return store.WriteResult{Outcome: store.VersionMismatch, Version: v}, nil
	}
	if err := t.checkUnique(row, rev.ID); err != nil {
		return store.WriteResult{}, err
	}
	rev.Version = expected + 1
	t.rows[rev.ID] = t.copyRow(*row)
	return store.WriteResult{Outcome: store.Committed, Version: rev.Version}, nil
}

func (t *table[T, P]) delete(id uint, expected uint64) store.WriteResult {
	current, ok := t.rows[id]
	if !ok {
		return store.WriteResult{Outcome: store.NotFound}
	}
	if v := P(&current).Revision().Version; v != expected {
		return store.WriteResult{Outcome: store.VersionMismatch, Version: v}
	}
	delete(t.rows, id)
	return store.WriteResult{Outcome: store.Committed, Version: expected}
}
