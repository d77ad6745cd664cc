// Package memory 进程内存储实现
//
// 1. 事务内对全量状态做副本,fn成功后整体替换,失败则丢弃副本
// 2. 写事务之间串行(writeMu),读操作只在取快照指针时短暂加读锁
// 3. 用于门面层单元测试、确定性的并发测试,以及database.driver=memory的本地运行
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

type state struct {
	authors    *table[book.Author, *book.Author]
	categories *table[book.Category, *book.Category]
	books      *table[book.Book, *book.Book]
	customers  *table[order.Customer, *order.Customer]
	orders     *table[order.Order, *order.Order]
	orderItems *table[order.OrderItem, *order.OrderItem]
	banks      *table[fund.Bank, *fund.Bank]
	funds      *table[fund.Fund, *fund.Fund]
	userFunds  *table[fund.UserFund, *fund.UserFund]
	users      *table[user.User, *user.User]
}

func newState() *state {
	st := &state{
		authors:    newTable[book.Author, *book.Author](store.KindAuthor),
		categories: newTable[book.Category, *book.Category](store.KindCategory),
		books:      newTable[book.Book, *book.Book](store.KindBook),
		customers:  newTable[order.Customer, *order.Customer](store.KindCustomer),
		orders:     newTable[order.Order, *order.Order](store.KindOrder),
		orderItems: newTable[order.OrderItem, *order.OrderItem](store.KindOrderItem),
		banks:      newTable[fund.Bank, *fund.Bank](store.KindBank),
		funds:      newTable[fund.Fund, *fund.Fund](store.KindFund),
		userFunds:  newTable[fund.UserFund, *fund.UserFund](store.KindUserFund),
		users:      newTable[user.User, *user.User](store.KindUser),
	}
	st.authors.copyFn = copyAuthor
	st.funds.copyFn = copyFund
	st.orders.unique = func(o *order.Order) string { return o.OrderNumber }
	return st
}

func (st *state) clone() *state {
	return &state{
		authors:    st.authors.clone(),
		categories: st.categories.clone(),
		books:      st.books.clone(),
		customers:  st.customers.clone(),
		orders:     st.orders.clone(),
		orderItems: st.orderItems.clone(),
		banks:      st.banks.clone(),
		funds:      st.funds.clone(),
		userFunds:  st.userFunds.clone(),
		users:      st.users.clone(),
	}
}

func (st *state) exists(kind store.Kind, id uint) bool {
	var ok bool
	switch kind {
	case store.KindAuthor:
		_, ok = st.authors.rows[id]
	case store.KindCategory:
		_, ok = st.categories.rows[id]
	case store.KindBook:
		_, ok = st.books.rows[id]
	case store.KindCustomer:
		_, ok = st.customers.rows[id]
	case store.KindOrder:
		_, ok = st.orders.rows[id]
	case store.KindOrderItem:
		_, ok = st.orderItems.rows[id]
	case store.KindBank:
		_, ok = st.banks.rows[id]
	case store.KindFund:
		_, ok = st.funds.rows[id]
	case store.KindUserFund:
		_, ok = st.userFunds.rows[id]
	case store.KindUser:
		_, ok = st.users.rows[id]
	}
	return ok
}

// Store 内存存储
type Store struct {
	writeMu   sync.Mutex   // 串行化写事务
	mu        sync.RWMutex // 保护committed指针和fault
	committed *state
	fault     error
}

func New() *Store {
	return &Store{committed: newState()}
}

type txKey struct{}

type tx struct {
	owner *Store
	state *state
}

func (s *Store) txFrom(ctx context.Context) *tx {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok || t.owner != s {
		return nil
	}
	return t
}

// InjectFault 之后的所有操作都返回SubstrateUnavailable(测试熔断/降级用)
// 传nil恢复
func (s *Store) InjectFault(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = err
}

func (s *Store) checkFault() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fault != nil {
		return apperrors.Unavailable(s.fault, "内存存储不可用")
	}
	return nil
}

// Transaction 在事务中执行fn
// 已在本存储的事务中时直接复用外层事务;ctx在提交前被取消则丢弃全部修改
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := s.checkFault(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	t := &tx{owner: s, state: s.committed.clone()}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = t.state
	s.mu.Unlock()
	return nil
}

// view 读操作:事务内读事务副本,否则读已提交快照
func (s *Store) view(ctx context.Context, fn func(st *state)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkFault(); err != nil {
		return err
	}
	if t := s.txFrom(ctx); t != nil {
		fn(t.state)
		return nil
	}
	s.mu.RLock()
	st := s.committed
	s.mu.RUnlock()
	fn(st)
	return nil
}

// mutate 写操作:没有外层事务时自动开启一个
func (s *Store) mutate(ctx context.Context, fn func(st *state) error) error {
	if t := s.txFrom(ctx); t != nil {
		if err := s.checkFault(); err != nil {
			return err
		}
		return fn(t.state)
	}
	return s.Transaction(ctx, func(ctx context.Context) error {
		return fn(s.txFrom(ctx).state)
	})
}

// Exists 外键存在性检查(实现invariant.Refs)
func (s *Store) Exists(ctx context.Context, kind store.Kind, id uint) (bool, error) {
	var ok bool
	err := s.view(ctx, func(st *state) {
		ok = st.exists(kind, id)
	})
	return ok, err
}

func copyAuthor(a book.Author) book.Author {
	if a.BirthDate != nil {
		d := *a.BirthDate
		a.BirthDate = &d
	}
	return a
}

func copyFund(f fund.Fund) fund.Fund {
	if f.MinimumInvestment != nil {
		m := *f.MinimumInvestment
		f.MinimumInvestment = &m
	}
	return f
}
