package memory

import (
	"context"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
)

// repository 对某张内存表的store.Store实现
type repository[T any, P rowPtr[T]] struct {
	s      *Store
	pick   func(*state) *table[T, P]
	fields func(*state, *T) query.Fields
}

// Insert 和ConditionalWrite在副本上分配ID/版本号,mutate成功返回后才回写调用方的行
// (没有外层事务时此时已提交)
func (r *repository[T, P]) Insert(ctx context.Context, row *T) error {
	work := *row
	err := r.s.mutate(ctx, func(st *state) error {
		return r.pick(st).insert(&work)
	})
	if err != nil {
		return err
	}
	*row = work
	return nil
}

func (r *repository[T, P]) Read(ctx context.Context, id uint) (*T, error) {
	var (
		row  *T
		ok   bool
		kind store.Kind
	)
	err := r.s.view(ctx, func(st *state) {
		t := r.pick(st)
		kind = t.kind
		row, ok = t.read(id)
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.NotFoundError(kind, id)
	}
	return row, nil
}

func (r *repository[T, P]) ReadMany(ctx context.Context, pred query.Predicate) ([]*T, error) {
	var rows []*T
	err := r.s.view(ctx, func(st *state) {
		rows = r.pick(st).readMany(pred, func(row *T) query.Fields { return r.fields(st, row) })
	})
	return rows, err
}

func (r *repository[T, P]) ConditionalWrite(ctx context.Context, row *T, expected uint64) (store.WriteResult, error) {
	var res store.WriteResult
	work := *row
	err := r.s.mutate(ctx, func(st *state) error {
		var err error
		res, err = r.pick(st).conditionalWrite(&work, expected)
		return err
	})
	if err == nil && res.Outcome == store.Committed {
		*row = work
	}
	return res, err
}

func (r *repository[T, P]) Delete(ctx context.Context, id uint, expected uint64) (store.WriteResult, error) {
	var res store.WriteResult
	err := r.s.mutate(ctx, func(st *state) error {
		res = r.pick(st).delete(id, expected)
		return nil
	})
	return res, err
}

func (r *repository[T, P]) Exists(ctx context.Context, id uint) (bool, error) {
	var ok bool
	err := r.s.view(ctx, func(st *state) {
		_, ok = r.pick(st).rows[id]
	})
	return ok, err
}

func (r *repository[T, P]) Count(ctx context.Context, pred query.Predicate) (int64, error) {
	var n int64
	err := r.s.view(ctx, func(st *state) {
		n = r.pick(st).count(pred, func(row *T) query.Fields { return r.fields(st, row) })
	})
	return n, err
}

func (s *Store) Authors() book.AuthorRepository {
	return &repository[book.Author, *book.Author]{
		s:    s,
		pick: func(st *state) *table[book.Author, *book.Author] { return st.authors },
		fields: func(_ *state, a *book.Author) query.Fields {
			return query.Fields{
				query.FieldID:        a.ID,
				query.FieldFirstName: a.FirstName,
				query.FieldLastName:  a.LastName,
				query.FieldEmail:     a.Email,
			}
		},
	}
}

func (s *Store) Categories() book.CategoryRepository {
	return &repository[book.Category, *book.Category]{
		s:    s,
		pick: func(st *state) *table[book.Category, *book.Category] { return st.categories },
		fields: func(_ *state, c *book.Category) query.Fields {
			return query.Fields{
				query.FieldID:       c.ID,
				query.FieldName:     c.Name,
				query.FieldIsActive: c.IsActive,
			}
		},
	}
}

// Books 图书搜索需要关联作者姓名
func (s *Store) Books() book.BookRepository {
	return &repository[book.Book, *book.Book]{
		s:    s,
		pick: func(st *state) *table[book.Book, *book.Book] { return st.books },
		fields: func(st *state, b *book.Book) query.Fields {
			f := query.Fields{
				query.FieldID:             b.ID,
				query.FieldBookTitle:      b.Title,
				query.FieldBookISBN:       b.ISBN,
				query.FieldBookPrice:      b.Price,
				query.FieldBookAuthorID:   b.AuthorID,
				query.FieldBookCategoryID: b.CategoryID,
				query.FieldIsActive:       b.IsActive,
			}
			if a, ok := st.authors.rows[b.AuthorID]; ok {
				f[query.FieldBookAuthorFirstName] = a.FirstName
				f[query.FieldBookAuthorLastName] = a.LastName
			}
			return f
		},
	}
}

func (s *Store) Customers() order.CustomerRepository {
	return &repository[order.Customer, *order.Customer]{
		s:    s,
		pick: func(st *state) *table[order.Customer, *order.Customer] { return st.customers },
		fields: func(_ *state, c *order.Customer) query.Fields {
			return query.Fields{
				query.FieldID:        c.ID,
				query.FieldFirstName: c.FirstName,
				query.FieldLastName:  c.LastName,
				query.FieldEmail:     c.Email,
			}
		},
	}
}

func (s *Store) Orders() order.OrderRepository {
	return &repository[order.Order, *order.Order]{
		s:    s,
		pick: func(st *state) *table[order.Order, *order.Order] { return st.orders },
		fields: func(_ *state, o *order.Order) query.Fields {
			return query.Fields{
				query.FieldID:              o.ID,
				query.FieldOrderCustomerID: o.CustomerID,
				query.FieldOrderStatus:     int(o.Status),
				query.FieldOrderNumber:     o.OrderNumber,
			}
		},
	}
}

func (s *Store) OrderItems() order.OrderItemRepository {
	return &repository[order.OrderItem, *order.OrderItem]{
		s:    s,
		pick: func(st *state) *table[order.OrderItem, *order.OrderItem] { return st.orderItems },
		fields: func(_ *state, i *order.OrderItem) query.Fields {
			return query.Fields{
				query.FieldID:               i.ID,
				query.FieldOrderItemOrderID: i.OrderID,
				query.FieldOrderItemBookID:  i.BookID,
			}
		},
	}
}

func (s *Store) Banks() fund.BankRepository {
	return &repository[fund.Bank, *fund.Bank]{
		s:    s,
		pick: func(st *state) *table[fund.Bank, *fund.Bank] { return st.banks },
		fields: func(_ *state, b *fund.Bank) query.Fields {
			return query.Fields{
				query.FieldID:       b.ID,
				query.FieldName:     b.Name,
				query.FieldIsActive: b.IsActive,
			}
		},
	}
}

func (s *Store) Funds() fund.FundRepository {
	return &repository[fund.Fund, *fund.Fund]{
		s:    s,
		pick: func(st *state) *table[fund.Fund, *fund.Fund] { return st.funds },
		fields: func(_ *state, f *fund.Fund) query.Fields {
			return query.Fields{
				query.FieldID:         f.ID,
				query.FieldName:       f.Name,
				query.FieldFundBankID: f.BankID,
				query.FieldFundType:   string(f.FundType),
				query.FieldIsActive:   f.IsActive,
			}
		},
	}
}

func (s *Store) UserFunds() fund.UserFundRepository {
	return &repository[fund.UserFund, *fund.UserFund]{
		s:    s,
		pick: func(st *state) *table[fund.UserFund, *fund.UserFund] { return st.userFunds },
		fields: func(_ *state, uf *fund.UserFund) query.Fields {
			return query.Fields{
				query.FieldID:             uf.ID,
				query.FieldUserFundUserID: uf.UserID,
				query.FieldUserFundFundID: uf.FundID,
				query.FieldIsActive:       uf.IsActive,
			}
		},
	}
}

func (s *Store) Users() user.Repository {
	return &repository[user.User, *user.User]{
		s:    s,
		pick: func(st *state) *table[user.User, *user.User] { return st.users },
		fields: func(_ *state, u *user.User) query.Fields {
			return query.Fields{
				query.FieldID:       u.ID,
				query.FieldIsActive: u.IsActive,
			}
		},
	}
}
