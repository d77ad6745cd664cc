package facade

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/concurrency"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
	"github.com/xiebiao/bookfund/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookfund/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/logger"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newFacade(opts ...Option) (*Facade, *memory.Store) {
	mem := memory.New()
	opts = append([]Option{withClock(func() time.Time { return fixedNow })}, opts...)
	return New(mem, logger.Nop(), opts...), mem
}

func uintPtr(v uint) *uint    { return &v }
func int64Ptr(v int64) *int64 { return &v }

func codeOf(err error) int {
	if err == nil {
		return 0
	}
	return apperrors.GetAppError(err).Code
}

// catalog 作者+分类
type catalog struct {
	author   *book.Author
	category *book.Category
}

func seedCatalog(t *testing.T, f *Facade) catalog {
	t.Helper()
	ctx := context.Background()
	a, err := f.CreateAuthor(ctx, book.NewAuthor("Agatha", "Christie"))
	require.NoError(t, err)
	c, err := f.CreateCategory(ctx, book.NewCategory("Mystery"))
	require.NoError(t, err)
	return catalog{author: a, category: c}
}

func seedOrder(t *testing.T, f *Facade) (*order.Order, *book.Book) {
	t.Helper()
	ctx := context.Background()
	cat := seedCatalog(t, f)
	b, err := f.CreateBook(ctx, book.NewBook("Murder on the Orient Express", "978-0-06-269366-2", 1699, cat.author.ID, cat.category.ID))
	require.NoError(t, err)
	cu, err := f.CreateCustomer(ctx, order.NewCustomer("Hercule", "Poirot", "hercule@example.com"))
	require.NoError(t, err)
	o, _, err := f.CreateOrder(ctx, order.NewOrder(cu.ID, "Whitehaven Mansions"), nil)
	require.NoError(t, err)
	return o, b
}

func TestFacade_CreateThenGetBook(t *testing.T) {
	f, _ := newFacade()
	cat := seedCatalog(t, f)
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		input := book.Book{
			Title:         rapid.StringMatching(`[A-Za-z][A-Za-z ]{1,40}`).Draw(t, "title"),
			Description:   rapid.StringMatching(`[a-z ]{0,100}`).Draw(t, "description"),
			ISBN:          rapid.StringMatching(`97[89][0-9]{10}`).Draw(t, "isbn"),
			Price:         rapid.Int64Range(book.MinPrice, book.MaxPrice).Draw(t, "price"),
			StockQuantity: rapid.IntRange(0, 1000).Draw(t, "stock"),
			IsActive:      rapid.Bool().Draw(t, "active"),
			AuthorID:      cat.author.ID,
			CategoryID:    cat.category.ID,
		}
		payload := input

		created, err := f.CreateBook(ctx, &payload)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, uint64(1), created.Version)

		got, err := f.GetBook(ctx, created.ID)
		require.NoError(t, err)

		want := input
		want.ID, want.Version = created.ID, 1
		want.PublishedDate, want.CreatedAt, want.UpdatedAt = fixedNow, fixedNow, fixedNow
		assert.Equal(t, want, *got)
	})
}

func TestFacade_ValidationReportsEveryViolation(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()

	_, err := f.CreateBook(ctx, &book.Book{Title: "X", ISBN: "123", Price: 0, AuthorID: 42})
	require.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	fields := map[string]invariant.Rule{}
	for _, v := range invariant.ViolationsOf(err) {
		fields[v.Field] = v.Rule
	}
	assert.Equal(t, map[string]invariant.Rule{
		"title":       invariant.RuleLength,
		"isbn":        invariant.RuleFormat,
		"price":       invariant.RuleRange,
		"author_id":   invariant.RuleForeignKey,
		"category_id": invariant.RuleRequired,
	}, fields)

	rows, err := f.ListBooks(ctx, query.BookFilter{ActiveOnly: query.Bool(false)})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFacade_UpdateAndDelete(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	cat := seedCatalog(t, f)

	b, err := f.CreateBook(ctx, book.NewBook("Foundation", "9780553293357", 1599, cat.author.ID, cat.category.ID))
	require.NoError(t, err)

	t.Run("版本一致时更新成功", func(t *testing.T) {
		next := *b
		next.Price = 1799
		updated, err := f.UpdateBook(ctx, b.ID, 1, &next)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), updated.Version)
		assert.Equal(t, b.CreatedAt, updated.CreatedAt)
	})

	t.Run("旧版本返回冲突和当前版本号", func(t *testing.T) {
		stale := *b
		stale.Price = 1899
		_, err := f.UpdateBook(ctx, b.ID, 1, &stale)
		require.True(t, errors.Is(err, apperrors.ErrConcurrencyConflict))
		cur, ok := concurrency.CurrentVersion(err)
		require.True(t, ok)
		assert.Equal(t, uint64(2), cur)

		got, _ := f.GetBook(ctx, b.ID)
		assert.Equal(t, int64(1799), got.Price)
	})

	t.Run("不存在的行", func(t *testing.T) {
		_, err := f.UpdateBook(ctx, 999, 1, book.NewBook("Ghost", "9780553293357", 100, cat.author.ID, cat.category.ID))
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		assert.True(t, errors.Is(f.DeleteBook(ctx, 999, 1), apperrors.ErrNotFound))
	})

	t.Run("旧版本删除返回冲突", func(t *testing.T) {
		err := f.DeleteBook(ctx, b.ID, 1)
		assert.True(t, errors.Is(err, apperrors.ErrConcurrencyConflict))
	})

	t.Run("当前版本删除成功", func(t *testing.T) {
		require.NoError(t, f.DeleteBook(ctx, b.ID, 2))
		_, err := f.GetBook(ctx, b.ID)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}

func TestFacade_ConcurrentUpdates(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	cat := seedCatalog(t, f)
	b, err := f.CreateBook(ctx, book.NewBook("Foundation", "9780553293357", 1599, cat.author.ID, cat.category.ID))
	require.NoError(t, err)

	const writers = 8
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, writers)
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := *b
			payload.Title = fmt.Sprintf("Foundation %d", i)
			<-start
			_, errs[i] = f.UpdateBook(ctx, b.ID, 1, &payload)
		}(i)
	}
	close(start)
	wg.Wait()

	var committed, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, apperrors.ErrConcurrencyConflict):
			conflicts++
			cur, _ := concurrency.CurrentVersion(err)
			assert.Equal(t, uint64(2), cur)
		default:
			t.Errorf("意外的错误: %v", err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, writers-1, conflicts)

	got, err := f.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Version)
}

func TestFacade_ListBooks(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()

	christie, _ := f.CreateAuthor(ctx, book.NewAuthor("Agatha", "Christie"))
	rowling, _ := f.CreateAuthor(ctx, book.NewAuthor("Joanne", "Rowling"))
	asimov, _ := f.CreateAuthor(ctx, book.NewAuthor("Isaac", "Asimov"))
	fiction, _ := f.CreateCategory(ctx, book.NewCategory("Fiction"))
	_, _ = f.CreateCategory(ctx, book.NewCategory("Fantasy"))
	scifi, _ := f.CreateCategory(ctx, book.NewCategory("Science Fiction"))
	require.Equal(t, uint(1), fiction.ID)
	require.Equal(t, uint(3), scifi.ID)

	mustBook := func(title string, price int64, authorID, categoryID uint, active bool) *book.Book {
		b := book.NewBook(title, "9780000000000", price, authorID, categoryID)
		b.IsActive = active
		created, err := f.CreateBook(ctx, b)
		require.NoError(t, err)
		return created
	}
	orient := mustBook("Murder on the Orient Express", 1699, christie.ID, fiction.ID, true)
	potter := mustBook("Harry Potter and the Philosopher's Stone", 1999, rowling.ID, fiction.ID, true)
	mustBook("Foundation", 1599, asimov.ID, scifi.ID, true)
	mustBook("The Mysterious Affair at Styles", 1750, christie.ID, fiction.ID, false)
	mustBook("Death on the Nile", 2500, christie.ID, fiction.ID, true)

	t.Run("分类加价格区间", func(t *testing.T) {
		got, err := f.ListBooks(ctx, query.BookFilter{
			CategoryID: uintPtr(1),
			MinPrice:   int64Ptr(1500),
			MaxPrice:   int64Ptr(2000),
		})
		require.NoError(t, err)
		titles := make([]string, 0, len(got))
		for _, b := range got {
			titles = append(titles, b.Title)
		}
		assert.Equal(t, []string{orient.Title, potter.Title}, titles)
	})

	t.Run("按作者姓搜索", func(t *testing.T) {
		got, err := f.ListBooks(ctx, query.BookFilter{SearchText: "CHRISTIE"})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = f.ListBooks(ctx, query.BookFilter{SearchText: "christie", ActiveOnly: query.Bool(false)})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("空结果不是错误", func(t *testing.T) {
		got, err := f.ListBooks(ctx, query.BookFilter{SearchText: "tolkien"})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestFacade_DeletionGuard(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	o, b := seedOrder(t, f)

	_, err := f.CreateOrderItem(ctx, order.NewOrderItem(o.ID, b.ID, 1, b.Price))
	require.NoError(t, err)

	err = f.DeleteBook(ctx, b.ID, b.Version)
	require.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))
	assert.Equal(t, DependentDetail{
		Entity:         store.KindBook,
		ID:             b.ID,
		DependentKind:  store.KindOrderItem,
		DependentCount: 1,
	}, apperrors.GetAppError(err).Details)

	got, err := f.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	t.Run("作者和订单同样受保护", func(t *testing.T) {
		err := f.DeleteAuthor(ctx, b.AuthorID, 1)
		assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))

		cur, _ := f.GetOrder(ctx, o.ID)
		err = f.DeleteOrder(ctx, o.ID, cur.Version)
		assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))
	})
}

func TestFacade_OrderTotalFollowsItems(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f, _ := newFacade()
		ctx := context.Background()

		a, _ := f.CreateAuthor(ctx, book.NewAuthor("Agatha", "Christie"))
		c, _ := f.CreateCategory(ctx, book.NewCategory("Mystery"))
		b, err := f.CreateBook(ctx, book.NewBook("Curtain", "9780062073716", 999, a.ID, c.ID))
		require.NoError(t, err)
		cu, _ := f.CreateCustomer(ctx, order.NewCustomer("Jane", "Marple", "jane@example.com"))
		var orderIDs []uint
		for i := 0; i < 2; i++ {
			o, _, err := f.CreateOrder(ctx, order.NewOrder(cu.ID, ""), nil)
			require.NoError(t, err)
			orderIDs = append(orderIDs, o.ID)
		}

		live := map[uint]*order.OrderItem{}
		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			ids := make([]uint, 0, len(live))
			for id := range live {
				ids = append(ids, id)
			}
			action := rapid.IntRange(0, 2).Draw(t, "action")
			if len(ids) == 0 {
				action = 0
			}
			qty := rapid.IntRange(1, 10).Draw(t, "qty")
			price := rapid.Int64Range(1, 5000).Draw(t, "price")
			target := rapid.SampledFrom(orderIDs).Draw(t, "order")

			switch action {
			case 0:
				item, err := f.CreateOrderItem(ctx, order.NewOrderItem(target, b.ID, qty, price))
				require.NoError(t, err)
				live[item.ID] = item
			case 1:
				id := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "pick")]
				cur := live[id]
				next := &order.OrderItem{Quantity: qty, UnitPrice: price, OrderID: target, BookID: b.ID}
				item, err := f.UpdateOrderItem(ctx, id, cur.Version, next)
				require.NoError(t, err)
				live[id] = item
			case 2:
				id := ids[rapid.IntRange(0, len(ids)-1).Draw(t, "pick")]
				require.NoError(t, f.DeleteOrderItem(ctx, id, live[id].Version))
				delete(live, id)
			}

			for _, oid := range orderIDs {
				var want int64
				for _, item := range live {
					if item.OrderID == oid {
						want += int64(item.Quantity) * item.UnitPrice
					}
				}
				got, err := f.GetOrder(ctx, oid)
				require.NoError(t, err)
				if got.TotalAmount != want {
					t.Fatalf("订单%d总额=%d, 明细合计=%d", oid, got.TotalAmount, want)
				}
			}
		}
	})
}

func TestFacade_RecomputeSuppressesNoopWrites(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	o, b := seedOrder(t, f)

	item, err := f.CreateOrderItem(ctx, order.NewOrderItem(o.ID, b.ID, 2, 1000))
	require.NoError(t, err)
	afterCreate, _ := f.GetOrder(ctx, o.ID)
	assert.Equal(t, int64(2000), afterCreate.TotalAmount)

	// 明细数值不变,订单总额也不变
	same := *item
	_, err = f.UpdateOrderItem(ctx, item.ID, item.Version, &same)
	require.NoError(t, err)

	afterUpdate, _ := f.GetOrder(ctx, o.ID)
	assert.Equal(t, afterCreate.Version, afterUpdate.Version)
}

func TestFacade_CreateOrderWithItems(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	_, b := seedOrder(t, f)
	cu, _ := f.ListCustomers(ctx, query.CustomerFilter{})
	require.Len(t, cu, 1)

	t.Run("订单和明细一起创建", func(t *testing.T) {
		o := order.NewOrder(cu[0].ID, "221B Baker Street")
		o.TotalAmount = 1 // 派生字段,会被忽略
		created, items, err := f.CreateOrder(ctx, o, []*order.OrderItem{
			{Quantity: 2, UnitPrice: 1699, BookID: b.ID},
			{Quantity: 1, UnitPrice: 500, BookID: b.ID},
		})
		require.NoError(t, err)
		assert.Regexp(t, `^ORD\d+$`, created.OrderNumber)
		assert.Equal(t, order.OrderStatusPending, created.Status)
		assert.Equal(t, int64(2*1699+500), created.TotalAmount)
		require.Len(t, items, 2)
		assert.Equal(t, created.ID, items[0].OrderID)

		detail, err := f.GetOrderDetail(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Items, 2)
	})

	t.Run("明细不合法时整体回滚", func(t *testing.T) {
		before, _ := f.ListOrders(ctx, query.OrderFilter{})
		_, _, err := f.CreateOrder(ctx, order.NewOrder(cu[0].ID, ""), []*order.OrderItem{
			{Quantity: 1, UnitPrice: 100, BookID: b.ID},
			{Quantity: 0, UnitPrice: 100, BookID: 999},
		})
		require.True(t, errors.Is(err, apperrors.ErrValidationFailed))

		var fields []string
		for _, v := range invariant.ViolationsOf(err) {
			fields = append(fields, v.Field)
		}
		assert.ElementsMatch(t, []string{"items[1].quantity", "items[1].book_id"}, fields)

		after, _ := f.ListOrders(ctx, query.OrderFilter{})
		assert.Equal(t, len(before), len(after))
	})

	t.Run("订单本身不合法时同时报告明细问题", func(t *testing.T) {
		_, _, err := f.CreateOrder(ctx, order.NewOrder(0, ""), []*order.OrderItem{
			{Quantity: 0, UnitPrice: 100, BookID: b.ID},
		})
		var fields []string
		for _, v := range invariant.ViolationsOf(err) {
			fields = append(fields, v.Field)
		}
		assert.ElementsMatch(t, []string{"customer_id", "items[0].quantity"}, fields)
	})
}

func TestFacade_OrderStatusTransitions(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	o, _ := seedOrder(t, f)

	next := *o
	next.Status = order.OrderStatusShipped
	_, err := f.UpdateOrder(ctx, o.ID, o.Version, &next)
	require.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, invariant.RuleTransition, invariant.ViolationsOf(err)[0].Rule)

	next = *o
	next.Status = order.OrderStatusPaid
	next.TotalAmount = 123456
	paid, err := f.UpdateOrder(ctx, o.ID, o.Version, &next)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusPaid, paid.Status)
	assert.Equal(t, o.TotalAmount, paid.TotalAmount)
	assert.Equal(t, o.OrderNumber, paid.OrderNumber)
}

func seedFunds(t *testing.T, f *Facade) (*user.User, *fund.Fund) {
	t.Helper()
	ctx := context.Background()
	u, err := f.CreateUser(ctx, user.NewUser("Ada", "Lovelace"))
	require.NoError(t, err)
	bank, err := f.CreateBank(ctx, fund.NewBank("Nordea"))
	require.NoError(t, err)
	fd := fund.NewFund("Nordea Global", 12550, bank.ID)
	fd.FundType = fund.FundTypeGreen
	fd, err = f.CreateFund(ctx, fd)
	require.NoError(t, err)
	return u, fd
}

func TestFacade_Portfolio(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	u, fd := seedFunds(t, f)

	for _, amount := range []int64{100, 125} {
		_, err := f.CreateUserFund(ctx, fund.NewUserFund(u.ID, fd.ID, amount))
		require.NoError(t, err)
	}
	inactive := fund.NewUserFund(u.ID, fd.ID, 9999)
	inactive.IsActive = false
	_, err := f.CreateUserFund(ctx, inactive)
	require.NoError(t, err)

	got, err := f.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(225), got.TotalInvestmentValue)
	assert.Equal(t, 2, got.ActiveInvestmentCount)

	t.Run("投资概览", func(t *testing.T) {
		ov, err := f.GetPortfolioOverview(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(225), ov.TotalValue)
		assert.Equal(t, 2, ov.ActiveCount)
		require.Len(t, ov.Investments, 3)
		assert.Equal(t, "Nordea", ov.Investments[0].BankName)
		assert.Equal(t, "Nordea Global", ov.Investments[0].FundName)
		assert.Equal(t, fund.FundTypeGreen, ov.Investments[0].FundType)
		assert.Equal(t, int64(9999), ov.Investments[2].CurrentValue)
	})

	t.Run("调用方传入的聚合值被忽略", func(t *testing.T) {
		next := *got
		next.FirstName = "Augusta"
		next.TotalInvestmentValue = 1
		next.ActiveInvestmentCount = 99
		updated, err := f.UpdateUser(ctx, u.ID, got.Version, &next)
		require.NoError(t, err)
		assert.Equal(t, int64(225), updated.TotalInvestmentValue)
		assert.Equal(t, 2, updated.ActiveInvestmentCount)
	})

	t.Run("投资转给其他用户时两边都重算", func(t *testing.T) {
		other, err := f.CreateUser(ctx, user.NewUser("Charles", "Babbage"))
		require.NoError(t, err)
		holdings, _ := f.ListUserFunds(ctx, query.UserFundFilter{UserID: &u.ID})
		require.Len(t, holdings, 2)

		moved := *holdings[0]
		moved.UserID = other.ID
		_, err = f.UpdateUserFund(ctx, moved.ID, moved.Version, &moved)
		require.NoError(t, err)

		from, _ := f.GetUser(ctx, u.ID)
		to, _ := f.GetUser(ctx, other.ID)
		assert.Equal(t, int64(125), from.TotalInvestmentValue)
		assert.Equal(t, 1, from.ActiveInvestmentCount)
		assert.Equal(t, int64(100), to.TotalInvestmentValue)
		assert.Equal(t, 1, to.ActiveInvestmentCount)
	})

	t.Run("用户有投资记录时禁止删除", func(t *testing.T) {
		cur, _ := f.GetUser(ctx, u.ID)
		err := f.DeleteUser(ctx, u.ID, cur.Version)
		assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))
	})
}

func TestFacade_MinimumInvestment(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	u, fd := seedFunds(t, f)

	next := *fd
	next.MinimumInvestment = int64Ptr(1000)
	_, err := f.UpdateFund(ctx, fd.ID, fd.Version, &next)
	require.NoError(t, err)

	_, err = f.CreateUserFund(ctx, fund.NewUserFund(u.ID, fd.ID, 999))
	require.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, "investment_amount", invariant.ViolationsOf(err)[0].Field)

	_, err = f.CreateUserFund(ctx, fund.NewUserFund(u.ID, fd.ID, 1000))
	assert.NoError(t, err)
}

func TestFacade_AmountsAreBounded(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()

	t.Run("明细单价超限被拒绝且订单总额不变", func(t *testing.T) {
		o, b := seedOrder(t, f)
		_, err := f.CreateOrderItem(ctx, order.NewOrderItem(o.ID, b.ID, 2, math.MaxInt64))
		require.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		assert.Equal(t, "unit_price", invariant.ViolationsOf(err)[0].Field)

		got, err := f.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Zero(t, got.TotalAmount)
		items, _ := f.ListOrderItems(ctx, query.OrderItemFilter{OrderID: &o.ID})
		assert.Empty(t, items)
	})

	t.Run("投资金额超限被拒绝且用户仍可更新", func(t *testing.T) {
		u, fd := seedFunds(t, f)
		for i := 0; i < 2; i++ {
			_, err := f.CreateUserFund(ctx, fund.NewUserFund(u.ID, fd.ID, math.MaxInt64))
			require.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		}

		got, err := f.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Zero(t, got.TotalInvestmentValue)
		assert.Zero(t, got.ActiveInvestmentCount)

		next := *got
		next.FirstName = "Augusta"
		_, err = f.UpdateUser(ctx, u.ID, got.Version, &next)
		assert.NoError(t, err)
	})
}

func TestFacade_RollbackLeavesCallerRow(t *testing.T) {
	f, mem := newFacade()
	ctx := context.Background()
	o, b := seedOrder(t, f)

	valid := order.NewOrderItem(o.ID, b.ID, 1, 100)
	_, err := f.CreateOrderItem(ctx, valid)
	require.NoError(t, err)
	// 绕过校验直接写入,使之后的总额重算溢出
	require.NoError(t, mem.OrderItems().Insert(ctx, order.NewOrderItem(o.ID, b.ID, 2, math.MaxInt64)))

	t.Run("创建", func(t *testing.T) {
		item := order.NewOrderItem(o.ID, b.ID, 1, 100)
		_, err := f.CreateOrderItem(ctx, item)
		require.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		assert.Zero(t, item.ID)
		assert.Zero(t, item.Version)
	})

	t.Run("更新", func(t *testing.T) {
		next := *valid
		next.Quantity = 3
		_, err := f.UpdateOrderItem(ctx, valid.ID, valid.Version, &next)
		require.True(t, errors.Is(err, apperrors.ErrValidationFailed))
		assert.Equal(t, uint64(1), next.Version)

		stored, err := f.GetOrderItem(ctx, valid.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Quantity)
		assert.Equal(t, uint64(1), stored.Version)
	})
}

func TestFacade_ListFundInfo(t *testing.T) {
	f, _ := newFacade()
	ctx := context.Background()
	_, fd := seedFunds(t, f)

	infos, err := f.ListFundInfo(ctx, query.FundFilter{})
	require.NoError(t, err)
	assert.Equal(t, []FundInfo{{
		FundID:   fd.ID,
		FundName: "Nordea Global",
		BankID:   fd.BankID,
		BankName: "Nordea",
		Value:    12550,
		FundType: fund.FundTypeGreen,
		IsActive: true,
	}}, infos)
}

type recorder struct {
	mu     sync.Mutex
	events []ChangeEvent
	err    error
}

func (r *recorder) Notify(_ context.Context, ev ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func TestFacade_Notifier(t *testing.T) {
	rec := &recorder{}
	f, _ := newFacade(WithNotifier(rec))
	ctx := context.Background()
	o, b := seedOrder(t, f)
	rec.events = nil

	item, err := f.CreateOrderItem(ctx, order.NewOrderItem(o.ID, b.ID, 1, 100))
	require.NoError(t, err)
	assert.Equal(t, []ChangeEvent{
		{Entity: store.KindOrderItem, ID: item.ID, Version: 1, Action: ActionCreated, OccurredAt: fixedNow},
		{Entity: store.KindOrder, ID: o.ID, Action: ActionRecomputed, OccurredAt: fixedNow},
	}, rec.events)

	t.Run("回滚的操作不发布事件", func(t *testing.T) {
		rec.events = nil
		_, err := f.CreateOrderItem(ctx, order.NewOrderItem(o.ID, b.ID, 0, 100))
		require.Error(t, err)
		assert.Empty(t, rec.events)
	})

	t.Run("发布失败不影响结果", func(t *testing.T) {
		rec.err = errors.New("broker down")
		require.NoError(t, f.DeleteOrderItem(ctx, item.ID, item.Version))
		assert.Equal(t, ActionDeleted, rec.events[0].Action)
	})
}

func TestFacade_SubstrateUnavailable(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test-substrate", circuitbreaker.Config{
		Timeout:      time.Minute,
		ReadyToTrip:  circuitbreaker.ConsecutiveFailures(2),
		IsSuccessful: BreakerSuccess,
	})
	f, mem := newFacade(WithBreaker(cb))
	ctx := context.Background()

	t.Run("业务拒绝不触发熔断", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := f.GetBook(ctx, 42)
			assert.True(t, errors.Is(err, apperrors.ErrNotFound))
		}
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})

	t.Run("存储故障返回可重试错误并熔断", func(t *testing.T) {
		mem.InjectFault(errors.New("connection reset"))
		for i := 0; i < 2; i++ {
			_, err := f.ListBooks(ctx, query.BookFilter{})
			assert.Equal(t, apperrors.ErrCodeSubstrateUnavailable, codeOf(err))
		}
		assert.Equal(t, circuitbreaker.StateOpen, cb.State())

		mem.InjectFault(nil)
		_, err := f.ListBooks(ctx, query.BookFilter{})
		assert.Equal(t, apperrors.ErrCodeSubstrateUnavailable, codeOf(err))
		assert.True(t, errors.Is(err, circuitbreaker.ErrOpenState))
	})
}

func TestFacade_CancelledBeforeCommit(t *testing.T) {
	f, _ := newFacade()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.CreateAuthor(ctx, book.NewAuthor("Isaac", "Asimov"))
	assert.Equal(t, apperrors.ErrCodeSubstrateUnavailable, codeOf(err))

	rows, err := f.ListAuthors(context.Background(), query.AuthorFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
