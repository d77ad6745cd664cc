package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// newTestStore 每个测试一个独立的内存SQLite库
func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return NewStore(db), db
}

type catalog struct {
	christie, rowling, asimov *book.Author
	crime, fantasy, scifi     *book.Category
	orient, potter, found     *book.Book
}

func seedCatalog(t *testing.T, s *Store) catalog {
	t.Helper()
	ctx := context.Background()
	var c catalog

	c.christie = book.NewAuthor("Agatha", "Christie")
	c.rowling = book.NewAuthor("J.K.", "Rowling")
	c.asimov = book.NewAuthor("Isaac", "Asimov")
	for _, a := range []*book.Author{c.christie, c.rowling, c.asimov} {
		require.NoError(t, s.Authors().Insert(ctx, a))
	}

	c.crime = book.NewCategory("Crime")
	c.fantasy = book.NewCategory("Fantasy")
	c.scifi = book.NewCategory("Science Fiction")
	for _, cat := range []*book.Category{c.crime, c.fantasy, c.scifi} {
		require.NoError(t, s.Categories().Insert(ctx, cat))
	}

	c.orient = book.NewBook("Murder on the Orient Express", "9780062693662", 1699, c.christie.ID, c.crime.ID)
	c.potter = book.NewBook("Harry Potter and the Philosopher's Stone", "9780747532699", 1999, c.rowling.ID, c.crime.ID)
	c.found = book.NewBook("Foundation", "9780553293357", 1599, c.asimov.ID, c.scifi.ID)
	for _, b := range []*book.Book{c.orient, c.potter, c.found} {
		require.NoError(t, s.Books().Insert(ctx, b))
	}
	return c
}

func TestRepository_InsertRead(t *testing.T) {
	s, _ := newTestStore(t)
	c := seedCatalog(t, s)
	ctx := context.Background()

	assert.Equal(t, uint64(1), c.orient.Version)
	assert.NotZero(t, c.orient.ID)

	got, err := s.Books().Read(ctx, c.orient.ID)
	require.NoError(t, err)
	assert.Equal(t, c.orient.Title, got.Title)
	assert.Equal(t, int64(1699), got.Price)
	assert.True(t, got.IsActive)
	assert.Equal(t, uint64(1), got.Version)

	_, err = s.Books().Read(ctx, 999)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestRepository_ConditionalWrite(t *testing.T) {
	s, _ := newTestStore(t)
	c := seedCatalog(t, s)
	ctx := context.Background()

	t.Run("版本一致写入零值字段", func(t *testing.T) {
		b := *c.found
		b.IsActive = false
		b.StockQuantity = 0
		res, err := s.Books().ConditionalWrite(ctx, &b, 1)
		require.NoError(t, err)
		assert.Equal(t, store.WriteResult{Outcome: store.Committed, Version: 2}, res)

		got, _ := s.Books().Read(ctx, b.ID)
		assert.False(t, got.IsActive)
		assert.Equal(t, uint64(2), got.Version)
	})

	t.Run("旧版本返回当前版本号", func(t *testing.T) {
		b := *c.found
		b.Title = "Second Foundation"
		res, err := s.Books().ConditionalWrite(ctx, &b, 1)
		require.NoError(t, err)
		assert.Equal(t, store.WriteResult{Outcome: store.VersionMismatch, Version: 2}, res)

		got, _ := s.Books().Read(ctx, b.ID)
		assert.Equal(t, "Foundation", got.Title)
	})

	t.Run("不存在", func(t *testing.T) {
		b := *c.found
		b.ID = 999
		res, err := s.Books().ConditionalWrite(ctx, &b, 1)
		require.NoError(t, err)
		assert.Equal(t, store.NotFound, res.Outcome)
	})
}

func TestRepository_Delete(t *testing.T) {
	s, _ := newTestStore(t)
	c := seedCatalog(t, s)
	ctx := context.Background()

	t.Run("外键约束兜底", func(t *testing.T) {
		_, err := s.Authors().Delete(ctx, c.asimov.ID, 1)
		assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))
	})

	t.Run("旧版本拒绝删除", func(t *testing.T) {
		res, err := s.Books().Delete(ctx, c.found.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, store.WriteResult{Outcome: store.VersionMismatch, Version: 1}, res)
	})

	t.Run("删除成功后不存在", func(t *testing.T) {
		res, err := s.Books().Delete(ctx, c.found.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, store.Committed, res.Outcome)

		ok, err := s.Exists(ctx, store.KindBook, c.found.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		res, err = s.Books().Delete(ctx, c.found.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, store.NotFound, res.Outcome)
	})
}

func TestRepository_ReadMany(t *testing.T) {
	s, _ := newTestStore(t)
	c := seedCatalog(t, s)
	ctx := context.Background()

	ids := func(f query.BookFilter) []uint {
		books, err := s.Books().ReadMany(ctx, f.Predicate())
		require.NoError(t, err)
		out := make([]uint, 0, len(books))
		for _, b := range books {
			out = append(out, b.ID)
		}
		return out
	}
	min, max := int64(1500), int64(2000)

	t.Run("分类+价格区间", func(t *testing.T) {
		assert.Equal(t, []uint{c.orient.ID, c.potter.ID},
			ids(query.BookFilter{CategoryID: &c.crime.ID, MinPrice: &min, MaxPrice: &max}))
	})

	t.Run("按作者名搜索(关联authors)", func(t *testing.T) {
		assert.Equal(t, []uint{c.found.ID}, ids(query.BookFilter{SearchText: "ASIMOV"}))
		assert.Equal(t, []uint{c.orient.ID}, ids(query.BookFilter{SearchText: "agatha"}))
	})

	t.Run("LIKE通配符被转义", func(t *testing.T) {
		assert.Empty(t, ids(query.BookFilter{SearchText: "%"}))
		assert.Empty(t, ids(query.BookFilter{SearchText: "_"}))
	})

	t.Run("空结果不是错误", func(t *testing.T) {
		assert.Empty(t, ids(query.BookFilter{SearchText: "tolkien"}))
	})

	t.Run("计数", func(t *testing.T) {
		n, err := s.Books().Count(ctx, query.ByField(query.FieldBookCategoryID, c.crime.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestRepository_PointerAndBoolFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bank := fund.NewBank("KBC")
	require.NoError(t, s.Banks().Insert(ctx, bank))

	f := fund.NewFund("KBC Green", 10000, bank.ID)
	f.FundType = fund.FundTypeGreen
	f.IsActive = false
	require.NoError(t, s.Funds().Insert(ctx, f))

	got, err := s.Funds().Read(ctx, f.ID)
	require.NoError(t, err)
	assert.Nil(t, got.MinimumInvestment)
	assert.False(t, got.IsActive)
	assert.Equal(t, fund.FundTypeGreen, got.FundType)

	min := int64(2500)
	got.MinimumInvestment = &min
	_, err = s.Funds().ConditionalWrite(ctx, got, got.Version)
	require.NoError(t, err)

	again, _ := s.Funds().Read(ctx, f.ID)
	require.NotNil(t, again.MinimumInvestment)
	assert.Equal(t, int64(2500), *again.MinimumInvestment)
}

func TestRepository_UniqueOrderNumber(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cu := order.NewCustomer("Jan", "Peeters", "jan@example.com")
	require.NoError(t, s.Customers().Insert(ctx, cu))

	o1 := order.NewOrder(cu.ID, "")
	o1.OrderNumber = "ORD1"
	require.NoError(t, s.Orders().Insert(ctx, o1))

	o2 := order.NewOrder(cu.ID, "")
	o2.OrderNumber = "ORD1"
	err := s.Orders().Insert(ctx, o2)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateEntry))
}

func TestTxManager_Rollback(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.Banks().Insert(ctx, fund.NewBank("KBC")); err != nil {
			return err
		}
		return apperrors.ErrValidationFailed
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	n, err := s.Banks().Count(ctx, query.All())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApplyPredicate_SQL(t *testing.T) {
	_, db := newTestStore(t)
	dry := db.Session(&gorm.Session{DryRun: true})

	pred := query.BookFilter{SearchText: "50%_off"}.Predicate()
	var models []BookModel
	stmt := applyPredicate(dry.Model(&BookModel{}), "books", pred, map[string]join{
		"author": {table: "authors", foreignKey: "author_id"},
	}).Find(&models).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "LEFT JOIN authors AS author ON author.id = books.author_id")
	assert.Contains(t, sql, "LOWER(author.last_name) LIKE ? ESCAPE '!'")
	assert.Contains(t, sql, "books.is_active = ?")
	assert.Contains(t, stmt.Vars, "%50!%!_off%")
}

func TestApplyPredicate_RejectsUnknownJoin(t *testing.T) {
	_, db := newTestStore(t)
	var models []BookModel
	err := applyPredicate(db.Model(&BookModel{}), "books",
		query.All().And(query.Eq("publisher.name", "x")), nil).Find(&models).Error
	assert.Error(t, err)
}
