package facade

import (
	"context"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

var authors = entity[book.Author, *book.Author]{
	kind: store.KindAuthor,
	repo: func(s Substrate) store.Store[book.Author] { return s.Authors() },
	validate: func(_ context.Context, _ Substrate, a, _ *book.Author) error {
		return book.ValidateAuthor(a)
	},
	prepare: func(a *book.Author, now time.Time) {
		stamp(&a.CreatedAt, now)
		a.UpdatedAt = now
	},
	carry: func(a, prev *book.Author, now time.Time) {
		a.CreatedAt = prev.CreatedAt
		a.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindBook, func(s Substrate) store.Store[book.Book] { return s.Books() }, query.FieldBookAuthorID),
	},
}

var categories = entity[book.Category, *book.Category]{
	kind: store.KindCategory,
	repo: func(s Substrate) store.Store[book.Category] { return s.Categories() },
	validate: func(_ context.Context, _ Substrate, c, _ *book.Category) error {
		return book.ValidateCategory(c)
	},
	prepare: func(c *book.Category, now time.Time) {
		stamp(&c.CreatedAt, now)
		c.UpdatedAt = now
	},
	carry: func(c, prev *book.Category, now time.Time) {
		c.CreatedAt = prev.CreatedAt
		c.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindBook, func(s Substrate) store.Store[book.Book] { return s.Books() }, query.FieldBookCategoryID),
	},
}

var books = entity[book.Book, *book.Book]{
	kind: store.KindBook,
	repo: func(s Substrate) store.Store[book.Book] { return s.Books() },
	validate: func(ctx context.Context, sub Substrate, b, _ *book.Book) error {
		return book.ValidateBook(ctx, sub, b)
	},
	prepare: func(b *book.Book, now time.Time) {
		stamp(&b.PublishedDate, now)
		stamp(&b.CreatedAt, now)
		b.UpdatedAt = now
	},
	carry: func(b, prev *book.Book, now time.Time) {
		if b.PublishedDate.IsZero() {
			b.PublishedDate = prev.PublishedDate
		}
		b.CreatedAt = prev.CreatedAt
		b.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindOrderItem, func(s Substrate) store.Store[order.OrderItem] { return s.OrderItems() }, query.FieldOrderItemBookID),
	},
}

func (f *Facade) CreateAuthor(ctx context.Context, a *book.Author) (*book.Author, error) {
	return create(ctx, f, authors, a)
}

func (f *Facade) UpdateAuthor(ctx context.Context, id uint, expectedVersion uint64, a *book.Author) (*book.Author, error) {
	return update(ctx, f, authors, id, expectedVersion, a)
}

// DeleteAuthor 作者仍有图书时返回ReferentialIntegrity
func (f *Facade) DeleteAuthor(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, authors, id, expectedVersion)
}

func (f *Facade) GetAuthor(ctx context.Context, id uint) (*book.Author, error) {
	return get(ctx, f, authors, id)
}

func (f *Facade) ListAuthors(ctx context.Context, filter query.AuthorFilter) ([]*book.Author, error) {
	return list(ctx, f, authors, filter.Predicate())
}

func (f *Facade) CreateCategory(ctx context.Context, c *book.Category) (*book.Category, error) {
	return create(ctx, f, categories, c)
}

func (f *Facade) UpdateCategory(ctx context.Context, id uint, expectedVersion uint64, c *book.Category) (*book.Category, error) {
	return update(ctx, f, categories, id, expectedVersion, c)
}

func (f *Facade) DeleteCategory(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, categories, id, expectedVersion)
}

func (f *Facade) GetCategory(ctx context.Context, id uint) (*book.Category, error) {
	return get(ctx, f, categories, id)
}

func (f *Facade) ListCategories(ctx context.Context, filter query.CategoryFilter) ([]*book.Category, error) {
	return list(ctx, f, categories, filter.Predicate())
}

// CreateBook 创建图书,作者和分类必须存在
func (f *Facade) CreateBook(ctx context.Context, b *book.Book) (*book.Book, error) {
	return create(ctx, f, books, b)
}

func (f *Facade) UpdateBook(ctx context.Context, id uint, expectedVersion uint64, b *book.Book) (*book.Book, error) {
	return update(ctx, f, books, id, expectedVersion, b)
}

// DeleteBook 被订单明细引用的图书不能删除,只能下架
func (f *Facade) DeleteBook(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, books, id, expectedVersion)
}

func (f *Facade) GetBook(ctx context.Context, id uint) (*book.Book, error) {
	return get(ctx, f, books, id)
}

// ListBooks 按条件查询图书,结果按ID升序
func (f *Facade) ListBooks(ctx context.Context, filter query.BookFilter) ([]*book.Book, error) {
	return list(ctx, f, books, filter.Predicate())
}
