package book

import (
	"context"
	"unicode"

	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// 价格范围(分): (0, 999.99]
const (
	MinPrice int64 = 1
	MaxPrice int64 = 99999
)

// ValidateAuthor 校验作者
func ValidateAuthor(a *Author) error {
	c := invariant.New()
	c.Length("first_name", a.FirstName, 1, 50)
	c.Length("last_name", a.LastName, 1, 50)
	c.MaxLength("biography", a.Biography, 2000)
	c.Email("email", a.Email, true)
	c.URL("website", a.Website, 500)
	return c.Err()
}

// ValidateCategory 校验分类
func ValidateCategory(cat *Category) error {
	c := invariant.New()
	c.Length("name", cat.Name, 2, 100)
	c.MaxLength("description", cat.Description, 500)
	c.Min("display_order", int64(cat.DisplayOrder), 0)
	return c.Err()
}

// ValidateBook 校验图书,作者与分类必须存在
func ValidateBook(ctx context.Context, refs invariant.Refs, b *Book) error {
	c := invariant.New()
	c.Length("title", b.Title, 2, 200)
	c.MaxLength("description", b.Description, 5000)
	if c.Required("isbn", b.ISBN) {
		c.Check(IsValidISBN(b.ISBN), "isbn", invariant.RuleFormat, "ISBN格式不正确")
	}
	c.Range("price", b.Price, MinPrice, MaxPrice)
	c.Min("stock_quantity", int64(b.StockQuantity), 0)
	c.URL("image_url", b.ImageURL, 500)
	c.Foreign(ctx, refs, "author_id", store.KindAuthor, b.AuthorID)
	c.Foreign(ctx, refs, "category_id", store.KindCategory, b.CategoryID)
	return c.Err()
}

// IsValidISBN 去掉连字符和空格后为10位或13位数字
// ISBN-10的最后一位允许是X
func IsValidISBN(isbn string) bool {
	digits := make([]rune, 0, len(isbn))
	for _, r := range isbn {
		switch {
		case r == '-' || r == ' ':
			continue
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case (r == 'X' || r == 'x') && len(digits) == 9:
			digits = append(digits, 'X')
		default:
			return false
		}
	}
	switch len(digits) {
	case 10:
		return true
	case 13:
		for _, r := range digits {
			if r == 'X' {
				return false
			}
		}
		return true
	default:
		return false
	}
}
