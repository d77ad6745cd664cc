package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

type refs map[store.Kind]map[uint]bool

func (r refs) Exists(_ context.Context, kind store.Kind, id uint) (bool, error) {
	return r[kind][id], nil
}

func TestIsValidISBN(t *testing.T) {
	cases := map[string]bool{
		"978-0-7475-3269-9": true,
		"9780747532699":     true,
		"0-306-40615-2":     true,
		"080442957X":        true,
		"123":               false,
		"978074753269X":     false,
		"978-0-7475-abcd-9": false,
		"":                  false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidISBN(in), in)
	}
}

func TestValidateBook(t *testing.T) {
	ctx := context.Background()
	known := refs{store.KindAuthor: {1: true}, store.KindCategory: {1: true}}

	t.Run("合法图书", func(t *testing.T) {
		b := NewBook("Foundation", "9780553293357", 1599, 1, 1)
		assert.NoError(t, ValidateBook(ctx, known, b))
	})

	t.Run("收集全部违规", func(t *testing.T) {
		b := NewBook("F", "bad", 0, 2, 0)
		b.StockQuantity = -1
		err := ValidateBook(ctx, known, b)
		require.Error(t, err)

		fields := map[string]invariant.Rule{}
		for _, v := range invariant.ViolationsOf(err) {
			fields[v.Field] = v.Rule
		}
		assert.Equal(t, map[string]invariant.Rule{
			"title":          invariant.RuleLength,
			"isbn":           invariant.RuleFormat,
			"price":          invariant.RuleRange,
			"stock_quantity": invariant.RuleRange,
			"author_id":      invariant.RuleForeignKey,
			"category_id":    invariant.RuleRequired,
		}, fields)
	})

	t.Run("价格上限999.99", func(t *testing.T) {
		b := NewBook("Foundation", "9780553293357", MaxPrice, 1, 1)
		assert.NoError(t, ValidateBook(ctx, known, b))
		b.Price = MaxPrice + 1
		assert.Error(t, ValidateBook(ctx, known, b))
	})
}

func TestValidateAuthorAndCategory(t *testing.T) {
	a := NewAuthor("Isaac", "Asimov")
	assert.NoError(t, ValidateAuthor(a))

	a.Website = "not a url"
	a.Email = "asimov@"
	assert.Len(t, invariant.ViolationsOf(ValidateAuthor(a)), 2)

	cat := NewCategory("Science Fiction")
	assert.True(t, cat.IsActive)
	assert.NoError(t, ValidateCategory(cat))

	cat.Name = "S"
	cat.DisplayOrder = -1
	assert.Len(t, invariant.ViolationsOf(ValidateCategory(cat)), 2)
}

func TestAuthor_FullName(t *testing.T) {
	assert.Equal(t, "Agatha Christie", NewAuthor("Agatha", "Christie").FullName())
}
