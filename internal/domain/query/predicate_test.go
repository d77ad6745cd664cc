package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

type bookRow struct {
	ID         uint
	Title      string
	ISBN       string
	Price      int64
	CategoryID uint
	IsActive   bool
	AuthorFN   string
	AuthorLN   string
}

func (b bookRow) fields() Fields {
	return Fields{
		FieldID:                  b.ID,
		FieldBookTitle:           b.Title,
		FieldBookISBN:            b.ISBN,
		FieldBookPrice:           b.Price,
		FieldBookCategoryID:      b.CategoryID,
		FieldIsActive:            b.IsActive,
		FieldBookAuthorFirstName: b.AuthorFN,
		FieldBookAuthorLastName:  b.AuthorLN,
	}
}

// 参照实现:直接按过滤条件逐项判断
func referenceMatch(f BookFilter, b bookRow) bool {
	if f.SearchText != "" {
		s := strings.ToLower(f.SearchText)
		hit := strings.Contains(strings.ToLower(b.Title), s) ||
			strings.Contains(strings.ToLower(b.AuthorFN), s) ||
			strings.Contains(strings.ToLower(b.AuthorLN), s) ||
			strings.Contains(strings.ToLower(b.ISBN), s)
		if !hit {
			return false
		}
	}
	if f.CategoryID != nil && b.CategoryID != *f.CategoryID {
		return false
	}
	if f.MinPrice != nil && b.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && b.Price > *f.MaxPrice {
		return false
	}
	if (f.ActiveOnly == nil || *f.ActiveOnly) && !b.IsActive {
		return false
	}
	return true
}

var words = []string{"Harry", "Potter", "Foundation", "Murder", "orient", "Christie", "Asimov", "Rowling", "978"}

func drawBook(t *rapid.T, id uint) bookRow {
	return bookRow{
		ID:         id,
		Title:      rapid.SampledFrom(words).Draw(t, "title") + " " + rapid.SampledFrom(words).Draw(t, "title2"),
		ISBN:       rapid.StringMatching(`97[89][0-9]{10}`).Draw(t, "isbn"),
		Price:      rapid.Int64Range(1, 99999).Draw(t, "price"),
		CategoryID: uint(rapid.IntRange(1, 4).Draw(t, "category")),
		IsActive:   rapid.Bool().Draw(t, "active"),
		AuthorFN:   rapid.SampledFrom(words).Draw(t, "fn"),
		AuthorLN:   rapid.SampledFrom(words).Draw(t, "ln"),
	}
}

func drawFilter(t *rapid.T) BookFilter {
	var f BookFilter
	if rapid.Bool().Draw(t, "hasText") {
		w := rapid.SampledFrom(words).Draw(t, "text")
		if rapid.Bool().Draw(t, "upper") {
			w = strings.ToUpper(w)
		}
		f.SearchText = w
	}
	if rapid.Bool().Draw(t, "hasCategory") {
		c := uint(rapid.IntRange(1, 4).Draw(t, "fcategory"))
		f.CategoryID = &c
	}
	if rapid.Bool().Draw(t, "hasMin") {
		m := rapid.Int64Range(1, 99999).Draw(t, "min")
		f.MinPrice = &m
	}
	if rapid.Bool().Draw(t, "hasMax") {
		m := rapid.Int64Range(1, 99999).Draw(t, "max")
		f.MaxPrice = &m
	}
	switch rapid.IntRange(0, 2).Draw(t, "active") {
	case 1:
		f.ActiveOnly = Bool(true)
	case 2:
		f.ActiveOnly = Bool(false)
	}
	return f
}

func TestBookFilter_MatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := drawFilter(t)
		p := f.Predicate()
		n := rapid.IntRange(0, 20).Draw(t, "n")
		for i := 0; i < n; i++ {
			b := drawBook(t, uint(i+1))
			if Match(p, b.fields()) != referenceMatch(f, b) {
				t.Fatalf("filter %+v book %+v: Match与参照实现不一致", f, b)
			}
		}
	})
}

func TestBookFilter_AbsentFieldsAreWildcards(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := drawBook(t, 1)
		assert.True(t, Match(BookFilter{ActiveOnly: Bool(false)}.Predicate(), b.fields()))
	})
}

func TestBookFilter_Predicate(t *testing.T) {
	catalog := []bookRow{
		{ID: 1, Title: "Murder on the Orient Express", ISBN: "9780062693662", Price: 1699, CategoryID: 1, IsActive: true, AuthorFN: "Agatha", AuthorLN: "Christie"},
		{ID: 2, Title: "Harry Potter and the Philosopher's Stone", ISBN: "9780747532699", Price: 1999, CategoryID: 1, IsActive: true, AuthorFN: "J.K.", AuthorLN: "Rowling"},
		{ID: 3, Title: "Foundation", ISBN: "9780553293357", Price: 1599, CategoryID: 3, IsActive: true, AuthorFN: "Isaac", AuthorLN: "Asimov"},
		{ID: 4, Title: "Hidden Gem", ISBN: "9780000000001", Price: 1800, CategoryID: 1, IsActive: false, AuthorFN: "Anon", AuthorLN: "Ymous"},
	}
	ids := func(f BookFilter) []uint {
		var out []uint
		p := f.Predicate()
		for _, b := range catalog {
			if Match(p, b.fields()) {
				out = append(out, b.ID)
			}
		}
		return out
	}
	cat := uint(1)
	min, max := int64(1500), int64(2000)

	t.Run("分类+价格区间", func(t *testing.T) {
		assert.Equal(t, []uint{1, 2}, ids(BookFilter{CategoryID: &cat, MinPrice: &min, MaxPrice: &max}))
	})

	t.Run("默认只返回上架图书", func(t *testing.T) {
		assert.Equal(t, []uint{1, 2, 3}, ids(BookFilter{}))
		assert.Equal(t, []uint{1, 2, 3, 4}, ids(BookFilter{ActiveOnly: Bool(false)}))
	})

	t.Run("按作者姓搜索不区分大小写", func(t *testing.T) {
		assert.Equal(t, []uint{3}, ids(BookFilter{SearchText: "asimov"}))
	})

	t.Run("按ISBN片段搜索", func(t *testing.T) {
		assert.Equal(t, []uint{2}, ids(BookFilter{SearchText: "7475"}))
	})

	t.Run("价格边界包含", func(t *testing.T) {
		exact := int64(1699)
		assert.Equal(t, []uint{1}, ids(BookFilter{MinPrice: &exact, MaxPrice: &exact}))
	})

	t.Run("无匹配返回空", func(t *testing.T) {
		assert.Empty(t, ids(BookFilter{SearchText: "tolkien"}))
	})
}

func TestMatch_NamedIntegerTypes(t *testing.T) {
	type status int
	row := Fields{FieldOrderStatus: status(2), FieldOrderCustomerID: uint(7)}

	s, c := 2, uint(7)
	assert.True(t, Match(OrderFilter{Status: &s, CustomerID: &c}.Predicate(), row))

	other := 3
	assert.False(t, Match(OrderFilter{Status: &other}.Predicate(), row))
}

func TestMatch_MissingField(t *testing.T) {
	p := All().And(Eq(FieldFundType, "Green"))
	assert.False(t, Match(p, Fields{}))
	assert.False(t, Match(p, Fields{FieldFundType: nil}))
	assert.True(t, Match(All(), Fields{}))
}

func TestPredicate_AndDoesNotAlias(t *testing.T) {
	base := All().And(Eq(FieldIsActive, true))
	a := base.And(Eq(FieldFundBankID, uint(1)))
	b := base.And(Eq(FieldFundBankID, uint(2)))
	assert.Len(t, base.Conditions, 1)
	assert.Equal(t, uint(1), a.Conditions[1].Value)
	assert.Equal(t, uint(2), b.Conditions[1].Value)
}

func TestUserFundFilter_Predicate(t *testing.T) {
	uid := uint(5)
	rows := []Fields{
		{FieldUserFundUserID: uint(5), FieldUserFundFundID: uint(1), FieldIsActive: true},
		{FieldUserFundUserID: uint(5), FieldUserFundFundID: uint(2), FieldIsActive: false},
		{FieldUserFundUserID: uint(6), FieldUserFundFundID: uint(1), FieldIsActive: true},
	}
	count := func(f UserFundFilter) int {
		n := 0
		for _, r := range rows {
			if Match(f.Predicate(), r) {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, count(UserFundFilter{UserID: &uid}))
	assert.Equal(t, 2, count(UserFundFilter{UserID: &uid, ActiveOnly: Bool(false)}))
	assert.Equal(t, 2, count(UserFundFilter{}))
}
