package query

// 字段名(与数据库列名一致)
const (
	FieldID       = "id"
	FieldIsActive = "is_active"
	FieldName     = "name"

	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"

	FieldBookTitle      = "title"
	FieldBookISBN       = "isbn"
	FieldBookPrice      = "price"
	FieldBookAuthorID   = "author_id"
	FieldBookCategoryID = "category_id"
	// 图书搜索时关联作者表
	FieldBookAuthorFirstName = "author.first_name"
	FieldBookAuthorLastName  = "author.last_name"

	FieldOrderCustomerID = "customer_id"
	FieldOrderStatus     = "status"
	FieldOrderNumber     = "order_number"

	FieldOrderItemOrderID = "order_id"
	FieldOrderItemBookID  = "book_id"

	FieldFundBankID = "bank_id"
	FieldFundType   = "fund_type"

	FieldUserFundUserID = "user_id"
	FieldUserFundFundID = "fund_id"
)

// Bool 构造*bool(用于ActiveOnly)
func Bool(v bool) *bool { return &v }

// activeOnly nil表示默认值true
func activeOnly(v *bool) bool {
	return v == nil || *v
}

func withActive(p Predicate, flag *bool) Predicate {
	if activeOnly(flag) {
		return p.And(Eq(FieldIsActive, true))
	}
	return p
}

// BookFilter 图书查询条件
// 未设置的字段不做限制
type BookFilter struct {
	SearchText string // 书名/作者名/作者姓/ISBN 子串
	CategoryID *uint
	MinPrice   *int64 // 分,含边界
	MaxPrice   *int64 // 分,含边界
	ActiveOnly *bool  // nil=true
}

func (f BookFilter) Predicate() Predicate {
	p := All()
	if f.SearchText != "" {
		p = p.And(Contains(f.SearchText,
			FieldBookTitle, FieldBookAuthorFirstName, FieldBookAuthorLastName, FieldBookISBN))
	}
	if f.CategoryID != nil {
		p = p.And(Eq(FieldBookCategoryID, *f.CategoryID))
	}
	if f.MinPrice != nil {
		p = p.And(Gte(FieldBookPrice, *f.MinPrice))
	}
	if f.MaxPrice != nil {
		p = p.And(Lte(FieldBookPrice, *f.MaxPrice))
	}
	return withActive(p, f.ActiveOnly)
}

// UserFundFilter 投资记录查询条件
type UserFundFilter struct {
	UserID     *uint
	FundID     *uint
	ActiveOnly *bool
}

func (f UserFundFilter) Predicate() Predicate {
	p := All()
	if f.UserID != nil {
		p = p.And(Eq(FieldUserFundUserID, *f.UserID))
	}
	if f.FundID != nil {
		p = p.And(Eq(FieldUserFundFundID, *f.FundID))
	}
	return withActive(p, f.ActiveOnly)
}

type AuthorFilter struct {
	SearchText string
}

func (f AuthorFilter) Predicate() Predicate {
	if f.SearchText == "" {
		return All()
	}
	return All().And(Contains(f.SearchText, FieldFirstName, FieldLastName))
}

type CategoryFilter struct {
	ActiveOnly *bool
}

func (f CategoryFilter) Predicate() Predicate {
	return withActive(All(), f.ActiveOnly)
}

type CustomerFilter struct {
	SearchText string
}

func (f CustomerFilter) Predicate() Predicate {
	if f.SearchText == "" {
		return All()
	}
	return All().And(Contains(f.SearchText, FieldFirstName, FieldLastName, FieldEmail))
}

type OrderFilter struct {
	CustomerID *uint
	Status     *int
}

func (f OrderFilter) Predicate() Predicate {
	p := All()
	if f.CustomerID != nil {
		p = p.And(Eq(FieldOrderCustomerID, *f.CustomerID))
	}
	if f.Status != nil {
		p = p.And(Eq(FieldOrderStatus, *f.Status))
	}
	return p
}

type OrderItemFilter struct {
	OrderID *uint
	BookID  *uint
}

func (f OrderItemFilter) Predicate() Predicate {
	p := All()
	if f.OrderID != nil {
		p = p.And(Eq(FieldOrderItemOrderID, *f.OrderID))
	}
	if f.BookID != nil {
		p = p.And(Eq(FieldOrderItemBookID, *f.BookID))
	}
	return p
}

type BankFilter struct {
	ActiveOnly *bool
}

func (f BankFilter) Predicate() Predicate {
	return withActive(All(), f.ActiveOnly)
}

type FundFilter struct {
	BankID     *uint
	FundType   string
	SearchText string // 基金名称子串
	ActiveOnly *bool
}

func (f FundFilter) Predicate() Predicate {
	p := All()
	if f.BankID != nil {
		p = p.And(Eq(FieldFundBankID, *f.BankID))
	}
	if f.FundType != "" {
		p = p.And(Eq(FieldFundType, f.FundType))
	}
	if f.SearchText != "" {
		p = p.And(Contains(f.SearchText, FieldName))
	}
	return withActive(p, f.ActiveOnly)
}

type UserFilter struct {
	ActiveOnly *bool
}

func (f UserFilter) Predicate() Predicate {
	return withActive(All(), f.ActiveOnly)
}

// 依赖行计数(删除保护)用到的谓词

// ByField 单字段等值
func ByField(field string, id uint) Predicate {
	return All().And(Eq(field, id))
}
