package book

import (
	"time"

	"github.com/xiebiao/bookfund/internal/domain/store"
)

// Author 作者
// 与Book是一对多关系,Book只保存AuthorID,不持有Author对象
type Author struct {
	store.Versioned
	FirstName string
	LastName  string
	Biography string
	BirthDate *time.Time
	Email     string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAuthor 创建作者(只设置默认值,不做校验)
func NewAuthor(firstName, lastName string) *Author {
	now := time.Now()
	return &Author{
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName 名 + 姓
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Category 图书分类
type Category struct {
	store.Versioned
	Name         string
	Description  string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewCategory(name string) *Category {
	now := time.Now()
	return &Category{
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Book 图书
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 被订单明细引用时不能物理删除,只能下架(IsActive=false)
type Book struct {
	store.Versioned
	Title         string
	Description   string
	ISBN          string
	Price         int64 // 价格(单位:分,1元=100分)
	StockQuantity int
	PublishedDate time.Time
	IsActive      bool
	ImageURL      string
	AuthorID      uint
	CategoryID    uint
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// 默认上架,出版日期为当前时间;字段合法性由Validate负责
func NewBook(title, isbn string, price int64, authorID, categoryID uint) *Book {
	now := time.Now()
	return &Book{
		Title:         title,
		ISBN:          isbn,
		Price:         price,
		PublishedDate: now,
		IsActive:      true,
		AuthorID:      authorID,
		CategoryID:    categoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
