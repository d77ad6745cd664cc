package dto

import (
	"fmt"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/query"
)

const timeLayout = "2006-01-02 15:04:05"

// BookRequest 图书创建/更新请求
// 只做JSON形状绑定,字段规则由引擎统一校验(一次返回全部违规)
type BookRequest struct {
	Title         string     `json:"title" example:"Murder on the Orient Express"`
	Description   string     `json:"description" example:"Hercule Poirot"`
	ISBN          string     `json:"isbn" example:"978-0-06-269366-2"`
	Price         int64      `json:"price" example:"1699"` // 价格(分)
	StockQuantity int        `json:"stock_quantity" example:"10"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"` // 默认true
	ImageURL      string     `json:"image_url" example:"https://example.com/cover.jpg"`
	AuthorID      uint       `json:"author_id" example:"1"`
	CategoryID    uint       `json:"category_id" example:"1"`
}

// UpdateBookRequest 更新时必须带上读取时的版本号
type UpdateBookRequest struct {
	BookRequest
	Version uint64 `json:"version" binding:"required" example:"1"`
}

// ToEntity 转成领域对象
func (r *BookRequest) ToEntity() *book.Book {
	b := &book.Book{
		Title:         r.Title,
		Description:   r.Description,
		ISBN:          r.ISBN,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		IsActive:      boolOr(r.IsActive, true),
		ImageURL:      r.ImageURL,
		AuthorID:      r.AuthorID,
		CategoryID:    r.CategoryID,
	}
	if r.PublishedDate != nil {
		b.PublishedDate = *r.PublishedDate
	}
	return b
}

// BookResponse 图书详情
type BookResponse struct {
	ID            uint   `json:"id" example:"1"`
	Version       uint64 `json:"version" example:"1"`
	Title         string `json:"title" example:"Murder on the Orient Express"`
	Description   string `json:"description"`
	ISBN          string `json:"isbn" example:"978-0-06-269366-2"`
	Price         int64  `json:"price" example:"1699"`       // 价格(分)
	PriceYuan     string `json:"price_yuan" example:"16.99"` // 价格(元),方便前端显示
	StockQuantity int    `json:"stock_quantity" example:"10"`
	PublishedDate string `json:"published_date" example:"2024-01-15 10:30:00"`
	IsActive      bool   `json:"is_active" example:"true"`
	ImageURL      string `json:"image_url,omitempty"`
	AuthorID      uint   `json:"author_id" example:"1"`
	CategoryID    uint   `json:"category_id" example:"1"`
	CreatedAt     string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt     string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

func NewBookResponse(b *book.Book) *BookResponse {
	return &BookResponse{
		ID:            b.ID,
		Version:       b.Version,
		Title:         b.Title,
		Description:   b.Description,
		ISBN:          b.ISBN,
		Price:         b.Price,
		PriceYuan:     FormatPriceYuan(b.Price),
		StockQuantity: b.StockQuantity,
		PublishedDate: FormatTime(b.PublishedDate),
		IsActive:      b.IsActive,
		ImageURL:      b.ImageURL,
		AuthorID:      b.AuthorID,
		CategoryID:    b.CategoryID,
		CreatedAt:     FormatTime(b.CreatedAt),
		UpdatedAt:     FormatTime(b.UpdatedAt),
	}
}

func NewBookList(books []*book.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

// ListBooksRequest 图书查询条件(query string)
// 未传的条件不做限制;active_only默认true
type ListBooksRequest struct {
	Search     string `form:"search" example:"christie"`
	CategoryID *uint  `form:"category_id" example:"1"`
	MinPrice   *int64 `form:"min_price" example:"1500"`
	MaxPrice   *int64 `form:"max_price" example:"2000"`
	ActiveOnly *bool  `form:"active_only" example:"true"`
}

func (r *ListBooksRequest) Filter() query.BookFilter {
	return query.BookFilter{
		SearchText: r.Search,
		CategoryID: r.CategoryID,
		MinPrice:   r.MinPrice,
		MaxPrice:   r.MaxPrice,
		ActiveOnly: r.ActiveOnly,
	}
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:5900分 → "59.00"
func FormatPriceYuan(fen int64) string {
	sign := ""
	if fen < 0 {
		sign, fen = "-", -fen
	}
	return fmt.Sprintf("%s%d.%02d", sign, fen/100, fen%100)
}

// FormatTime 零值返回空字符串
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
