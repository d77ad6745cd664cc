package mysql

import (
	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
)

// =========================================
// 模型转换: 领域实体 ↔ GORM模型
// =========================================

func baseOf(v store.Versioned) VersionedModel {
	return VersionedModel{ID: v.ID, Version: v.Version}
}

func revOf(m VersionedModel) store.Versioned {
	return store.Versioned{ID: m.ID, Version: m.Version}
}

func toAuthorModel(a *book.Author) *AuthorModel {
	return &AuthorModel{
		VersionedModel: baseOf(a.Versioned),
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		Biography:      a.Biography,
		BirthDate:      a.BirthDate,
		Email:          a.Email,
		Website:        a.Website,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func toAuthorEntity(m *AuthorModel) *book.Author {
	return &book.Author{
		Versioned: revOf(m.VersionedModel),
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Biography: m.Biography,
		BirthDate: m.BirthDate,
		Email:     m.Email,
		Website:   m.Website,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toCategoryModel(c *book.Category) *CategoryModel {
	return &CategoryModel{
		VersionedModel: baseOf(c.Versioned),
		Name:           c.Name,
		Description:    c.Description,
		DisplayOrder:   c.DisplayOrder,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toCategoryEntity(m *CategoryModel) *book.Category {
	return &book.Category{
		Versioned:    revOf(m.VersionedModel),
		Name:         m.Name,
		Description:  m.Description,
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		VersionedModel: baseOf(b.Versioned),
		Title:          b.Title,
		Description:    b.Description,
		ISBN:           b.ISBN,
		Price:          b.Price,
		StockQuantity:  b.StockQuantity,
		PublishedDate:  b.PublishedDate,
		IsActive:       b.IsActive,
		ImageURL:       b.ImageURL,
		AuthorID:       b.AuthorID,
		CategoryID:     b.CategoryID,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		Versioned:     revOf(m.VersionedModel),
		Title:         m.Title,
		Description:   m.Description,
		ISBN:          m.ISBN,
		Price:         m.Price,
		StockQuantity: m.StockQuantity,
		PublishedDate: m.PublishedDate,
		IsActive:      m.IsActive,
		ImageURL:      m.ImageURL,
		AuthorID:      m.AuthorID,
		CategoryID:    m.CategoryID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toCustomerModel(c *order.Customer) *CustomerModel {
	return &CustomerModel{
		VersionedModel:   baseOf(c.Versioned),
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		City:             c.City,
		PostalCode:       c.PostalCode,
		RegistrationDate: c.RegistrationDate,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toCustomerEntity(m *CustomerModel) *order.Customer {
	return &order.Customer{
		Versioned:        revOf(m.VersionedModel),
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		City:             m.City,
		PostalCode:       m.PostalCode,
		RegistrationDate: m.RegistrationDate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toOrderModel(o *order.Order) *OrderModel {
	return &OrderModel{
		VersionedModel:  baseOf(o.Versioned),
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate,
		TotalAmount:     o.TotalAmount,
		Status:          int(o.Status),
		ShippingAddress: o.ShippingAddress,
		CustomerID:      o.CustomerID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderEntity(m *OrderModel) *order.Order {
	return &order.Order{
		Versioned:       revOf(m.VersionedModel),
		OrderNumber:     m.OrderNumber,
		OrderDate:       m.OrderDate,
		TotalAmount:     m.TotalAmount,
		Status:          order.OrderStatus(m.Status),
		ShippingAddress: m.ShippingAddress,
		CustomerID:      m.CustomerID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toOrderItemModel(i *order.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		VersionedModel: baseOf(i.Versioned),
		Quantity:       i.Quantity,
		UnitPrice:      i.UnitPrice,
		OrderID:        i.OrderID,
		BookID:         i.BookID,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func toOrderItemEntity(m *OrderItemModel) *order.OrderItem {
	return &order.OrderItem{
		Versioned: revOf(m.VersionedModel),
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		OrderID:   m.OrderID,
		BookID:    m.BookID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toBankModel(b *fund.Bank) *BankModel {
	return &BankModel{
		VersionedModel: baseOf(b.Versioned),
		Name:           b.Name,
		Description:    b.Description,
		IsActive:       b.IsActive,
		CreatedDate:    b.CreatedDate,
		UpdatedAt:      b.UpdatedAt,
	}
}

func toBankEntity(m *BankModel) *fund.Bank {
	return &fund.Bank{
		Versioned:   revOf(m.VersionedModel),
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedDate: m.CreatedDate,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toFundModel(f *fund.Fund) *FundModel {
	return &FundModel{
		VersionedModel:    baseOf(f.Versioned),
		Name:              f.Name,
		Description:       f.Description,
		Value:             f.Value,
		BankID:            f.BankID,
		FundType:          string(f.FundType),
		IsActive:          f.IsActive,
		MinimumInvestment: f.MinimumInvestment,
		CreatedDate:       f.CreatedDate,
		UpdatedAt:         f.UpdatedAt,
	}
}

func toFundEntity(m *FundModel) *fund.Fund {
	return &fund.Fund{
		Versioned:         revOf(m.VersionedModel),
		Name:              m.Name,
		Description:       m.Description,
		Value:             m.Value,
		BankID:            m.BankID,
		FundType:          fund.FundType(m.FundType),
		IsActive:          m.IsActive,
		MinimumInvestment: m.MinimumInvestment,
		CreatedDate:       m.CreatedDate,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toUserFundModel(uf *fund.UserFund) *UserFundModel {
	return &UserFundModel{
		VersionedModel:   baseOf(uf.Versioned),
		UserID:           uf.UserID,
		FundID:           uf.FundID,
		InvestmentAmount: uf.InvestmentAmount,
		InvestmentDate:   uf.InvestmentDate,
		Notes:            uf.Notes,
		IsActive:         uf.IsActive,
		UpdatedAt:        uf.UpdatedAt,
	}
}

func toUserFundEntity(m *UserFundModel) *fund.UserFund {
	return &fund.UserFund{
		Versioned:        revOf(m.VersionedModel),
		UserID:           m.UserID,
		FundID:           m.FundID,
		InvestmentAmount: m.InvestmentAmount,
		InvestmentDate:   m.InvestmentDate,
		Notes:            m.Notes,
		IsActive:         m.IsActive,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		VersionedModel:        baseOf(u.Versioned),
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		Email:                 u.Email,
		IsActive:              u.IsActive,
		TotalInvestmentValue:  u.TotalInvestmentValue,
		ActiveInvestmentCount: u.ActiveInvestmentCount,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		Versioned:             revOf(m.VersionedModel),
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 m.Email,
		IsActive:              m.IsActive,
		TotalInvestmentValue:  m.TotalInvestmentValue,
		ActiveInvestmentCount: m.ActiveInvestmentCount,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
