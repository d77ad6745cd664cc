package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
)

var tableOf = map[store.Kind]string{
	store.KindAuthor:    AuthorModel{}.TableName(),
	store.KindCategory:  CategoryModel{}.TableName(),
	store.KindBook:      BookModel{}.TableName(),
	store.KindCustomer:  CustomerModel{}.TableName(),
	store.KindOrder:     OrderModel{}.TableName(),
	store.KindOrderItem: OrderItemModel{}.TableName(),
	store.KindBank:      BankModel{}.TableName(),
	store.KindFund:      FundModel{}.TableName(),
	store.KindUserFund:  UserFundModel{}.TableName(),
	store.KindUser:      UserModel{}.TableName(),
}

// Store 关系型存储(MySQL/SQLite)
// 组合了事务管理器与各实体的仓储
type Store struct {
	*TxManager
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{TxManager: NewTxManager(db), db: db}
}

// Exists 外键存在性检查(实现invariant.Refs)
func (s *Store) Exists(ctx context.Context, kind store.Kind, id uint) (bool, error) {
	table, ok := tableOf[kind]
	if !ok {
		return false, fmt.Errorf("未知的实体类型: %s", kind)
	}
	var n int64
	if err := getDB(ctx, s.db).Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, wrapDBError(err, "查询"+kind.Label()+"失败")
	}
	return n > 0, nil
}

func (s *Store) Authors() book.AuthorRepository {
	return &repository[book.Author, *book.Author, AuthorModel, *AuthorModel]{
		db: s.db, kind: store.KindAuthor, table: tableOf[store.KindAuthor],
		toModel: toAuthorModel, toEntity: toAuthorEntity,
	}
}

func (s *Store) Categories() book.CategoryRepository {
	return &repository[book.Category, *book.Category, CategoryModel, *CategoryModel]{
		db: s.db, kind: store.KindCategory, table: tableOf[store.KindCategory],
		toModel: toCategoryModel, toEntity: toCategoryEntity,
	}
}

// Books 图书搜索关联作者表
func (s *Store) Books() book.BookRepository {
	return &repository[book.Book, *book.Book, BookModel, *BookModel]{
		db: s.db, kind: store.KindBook, table: tableOf[store.KindBook],
		joins: map[string]join{
			"author": {table: tableOf[store.KindAuthor], foreignKey: "author_id"},
		},
		toModel: toBookModel, toEntity: toBookEntity,
	}
}

func (s *Store) Customers() order.CustomerRepository {
	return &repository[order.Customer, *order.Customer, CustomerModel, *CustomerModel]{
		db: s.db, kind: store.KindCustomer, table: tableOf[store.KindCustomer],
		toModel: toCustomerModel, toEntity: toCustomerEntity,
	}
}

func (s *Store) Orders() order.OrderRepository {
	return &repository[order.Order, *order.Order, OrderModel, *OrderModel]{
		db: s.db, kind: store.KindOrder, table: tableOf[store.KindOrder],
		toModel: toOrderModel, toEntity: toOrderEntity,
	}
}

func (s *Store) OrderItems() order.OrderItemRepository {
	return &repository[order.OrderItem, *order.OrderItem, OrderItemModel, *OrderItemModel]{
		db: s.db, kind: store.KindOrderItem, table: tableOf[store.KindOrderItem],
		toModel: toOrderItemModel, toEntity: toOrderItemEntity,
	}
}

func (s *Store) Banks() fund.BankRepository {
	return &repository[fund.Bank, *fund.Bank, BankModel, *BankModel]{
		db: s.db, kind: store.KindBank, table: tableOf[store.KindBank],
		toModel: toBankModel, toEntity: toBankEntity,
	}
}

func (s *Store) Funds() fund.FundRepository {
	return &repository[fund.Fund, *fund.Fund, FundModel, *FundModel]{
		db: s.db, kind: store.KindFund, table: tableOf[store.KindFund],
		toModel: toFundModel, toEntity: toFundEntity,
	}
}

func (s *Store) UserFunds() fund.UserFundRepository {
	return &repository[fund.UserFund, *fund.UserFund, UserFundModel, *UserFundModel]{
		db: s.db, kind: store.KindUserFund, table: tableOf[store.KindUserFund],
		toModel: toUserFundModel, toEntity: toUserFundEntity,
	}
}

func (s *Store) Users() user.Repository {
	return &repository[user.User, *user.User, UserModel, *UserModel]{
		db: s.db, kind: store.KindUser, table: tableOf[store.KindUser],
		toModel: toUserModel, toEntity: toUserEntity,
	}
}
