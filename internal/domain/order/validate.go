package order

import (
	"context"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// ValidateCustomer 校验客户
func ValidateCustomer(cu *Customer) error {
	c := invariant.New()
	c.Length("first_name", cu.FirstName, 1, 50)
	c.Length("last_name", cu.LastName, 1, 50)
	c.Email("email", cu.Email, false)
	if cu.Phone != "" {
		c.Check(isValidPhone(cu.Phone), "phone", invariant.RuleFormat, "电话号码格式不正确")
	}
	c.MaxLength("address", cu.Address, 200)
	c.MaxLength("city", cu.City, 50)
	c.MaxLength("postal_code", cu.PostalCode, 20)
	return c.Err()
}

// ValidateOrder 校验订单
// prev为更新前的订单(创建时为nil),用于检查状态流转
func ValidateOrder(ctx context.Context, refs invariant.Refs, o *Order, prev *Order) error {
	c := invariant.New()
	c.Length("order_number", o.OrderNumber, 1, 32)
	c.MaxLength("shipping_address", o.ShippingAddress, 200)
	if !o.Status.IsValid() {
		c.Add("status", invariant.RuleRange, "订单状态不合法")
	} else if prev != nil && !CanTransition(prev.Status, o.Status) {
		c.Add("status", invariant.RuleTransition, "订单状态不能从%s变为%s", prev.Status, o.Status)
	}
	c.Foreign(ctx, refs, "customer_id", store.KindCustomer, o.CustomerID)
	return c.Err()
}

// MaxQuantity 单个明细行的数量上限
const MaxQuantity int64 = 9999

// ValidateOrderItem 校验订单明细
// 单价沿用图书定价的范围
func ValidateOrderItem(ctx context.Context, refs invariant.Refs, item *OrderItem) error {
	c := invariant.New()
	c.Range("quantity", int64(item.Quantity), 1, MaxQuantity)
	c.Range("unit_price", item.UnitPrice, book.MinPrice, book.MaxPrice)
	c.Foreign(ctx, refs, "order_id", store.KindOrder, item.OrderID)
	c.Foreign(ctx, refs, "book_id", store.KindBook, item.BookID)
	return c.Err()
}

func isValidPhone(phone string) bool {
	if len(phone) < 6 || len(phone) > 20 {
		return false
	}
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '+' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return true
}
