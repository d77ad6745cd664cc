package order

import (
	"time"

	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// OrderStatus 订单状态
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态值1-5递增,便于理解流转方向
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待支付
	OrderStatusPaid      OrderStatus = 2 // 已支付
	OrderStatusShipped   OrderStatus = 3 // 已发货
	OrderStatusCompleted OrderStatus = 4 // 已完成
	OrderStatusCancelled OrderStatus = 5 // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "待支付"
	case OrderStatusPaid:
		return "已支付"
	case OrderStatusShipped:
		return "已发货"
	case OrderStatusCompleted:
		return "已完成"
	case OrderStatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// IsValid 是否为已定义的状态
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusPending && s <= OrderStatusCancelled
}

// 合法的状态转换
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},    // 待支付→已支付/已取消
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled}, // 已支付→已发货/已取消(退款)
	OrderStatusShipped:   {OrderStatusCompleted},                     // 已发货→已完成
	OrderStatusCompleted: {},                                         // 终态
	OrderStatusCancelled: {},                                         // 终态
}

// CanTransition 检查from→to是否合法;状态不变总是允许
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Customer 客户
type Customer struct {
	store.Versioned
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	City             string
	PostalCode       string
	RegistrationDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewCustomer(firstName, lastName, email string) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		RegistrationDate: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Order 订单
// TotalAmount是派生值,只由聚合重算写入(=Σ明细行金额),调用方传入的值会被忽略
type Order struct {
	store.Versioned
	OrderNumber     string      // 订单号(业务主键,全局唯一)
	OrderDate       time.Time
	TotalAmount     int64       // 订单总金额(分)
	Status          OrderStatus // 订单状态
	ShippingAddress string
	CustomerID      uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder 创建新订单
// 初始状态为Pending(待支付),订单号为空时由门面生成
func NewOrder(customerID uint, shippingAddress string) *Order {
	now := time.Now()
	return &Order{
		OrderDate:       now,
		Status:          OrderStatusPending,
		ShippingAddress: shippingAddress,
		CustomerID:      customerID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OrderItem 订单明细项
// UnitPrice记录"下单时的价格"(历史价格快照),不随图书改价变化
type OrderItem struct {
	store.Versioned
	Quantity  int
	UnitPrice int64 // 单价(分)
	OrderID   uint
	BookID    uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOrderItem(orderID, bookID uint, quantity int, unitPrice int64) *OrderItem {
	now := time.Now()
	return &OrderItem{
		Quantity:  quantity,
		UnitPrice: unitPrice,
		OrderID:   orderID,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LineTotal 行金额 = 数量 × 单价,溢出时返回校验错误
func (i *OrderItem) LineTotal() (int64, error) {
	total, ok := invariant.MulCents(int64(i.Quantity), i.UnitPrice)
	if !ok {
		return 0, invariant.Overflow("line_total")
	}
	return total, nil
}

// CalculateTotal 计算订单总金额
// 行金额或合计溢出时返回错误,由调用方回滚整个写操作
func CalculateTotal(items []*OrderItem) (int64, error) {
	var total int64
	for _, item := range items {
		line, err := item.LineTotal()
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = invariant.AddCents(total, line); !ok {
			return 0, invariant.Overflow("total_amount")
		}
	}
	return total, nil
}
