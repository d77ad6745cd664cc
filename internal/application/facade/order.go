package facade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

var customers = entity[order.Customer, *order.Customer]{
	kind: store.KindCustomer,
	repo: func(s Substrate) store.Store[order.Customer] { return s.Customers() },
	validate: func(_ context.Context, _ Substrate, c, _ *order.Customer) error {
		return order.ValidateCustomer(c)
	},
	prepare: func(c *order.Customer, now time.Time) {
		stamp(&c.RegistrationDate, now)
		stamp(&c.CreatedAt, now)
		c.UpdatedAt = now
	},
	carry: func(c, prev *order.Customer, now time.Time) {
		c.RegistrationDate = prev.RegistrationDate
		c.CreatedAt = prev.CreatedAt
		c.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindOrder, func(s Substrate) store.Store[order.Order] { return s.Orders() }, query.FieldOrderCustomerID),
	},
}

// TotalAmount只由聚合重算写入
var orders = entity[order.Order, *order.Order]{
	kind:     store.KindOrder,
	repo:     func(s Substrate) store.Store[order.Order] { return s.Orders() },
	validate: func(ctx context.Context, sub Substrate, o, prev *order.Order) error {
		return order.ValidateOrder(ctx, sub, o, prev)
	},
	prepare: func(o *order.Order, now time.Time) {
		if strings.TrimSpace(o.OrderNumber) == "" {
			o.OrderNumber = order.GenerateOrderNo()
		}
		if o.Status == 0 {
			o.Status = order.OrderStatusPending
		}
		o.TotalAmount = 0
		stamp(&o.OrderDate, now)
		stamp(&o.CreatedAt, now)
		o.UpdatedAt = now
	},
	carry: func(o, prev *order.Order, now time.Time) {
		if strings.TrimSpace(o.OrderNumber) == "" {
			o.OrderNumber = prev.OrderNumber
		}
		if o.Status == 0 {
			o.Status = prev.Status
		}
		if o.OrderDate.IsZero() {
			o.OrderDate = prev.OrderDate
		}
		o.TotalAmount = prev.TotalAmount
		o.CreatedAt = prev.CreatedAt
		o.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindOrderItem, func(s Substrate) store.Store[order.OrderItem] { return s.OrderItems() }, query.FieldOrderItemOrderID),
	},
}

var orderItems = entity[order.OrderItem, *order.OrderItem]{
	kind: store.KindOrderItem,
	repo: func(s Substrate) store.Store[order.OrderItem] { return s.OrderItems() },
	validate: func(ctx context.Context, sub Substrate, item, _ *order.OrderItem) error {
		return order.ValidateOrderItem(ctx, sub, item)
	},
	prepare: func(item *order.OrderItem, now time.Time) {
		stamp(&item.CreatedAt, now)
		item.UpdatedAt = now
	},
	carry: func(item, prev *order.OrderItem, now time.Time) {
		item.CreatedAt = prev.CreatedAt
		item.UpdatedAt = now
	},
	owners: func(item *order.OrderItem) []owner {
		return []owner{{kind: store.KindOrder, id: item.OrderID}}
	},
}

func (f *Facade) CreateCustomer(ctx context.Context, c *order.Customer) (*order.Customer, error) {
	return create(ctx, f, customers, c)
}

func (f *Facade) UpdateCustomer(ctx context.Context, id uint, expectedVersion uint64, c *order.Customer) (*order.Customer, error) {
	return update(ctx, f, customers, id, expectedVersion, c)
}

func (f *Facade) DeleteCustomer(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, customers, id, expectedVersion)
}

func (f *Facade) GetCustomer(ctx context.Context, id uint) (*order.Customer, error) {
	return get(ctx, f, customers, id)
}

func (f *Facade) ListCustomers(ctx context.Context, filter query.CustomerFilter) ([]*order.Customer, error) {
	return list(ctx, f, customers, filter.Predicate())
}

// CreateOrder 创建订单及其初始明细
// 订单与明细的校验结果合并返回(明细字段名形如items[0].quantity);
// 全部合法时在同一事务内插入并重算总额
func (f *Facade) CreateOrder(ctx context.Context, o *order.Order, items []*order.OrderItem) (*order.Order, []*order.OrderItem, error) {
	var created *order.Order
	work := *o
	workItems := make([]order.OrderItem, len(items))
	for i, item := range items {
		workItems[i] = *item
	}

	err := f.write(ctx, store.KindOrder, "create", func(ctx context.Context, w *op) error {
		now := f.now()
		work.ID, work.Version = 0, 0
		orders.prepare(&work, now)

		var violations []invariant.FieldViolation
		if err := order.ValidateOrder(ctx, f.sub, &work, nil); err != nil {
			vs := invariant.ViolationsOf(err)
			if vs == nil {
				return err
			}
			violations = append(violations, vs...)
		}

		if len(violations) == 0 {
			if err := f.sub.Orders().Insert(ctx, &work); err != nil {
				return err
			}
			w.emit(store.KindOrder, work.ID, work.Version, ActionCreated)
		}

		for i := range workItems {
			item := &workItems[i]
			item.ID, item.Version = 0, 0
			item.OrderID = work.ID
			orderItems.prepare(item, now)
			err := order.ValidateOrderItem(ctx, f.sub, item)
			if err == nil {
				continue
			}
			vs := invariant.ViolationsOf(err)
			if vs == nil {
				return err
			}
			for _, v := range vs {
				// 订单本身不合法时还没有ID,order_id的违规没有意义
				if v.Field == "order_id" && work.ID == 0 {
					continue
				}
				v.Field = fmt.Sprintf("items[%d].%s", i, v.Field)
				violations = append(violations, v)
			}
		}
		if len(violations) > 0 {
			return invariant.Failed(violations)
		}

		for i := range workItems {
			item := &workItems[i]
			if err := f.sub.OrderItems().Insert(ctx, item); err != nil {
				return err
			}
			w.emit(store.KindOrderItem, item.ID, item.Version, ActionCreated)
		}
		if err := f.recomputeOwners(ctx, w, []owner{{kind: store.KindOrder, id: work.ID}}); err != nil {
			return err
		}

		var err error
		created, err = f.sub.Orders().Read(ctx, work.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	*o = work
	for i, item := range items {
		*item = workItems[i]
	}
	if items == nil {
		items = []*order.OrderItem{}
	}
	return created, items, nil
}

// UpdateOrder 更新订单,状态变化必须符合状态机;TotalAmount保持不变
func (f *Facade) UpdateOrder(ctx context.Context, id uint, expectedVersion uint64, o *order.Order) (*order.Order, error) {
	return update(ctx, f, orders, id, expectedVersion, o)
}

// DeleteOrder 订单还有明细时返回ReferentialIntegrity
func (f *Facade) DeleteOrder(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, orders, id, expectedVersion)
}

func (f *Facade) GetOrder(ctx context.Context, id uint) (*order.Order, error) {
	return get(ctx, f, orders, id)
}

func (f *Facade) ListOrders(ctx context.Context, filter query.OrderFilter) ([]*order.Order, error) {
	return list(ctx, f, orders, filter.Predicate())
}

// OrderDetail 订单及其明细
type OrderDetail struct {
	Order *order.Order
	Items []*order.OrderItem
}

// GetOrderDetail 读取订单和明细
func (f *Facade) GetOrderDetail(ctx context.Context, id uint) (*OrderDetail, error) {
	var d OrderDetail
	err := f.read(ctx, store.KindOrder, "get", func(ctx context.Context) error {
		o, err := f.sub.Orders().Read(ctx, id)
		if err != nil {
			return err
		}
		items, err := f.sub.OrderItems().ReadMany(ctx, query.OrderItemFilter{OrderID: &id}.Predicate())
		if err != nil {
			return err
		}
		d.Order, d.Items = o, items
		return nil
	})
	if err != nil {
		return nil, err
	}
	if d.Items == nil {
		d.Items = []*order.OrderItem{}
	}
	return &d, nil
}

// CreateOrderItem 添加明细并重算订单总额
func (f *Facade) CreateOrderItem(ctx context.Context, item *order.OrderItem) (*order.OrderItem, error) {
	return create(ctx, f, orderItems, item)
}

// UpdateOrderItem 修改明细;移到其他订单时两个订单都会重算
func (f *Facade) UpdateOrderItem(ctx context.Context, id uint, expectedVersion uint64, item *order.OrderItem) (*order.OrderItem, error) {
	return update(ctx, f, orderItems, id, expectedVersion, item)
}

func (f *Facade) DeleteOrderItem(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, orderItems, id, expectedVersion)
}

func (f *Facade) GetOrderItem(ctx context.Context, id uint) (*order.OrderItem, error) {
	return get(ctx, f, orderItems, id)
}

func (f *Facade) ListOrderItems(ctx context.Context, filter query.OrderItemFilter) ([]*order.OrderItem, error) {
	return list(ctx, f, orderItems, filter.Predicate())
}
