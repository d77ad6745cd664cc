package dto

import (
	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/internal/domain/order"
)

// OrderItemRequest 订单明细
type OrderItemRequest struct {
	BookID    uint  `json:"book_id" example:"1"`
	Quantity  int   `json:"quantity" example:"2"`
	UnitPrice int64 `json:"unit_price" example:"1699"` // 下单时单价(分)
}

func (r *OrderItemRequest) ToEntity(orderID uint) *order.OrderItem {
	return &order.OrderItem{
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		OrderID:   orderID,
		BookID:    r.BookID,
	}
}

type UpdateOrderItemRequest struct {
	OrderItemRequest
	Version uint64 `json:"version" binding:"required" example:"1"`
}

// CreateOrderRequest 创建订单(可带初始明细)
// order_number为空时自动生成;总金额由明细计算,不接受传入
type CreateOrderRequest struct {
	OrderNumber     string             `json:"order_number,omitempty"`
	CustomerID      uint               `json:"customer_id" example:"1"`
	ShippingAddress string             `json:"shipping_address" example:"221B Baker Street"`
	Items           []OrderItemRequest `json:"items"`
}

func (r *CreateOrderRequest) ToEntity() (*order.Order, []*order.OrderItem) {
	o := &order.Order{
		OrderNumber:     r.OrderNumber,
		CustomerID:      r.CustomerID,
		ShippingAddress: r.ShippingAddress,
	}
	items := make([]*order.OrderItem, 0, len(r.Items))
	for i := range r.Items {
		items = append(items, r.Items[i].ToEntity(0))
	}
	return o, items
}

// UpdateOrderRequest 修改订单
// status为0表示不修改;修改时必须符合状态流转规则
type UpdateOrderRequest struct {
	CustomerID      uint   `json:"customer_id" example:"1"`
	ShippingAddress string `json:"shipping_address"`
	Status          int    `json:"status" example:"2"`
	Version         uint64 `json:"version" binding:"required" example:"1"`
}

func (r *UpdateOrderRequest) ToEntity() *order.Order {
	return &order.Order{
		CustomerID:      r.CustomerID,
		ShippingAddress: r.ShippingAddress,
		Status:          order.OrderStatus(r.Status),
	}
}

type OrderItemResponse struct {
	ID        uint   `json:"id"`
	Version   uint64 `json:"version"`
	OrderID   uint   `json:"order_id"`
	BookID    uint   `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

func NewOrderItemResponse(i *order.OrderItem) *OrderItemResponse {
	// 已持久化的明细通过了数量与单价的上限校验,行金额不会溢出
	line, _ := i.LineTotal()
	return &OrderItemResponse{
		ID:        i.ID,
		Version:   i.Version,
		OrderID:   i.OrderID,
		BookID:    i.BookID,
		Quantity:  i.Quantity,
		UnitPrice: i.UnitPrice,
		LineTotal: line,
	}
}

// OrderResponse 订单详情
type OrderResponse struct {
	ID              uint                 `json:"id"`
	Version         uint64               `json:"version"`
	OrderNumber     string               `json:"order_number" example:"ORD1699248000123456"`
	OrderDate       string               `json:"order_date"`
	Status          int                  `json:"status" example:"1"`
	StatusText      string               `json:"status_text" example:"待支付"`
	CustomerID      uint                 `json:"customer_id"`
	ShippingAddress string               `json:"shipping_address"`
	TotalAmount     int64                `json:"total_amount" example:"3398"` // 分
	TotalYuan       string               `json:"total_yuan" example:"33.98"`
	Items           []*OrderItemResponse `json:"items,omitempty"`
}

func NewOrderResponse(o *order.Order, items []*order.OrderItem) *OrderResponse {
	resp := &OrderResponse{
		ID:              o.ID,
		Version:         o.Version,
		OrderNumber:     o.OrderNumber,
		OrderDate:       FormatTime(o.OrderDate),
		Status:          int(o.Status),
		StatusText:      o.Status.String(),
		CustomerID:      o.CustomerID,
		ShippingAddress: o.ShippingAddress,
		TotalAmount:     o.TotalAmount,
		TotalYuan:       FormatPriceYuan(o.TotalAmount),
	}
	if items != nil {
		resp.Items = make([]*OrderItemResponse, 0, len(items))
		for _, i := range items {
			resp.Items = append(resp.Items, NewOrderItemResponse(i))
		}
	}
	return resp
}

func NewOrderDetailResponse(d *facade.OrderDetail) *OrderResponse {
	return NewOrderResponse(d.Order, d.Items)
}
