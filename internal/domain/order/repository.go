package order

import (
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// 订单相关的仓储接口(由infrastructure层实现)
type (
	CustomerRepository  = store.Store[Customer]
	OrderRepository     = store.Store[Order]
	OrderItemRepository = store.Store[OrderItem]
)
