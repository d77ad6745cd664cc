package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/interface/http/dto"
	"github.com/xiebiao/bookfund/pkg/response"
)

// OrderHandler 订单HTTP处理器
// 订单总金额由明细重算维护,所有接口都不接受传入的总金额
type OrderHandler struct {
	engine *facade.Facade
}

func NewOrderHandler(engine *facade.Facade) *OrderHandler {
	return &OrderHandler{engine: engine}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  订单与初始明细在同一事务内创建,任意一项不合法时整体失败并返回全部违规
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "订单信息"
// @Success      201 {object} response.Response{data=dto.OrderResponse}
// @Failure      422 {object} response.Response{data=[]invariant.FieldViolation} "字段校验失败"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bind(c, &req) {
		return
	}
	o, items := req.ToEntity()
	created, createdItems, err := h.engine.CreateOrder(c.Request.Context(), o, items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewOrderResponse(created, createdItems))
}

// GetOrder 订单详情(含明细)
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.engine.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderDetailResponse(detail))
}

// UpdateOrder 修改订单
// @Summary      修改订单
// @Description  状态变化必须符合流转规则:待支付→已支付/已取消,已支付→已发货/已取消,已发货→已完成
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "订单ID"
// @Param        request body dto.UpdateOrderRequest true "订单信息"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      409 {object} response.Response{data=concurrency.ConflictDetail} "版本冲突"
// @Failure      422 {object} response.Response{data=[]invariant.FieldViolation} "字段校验失败"
// @Router       /api/v1/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bind(c, &req) {
		return
	}
	o, err := h.engine.UpdateOrder(c.Request.Context(), id, req.Version, req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o, nil))
}

// DeleteOrder 删除订单(必须先删除全部明细)
// @Summary      删除订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int true "订单ID"
// @Param        version query int true "期望版本号"
// @Success      200 {object} response.Response
// @Failure      409 {object} response.Response{data=facade.DependentDetail} "存在明细或版本冲突"
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	version, ok := queryVersion(c)
	if !ok {
		return
	}
	if err := h.engine.DeleteOrder(c.Request.Context(), id, version); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddItem 新增明细
// @Summary      新增订单明细
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                  true "订单ID"
// @Param        request body dto.OrderItemRequest true "明细"
// @Success      201 {object} response.Response{data=dto.OrderItemResponse}
// @Router       /api/v1/orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.OrderItemRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.engine.CreateOrderItem(c.Request.Context(), req.ToEntity(orderID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewOrderItemResponse(item))
}

// UpdateItem 修改明细
// @Summary      修改订单明细
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                        true "订单ID"
// @Param        itemId  path int                        true "明细ID"
// @Param        request body dto.UpdateOrderItemRequest true "明细"
// @Success      200 {object} response.Response{data=dto.OrderItemResponse}
// @Failure      409 {object} response.Response{data=concurrency.ConflictDetail} "版本冲突"
// @Router       /api/v1/orders/{id}/items/{itemId} [put]
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	orderID, itemID, ok := h.itemOf(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderItemRequest
	if !bind(c, &req) {
		return
	}
	item, err := h.engine.UpdateOrderItem(c.Request.Context(), itemID, req.Version, req.ToEntity(orderID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderItemResponse(item))
}

// DeleteItem 删除明细
// @Summary      删除订单明细
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int true "订单ID"
// @Param        itemId  path  int true "明细ID"
// @Param        version query int true "期望版本号"
// @Success      200 {object} response.Response
// @Router       /api/v1/orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	_, itemID, ok := h.itemOf(c)
	if !ok {
		return
	}
	version, ok := queryVersion(c)
	if !ok {
		return
	}
	if err := h.engine.DeleteOrderItem(c.Request.Context(), itemID, version); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// itemOf 明细必须属于路径中的订单,否则按不存在处理
func (h *OrderHandler) itemOf(c *gin.Context) (orderID, itemID uint, ok bool) {
	if orderID, ok = pathID(c, "id"); !ok {
		return
	}
	if itemID, ok = pathID(c, "itemId"); !ok {
		return
	}
	item, err := h.engine.GetOrderItem(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	if item.OrderID != orderID {
		response.Error(c, store.NotFoundError(store.KindOrderItem, itemID))
		return 0, 0, false
	}
	return orderID, itemID, true
}
