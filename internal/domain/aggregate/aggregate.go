// Package aggregate 派生聚合值的重算
//
// 订单总额 = Σ 明细(数量 × 单价)
// 用户投资总值 = Σ 有效投资的当前市值,有效投资笔数 = 有效投资行数
//
// 重算只读取当前已持久化的组成行,值不变时不写入(避免无意义的版本号递增)。
// 由门面在同一事务内调用,拥有者行在事务中途消失或金额合计溢出时返回错误,整个操作回滚。
package aggregate

import (
	"context"

	"github.com/xiebiao/bookfund/internal/domain/concurrency"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
)

// Recomputer 聚合重算
type Recomputer struct {
	orders    order.OrderRepository
	items     order.OrderItemRepository
	users     user.Repository
	userFunds fund.UserFundRepository
}

func NewRecomputer(
	orders order.OrderRepository,
	items order.OrderItemRepository,
	users user.Repository,
	userFunds fund.UserFundRepository,
) *Recomputer {
	return &Recomputer{
		orders:    orders,
		items:     items,
		users:     users,
		userFunds: userFunds,
	}
}

// RecomputeOrderTotal 重算订单总额,返回是否发生了写入
func (r *Recomputer) RecomputeOrderTotal(ctx context.Context, orderID uint) (bool, error) {
	o, err := r.orders.Read(ctx, orderID)
	if err != nil {
		return false, err
	}

	items, err := r.items.ReadMany(ctx, query.OrderItemFilter{OrderID: &orderID}.Predicate())
	if err != nil {
		return false, err
	}

	total, err := order.CalculateTotal(items)
	if err != nil {
		return false, err
	}
	if total == o.TotalAmount {
		return false, nil
	}

	o.TotalAmount = total
	if _, err := concurrency.Update(ctx, r.orders, store.KindOrder, o.ID, o, o.Version); err != nil {
		return false, err
	}
	return true, nil
}

// Portfolio 用户投资聚合
type Portfolio struct {
	TotalValue  int64
	ActiveCount int
}

// PortfolioOf 从有效投资计算聚合(纯函数),总值溢出时返回校验错误
func PortfolioOf(investments []*fund.UserFund) (Portfolio, error) {
	var p Portfolio
	for _, uf := range investments {
		if !uf.IsActive {
			continue
		}
		total, ok := invariant.AddCents(p.TotalValue, uf.CurrentValue())
		if !ok {
			return Portfolio{}, invariant.Overflow("total_investment_value")
		}
		p.TotalValue = total
		p.ActiveCount++
	}
	return p, nil
}

// RecomputePortfolioTotal 重算用户投资总值与有效投资笔数,返回是否发生了写入
func (r *Recomputer) RecomputePortfolioTotal(ctx context.Context, userID uint) (bool, error) {
	u, err := r.users.Read(ctx, userID)
	if err != nil {
		return false, err
	}

	active, err := r.userFunds.ReadMany(ctx, query.UserFundFilter{UserID: &userID}.Predicate())
	if err != nil {
		return false, err
	}

	p, err := PortfolioOf(active)
	if err != nil {
		return false, err
	}
	if p.TotalValue == u.TotalInvestmentValue && p.ActiveCount == u.ActiveInvestmentCount {
		return false, nil
	}

	u.TotalInvestmentValue = p.TotalValue
	u.ActiveInvestmentCount = p.ActiveCount
	if _, err := concurrency.Update(ctx, r.users, store.KindUser, u.ID, u, u.Version); err != nil {
		return false, err
	}
	return true, nil
}
