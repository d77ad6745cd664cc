package order

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xiebiao/bookfund/internal/domain/book"
	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

type refs map[store.Kind]map[uint]bool

func (r refs) Exists(_ context.Context, kind store.Kind, id uint) (bool, error) {
	return r[kind][id], nil
}

func TestCanTransition(t *testing.T) {
	t.Run("合法流转", func(t *testing.T) {
		assert.True(t, CanTransition(OrderStatusPending, OrderStatusPaid))
		assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
		assert.True(t, CanTransition(OrderStatusPaid, OrderStatusShipped))
		assert.True(t, CanTransition(OrderStatusPaid, OrderStatusCancelled))
		assert.True(t, CanTransition(OrderStatusShipped, OrderStatusCompleted))
		assert.True(t, CanTransition(OrderStatusShipped, OrderStatusShipped))
	})

	t.Run("非法流转", func(t *testing.T) {
		assert.False(t, CanTransition(OrderStatusPending, OrderStatusShipped))
		assert.False(t, CanTransition(OrderStatusCompleted, OrderStatusPending))
		assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusPaid))
		assert.False(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))
	})
}

func TestGenerateOrderNo(t *testing.T) {
	no := generateOrderNo(time.Unix(1699248000, 0))
	assert.Regexp(t, regexp.MustCompile(`^ORD1699248000\d{6}$`), no)
	assert.LessOrEqual(t, len(GenerateOrderNo()), 32)
}

func TestCalculateTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(t, "n")
		items := make([]*OrderItem, 0, n)
		var want int64
		for i := 0; i < n; i++ {
			q := rapid.IntRange(1, 50).Draw(t, "qty")
			p := rapid.Int64Range(1, 99999).Draw(t, "price")
			items = append(items, NewOrderItem(1, 1, q, p))
			want += int64(q) * p
		}
		got, err := CalculateTotal(items)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("total = %d, want %d", got, want)
		}
	})
}

func TestCalculateTotal_Overflow(t *testing.T) {
	t.Run("行金额溢出", func(t *testing.T) {
		_, err := CalculateTotal([]*OrderItem{NewOrderItem(1, 1, 2, math.MaxInt64)})
		require.Error(t, err)
		v := invariant.ViolationsOf(err)
		require.Len(t, v, 1)
		assert.Equal(t, "line_total", v[0].Field)
	})

	t.Run("合计溢出", func(t *testing.T) {
		items := []*OrderItem{
			NewOrderItem(1, 1, 1, math.MaxInt64),
			NewOrderItem(1, 2, 1, 1),
		}
		_, err := CalculateTotal(items)
		v := invariant.ViolationsOf(err)
		require.Len(t, v, 1)
		assert.Equal(t, "total_amount", v[0].Field)
	})
}

func TestValidateOrder(t *testing.T) {
	ctx := context.Background()
	known := refs{store.KindCustomer: {1: true}}

	t.Run("新订单", func(t *testing.T) {
		o := NewOrder(1, "Main St 1")
		o.OrderNumber = GenerateOrderNo()
		assert.NoError(t, ValidateOrder(ctx, known, o, nil))
	})

	t.Run("状态跳转被拒绝", func(t *testing.T) {
		prev := NewOrder(1, "")
		prev.OrderNumber = "ORD1"
		next := *prev
		next.Status = OrderStatusCompleted

		v := invariant.ViolationsOf(ValidateOrder(ctx, known, &next, prev))
		require.Len(t, v, 1)
		assert.Equal(t, invariant.RuleTransition, v[0].Rule)
	})

	t.Run("客户不存在且状态非法", func(t *testing.T) {
		o := NewOrder(9, "")
		o.OrderNumber = "ORD1"
		o.Status = OrderStatus(42)
		assert.Len(t, invariant.ViolationsOf(ValidateOrder(ctx, known, o, nil)), 2)
	})
}

func TestValidateOrderItem(t *testing.T) {
	ctx := context.Background()
	known := refs{store.KindOrder: {1: true}, store.KindBook: {3: true}}

	assert.NoError(t, ValidateOrderItem(ctx, known, NewOrderItem(1, 3, 2, 1699)))

	v := invariant.ViolationsOf(ValidateOrderItem(ctx, known, NewOrderItem(1, 4, 0, 0)))
	assert.Len(t, v, 3)

	t.Run("数量与单价有上限", func(t *testing.T) {
		assert.NoError(t, ValidateOrderItem(ctx, known, NewOrderItem(1, 3, int(MaxQuantity), book.MaxPrice)))

		v := invariant.ViolationsOf(ValidateOrderItem(ctx, known, NewOrderItem(1, 3, int(MaxQuantity)+1, math.MaxInt64)))
		require.Len(t, v, 2)
		assert.Equal(t, "quantity", v[0].Field)
		assert.Equal(t, "unit_price", v[1].Field)
	})
}

func TestValidateCustomer(t *testing.T) {
	cu := NewCustomer("Jan", "Peeters", "jan@example.com")
	cu.Phone = "+32 (0)470-123456"
	assert.NoError(t, ValidateCustomer(cu))

	cu.Email = ""
	cu.Phone = "call me"
	v := invariant.ViolationsOf(ValidateCustomer(cu))
	require.Len(t, v, 2)
	assert.Equal(t, invariant.RuleRequired, v[0].Rule)
	assert.Equal(t, "phone", v[1].Field)
	assert.Equal(t, "Jan Peeters", cu.FullName())
}
