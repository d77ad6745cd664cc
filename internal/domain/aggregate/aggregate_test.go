package aggregate_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xiebiao/bookfund/internal/domain/aggregate"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/order"
	"github.com/xiebiao/bookfund/internal/domain/user"
	"github.com/xiebiao/bookfund/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

func newRecomputer(s *memory.Store) *aggregate.Recomputer {
	return aggregate.NewRecomputer(s.Orders(), s.OrderItems(), s.Users(), s.UserFunds())
}

func TestRecomputeOrderTotal(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := newRecomputer(s)

	o := order.NewOrder(1, "")
	o.OrderNumber = "ORD1"
	require.NoError(t, s.Orders().Insert(ctx, o))
	require.NoError(t, s.OrderItems().Insert(ctx, order.NewOrderItem(o.ID, 1, 2, 1699)))
	require.NoError(t, s.OrderItems().Insert(ctx, order.NewOrderItem(o.ID, 2, 1, 1999)))

	t.Run("总额等于明细合计", func(t *testing.T) {
		changed, err := r.RecomputeOrderTotal(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, changed)

		got, _ := s.Orders().Read(ctx, o.ID)
		assert.Equal(t, int64(2*1699+1999), got.TotalAmount)
		assert.Equal(t, uint64(2), got.Version)
	})

	t.Run("重复重算不递增版本号", func(t *testing.T) {
		changed, err := r.RecomputeOrderTotal(ctx, o.ID)
		require.NoError(t, err)
		assert.False(t, changed)

		got, _ := s.Orders().Read(ctx, o.ID)
		assert.Equal(t, uint64(2), got.Version)
	})

	t.Run("订单不存在", func(t *testing.T) {
		_, err := r.RecomputeOrderTotal(ctx, 99)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}

func TestRecomputeOrderTotal_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		s := memory.New()
		r := newRecomputer(s)

		o := order.NewOrder(1, "")
		o.OrderNumber = "ORD1"
		if err := s.Orders().Insert(ctx, o); err != nil {
			t.Fatal(err)
		}

		var want int64
		n := rapid.IntRange(0, 8).Draw(t, "items")
		for i := 0; i < n; i++ {
			q := rapid.IntRange(1, 20).Draw(t, "qty")
			p := rapid.Int64Range(1, 99999).Draw(t, "price")
			if err := s.OrderItems().Insert(ctx, order.NewOrderItem(o.ID, 1, q, p)); err != nil {
				t.Fatal(err)
			}
			want += int64(q) * p
		}

		if _, err := r.RecomputeOrderTotal(ctx, o.ID); err != nil {
			t.Fatal(err)
		}
		got, err := s.Orders().Read(ctx, o.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.TotalAmount != want {
			t.Fatalf("total = %d, want %d", got.TotalAmount, want)
		}
	})
}

func TestRecomputePortfolioTotal(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := newRecomputer(s)

	u := user.NewUser("Ann", "Smet")
	require.NoError(t, s.Users().Insert(ctx, u))

	for _, amount := range []int64{10000, 12500} {
		require.NoError(t, s.UserFunds().Insert(ctx, fund.NewUserFund(u.ID, 1, amount)))
	}
	inactive := fund.NewUserFund(u.ID, 2, 999900)
	inactive.IsActive = false
	require.NoError(t, s.UserFunds().Insert(ctx, inactive))

	changed, err := r.RecomputePortfolioTotal(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := s.Users().Read(ctx, u.ID)
	assert.Equal(t, int64(22500), got.TotalInvestmentValue)
	assert.Equal(t, 2, got.ActiveInvestmentCount)

	changed, err = r.RecomputePortfolioTotal(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPortfolioOf(t *testing.T) {
	a := fund.NewUserFund(1, 1, 100)
	b := fund.NewUserFund(1, 1, 125)
	c := fund.NewUserFund(1, 1, 9999)
	c.IsActive = false

	p, err := aggregate.PortfolioOf([]*fund.UserFund{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, aggregate.Portfolio{TotalValue: 225, ActiveCount: 2}, p)

	p, err = aggregate.PortfolioOf(nil)
	require.NoError(t, err)
	assert.Equal(t, aggregate.Portfolio{}, p)

	t.Run("总值溢出", func(t *testing.T) {
		big := []*fund.UserFund{fund.NewUserFund(1, 1, math.MaxInt64), fund.NewUserFund(1, 1, math.MaxInt64)}
		_, err := aggregate.PortfolioOf(big)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestRecompute_OverflowLeavesOwnerUntouched(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := newRecomputer(s)

	t.Run("订单总额", func(t *testing.T) {
		o := order.NewOrder(1, "")
		o.OrderNumber = "ORD1"
		require.NoError(t, s.Orders().Insert(ctx, o))
		require.NoError(t, s.OrderItems().Insert(ctx, order.NewOrderItem(o.ID, 1, 2, math.MaxInt64)))

		_, err := r.RecomputeOrderTotal(ctx, o.ID)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		got, _ := s.Orders().Read(ctx, o.ID)
		assert.Zero(t, got.TotalAmount)
		assert.Equal(t, uint64(1), got.Version)
	})

	t.Run("投资总值", func(t *testing.T) {
		u := user.NewUser("Ann", "Smet")
		require.NoError(t, s.Users().Insert(ctx, u))
		for i := 0; i < 2; i++ {
			require.NoError(t, s.UserFunds().Insert(ctx, fund.NewUserFund(u.ID, 1, math.MaxInt64)))
		}

		_, err := r.RecomputePortfolioTotal(ctx, u.ID)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		got, _ := s.Users().Read(ctx, u.ID)
		assert.Zero(t, got.TotalInvestmentValue)
		assert.Zero(t, got.ActiveInvestmentCount)
	})
}
