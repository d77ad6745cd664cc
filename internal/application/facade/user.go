package facade

import (
	"context"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
)

// 投资总值和有效笔数只由聚合重算维护,调用方传入的值被忽略
var users = entity[user.User, *user.User]{
	kind: store.KindUser,
	repo: func(s Substrate) store.Store[user.User] { return s.Users() },
	validate: func(_ context.Context, _ Substrate, u, _ *user.User) error {
		return user.Validate(u)
	},
	prepare: func(u *user.User, now time.Time) {
		u.TotalInvestmentValue = 0
		u.ActiveInvestmentCount = 0
		stamp(&u.CreatedAt, now)
		u.UpdatedAt = now
	},
	carry: func(u, prev *user.User, now time.Time) {
		u.TotalInvestmentValue = prev.TotalInvestmentValue
		u.ActiveInvestmentCount = prev.ActiveInvestmentCount
		u.CreatedAt = prev.CreatedAt
		u.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindUserFund, func(s Substrate) store.Store[fund.UserFund] { return s.UserFunds() }, query.FieldUserFundUserID),
	},
}

func (f *Facade) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	return create(ctx, f, users, u)
}

func (f *Facade) UpdateUser(ctx context.Context, id uint, expectedVersion uint64, u *user.User) (*user.User, error) {
	return update(ctx, f, users, id, expectedVersion, u)
}

// DeleteUser 用户还有投资记录(含无效)时返回ReferentialIntegrity
func (f *Facade) DeleteUser(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, users, id, expectedVersion)
}

func (f *Facade) GetUser(ctx context.Context, id uint) (*user.User, error) {
	return get(ctx, f, users, id)
}

func (f *Facade) ListUsers(ctx context.Context, filter query.UserFilter) ([]*user.User, error) {
	return list(ctx, f, users, filter.Predicate())
}
