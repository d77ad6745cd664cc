package facade

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/domain/user"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

var banks = entity[fund.Bank, *fund.Bank]{
	kind: store.KindBank,
	repo: func(s Substrate) store.Store[fund.Bank] { return s.Banks() },
	validate: func(_ context.Context, _ Substrate, b, _ *fund.Bank) error {
		return fund.ValidateBank(b)
	},
	prepare: func(b *fund.Bank, now time.Time) {
		stamp(&b.CreatedDate, now)
		b.UpdatedAt = now
	},
	carry: func(b, prev *fund.Bank, now time.Time) {
		b.CreatedDate = prev.CreatedDate
		b.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindFund, func(s Substrate) store.Store[fund.Fund] { return s.Funds() }, query.FieldFundBankID),
	},
}

var funds = entity[fund.Fund, *fund.Fund]{
	kind: store.KindFund,
	repo: func(s Substrate) store.Store[fund.Fund] { return s.Funds() },
	validate: func(ctx context.Context, sub Substrate, fd, _ *fund.Fund) error {
		return fund.ValidateFund(ctx, sub, fd)
	},
	prepare: func(fd *fund.Fund, now time.Time) {
		stamp(&fd.CreatedDate, now)
		fd.UpdatedAt = now
	},
	carry: func(fd, prev *fund.Fund, now time.Time) {
		fd.CreatedDate = prev.CreatedDate
		fd.UpdatedAt = now
	},
	dependents: []dependent{
		dependentsBy(store.KindUserFund, func(s Substrate) store.Store[fund.UserFund] { return s.UserFunds() }, query.FieldUserFundFundID),
	},
}

var userFunds = entity[fund.UserFund, *fund.UserFund]{
	kind:     store.KindUserFund,
	repo:     func(s Substrate) store.Store[fund.UserFund] { return s.UserFunds() },
	validate: validateUserFund,
	prepare: func(uf *fund.UserFund, now time.Time) {
		stamp(&uf.InvestmentDate, now)
		uf.UpdatedAt = now
	},
	carry: func(uf, prev *fund.UserFund, now time.Time) {
		if uf.InvestmentDate.IsZero() {
			uf.InvestmentDate = prev.InvestmentDate
		}
		uf.UpdatedAt = now
	},
	owners: func(uf *fund.UserFund) []owner {
		return []owner{{kind: store.KindUser, id: uf.UserID}}
	},
}

// validateUserFund 投资记录校验,需要先读出所投基金的最低投资额
func validateUserFund(ctx context.Context, sub Substrate, uf, _ *fund.UserFund) error {
	var minimum *int64
	if uf.FundID != 0 {
		fd, err := sub.Funds().Read(ctx, uf.FundID)
		switch {
		case err == nil:
			minimum = fd.MinimumInvestment
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}
	}
	return fund.ValidateUserFund(ctx, sub, uf, minimum)
}

func (f *Facade) CreateBank(ctx context.Context, b *fund.Bank) (*fund.Bank, error) {
	return create(ctx, f, banks, b)
}

func (f *Facade) UpdateBank(ctx context.Context, id uint, expectedVersion uint64, b *fund.Bank) (*fund.Bank, error) {
	return update(ctx, f, banks, id, expectedVersion, b)
}

func (f *Facade) DeleteBank(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, banks, id, expectedVersion)
}

func (f *Facade) GetBank(ctx context.Context, id uint) (*fund.Bank, error) {
	return get(ctx, f, banks, id)
}

func (f *Facade) ListBanks(ctx context.Context, filter query.BankFilter) ([]*fund.Bank, error) {
	return list(ctx, f, banks, filter.Predicate())
}

func (f *Facade) CreateFund(ctx context.Context, fd *fund.Fund) (*fund.Fund, error) {
	return create(ctx, f, funds, fd)
}

// UpdateFund 修改基金;投资的当前市值目前等于投资金额,净值变化不触发重算
func (f *Facade) UpdateFund(ctx context.Context, id uint, expectedVersion uint64, fd *fund.Fund) (*fund.Fund, error) {
	return update(ctx, f, funds, id, expectedVersion, fd)
}

func (f *Facade) DeleteFund(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, funds, id, expectedVersion)
}

func (f *Facade) GetFund(ctx context.Context, id uint) (*fund.Fund, error) {
	return get(ctx, f, funds, id)
}

func (f *Facade) ListFunds(ctx context.Context, filter query.FundFilter) ([]*fund.Fund, error) {
	return list(ctx, f, funds, filter.Predicate())
}

// CreateUserFund 新增投资并重算用户投资总值
// UserID由调用方(认证层)填入
func (f *Facade) CreateUserFund(ctx context.Context, uf *fund.UserFund) (*fund.UserFund, error) {
	return create(ctx, f, userFunds, uf)
}

// UpdateUserFund 修改投资;转给其他用户时两个用户都会重算
func (f *Facade) UpdateUserFund(ctx context.Context, id uint, expectedVersion uint64, uf *fund.UserFund) (*fund.UserFund, error) {
	return update(ctx, f, userFunds, id, expectedVersion, uf)
}

func (f *Facade) DeleteUserFund(ctx context.Context, id uint, expectedVersion uint64) error {
	return remove(ctx, f, userFunds, id, expectedVersion)
}

func (f *Facade) GetUserFund(ctx context.Context, id uint) (*fund.UserFund, error) {
	return get(ctx, f, userFunds, id)
}

func (f *Facade) ListUserFunds(ctx context.Context, filter query.UserFundFilter) ([]*fund.UserFund, error) {
	return list(ctx, f, userFunds, filter.Predicate())
}

// FundInfo 基金列表展示信息
type FundInfo struct {
	FundID   uint
	FundName string
	BankID   uint
	BankName string
	Value    int64
	FundType fund.FundType
	IsActive bool
}

// ListFundInfo 基金及其所属银行名称
func (f *Facade) ListFundInfo(ctx context.Context, filter query.FundFilter) ([]FundInfo, error) {
	infos := []FundInfo{}
	err := f.read(ctx, store.KindFund, "list", func(ctx context.Context) error {
		fds, err := f.sub.Funds().ReadMany(ctx, filter.Predicate())
		if err != nil {
			return err
		}
		names := newBankNames(f.sub)
		for _, fd := range fds {
			name, err := names.get(ctx, fd.BankID)
			if err != nil {
				return err
			}
			infos = append(infos, FundInfo{
				FundID:   fd.ID,
				FundName: fd.Name,
				BankID:   fd.BankID,
				BankName: name,
				Value:    fd.Value,
				FundType: fd.FundType,
				IsActive: fd.IsActive,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Investment 投资概览中的一行
type Investment struct {
	Holding      *fund.UserFund
	FundName     string
	FundType     fund.FundType
	BankName     string
	CurrentValue int64
}

// PortfolioOverview 用户投资概览
// TotalValue/ActiveCount取自User行上的聚合(与投资记录在同一事务内维护)
type PortfolioOverview struct {
	User        *user.User
	Investments []Investment
	TotalValue  int64
	ActiveCount int
}

// GetPortfolioOverview 用户的全部投资(含无效)及基金、银行名称
func (f *Facade) GetPortfolioOverview(ctx context.Context, userID uint) (*PortfolioOverview, error) {
	var ov PortfolioOverview
	err := f.read(ctx, store.KindUser, "portfolio", func(ctx context.Context) error {
		u, err := f.sub.Users().Read(ctx, userID)
		if err != nil {
			return err
		}
		holdings, err := f.sub.UserFunds().ReadMany(ctx,
			query.UserFundFilter{UserID: &userID, ActiveOnly: query.Bool(false)}.Predicate())
		if err != nil {
			return err
		}

		fundsByID := make(map[uint]*fund.Fund)
		names := newBankNames(f.sub)
		ov = PortfolioOverview{
			User:        u,
			Investments: make([]Investment, 0, len(holdings)),
			TotalValue:  u.TotalInvestmentValue,
			ActiveCount: u.ActiveInvestmentCount,
		}
		for _, h := range holdings {
			fd, ok := fundsByID[h.FundID]
			if !ok {
				if fd, err = f.sub.Funds().Read(ctx, h.FundID); err != nil {
					return err
				}
				fundsByID[h.FundID] = fd
			}
			bank, err := names.get(ctx, fd.BankID)
			if err != nil {
				return err
			}
			ov.Investments = append(ov.Investments, Investment{
				Holding:      h,
				FundName:     fd.Name,
				FundType:     fd.FundType,
				BankName:     bank,
				CurrentValue: h.CurrentValue(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// bankNames 单次查询内的银行名称缓存
type bankNames struct {
	sub   Substrate
	names map[uint]string
}

func newBankNames(sub Substrate) *bankNames {
	return &bankNames{sub: sub, names: make(map[uint]string)}
}

func (b *bankNames) get(ctx context.Context, id uint) (string, error) {
	if name, ok := b.names[id]; ok {
		return name, nil
	}
	bank, err := b.sub.Banks().Read(ctx, id)
	if err != nil {
		return "", err
	}
	b.names[id] = bank.Name
	return bank.Name, nil
}
