package fund

import (
	"context"

	"github.com/xiebiao/bookfund/internal/domain/invariant"
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// 基金净值范围(分): (0, 999999.99]
const (
	MinValue int64 = 1
	MaxValue int64 = 99999999
)

// MaxInvestment 单笔投资金额上限(分): 1亿元
const MaxInvestment int64 = 10000000000

func ValidateBank(b *Bank) error {
	c := invariant.New()
	c.Length("name", b.Name, 1, 50)
	c.MaxLength("description", b.Description, 200)
	return c.Err()
}

func ValidateFund(ctx context.Context, refs invariant.Refs, f *Fund) error {
	c := invariant.New()
	c.Length("name", f.Name, 2, 100)
	c.MaxLength("description", f.Description, 500)
	c.Range("value", f.Value, MinValue, MaxValue)
	if f.FundType != "" {
		c.Check(f.FundType.IsValid(), "fund_type", invariant.RuleFormat, "基金类型必须是%v之一", FundTypes)
	}
	if f.MinimumInvestment != nil {
		c.Min("minimum_investment", *f.MinimumInvestment, 0)
	}
	c.Foreign(ctx, refs, "bank_id", store.KindBank, f.BankID)
	return c.Err()
}

// ValidateUserFund 校验投资记录,用户和基金必须存在
// minimum为所投基金的最低投资额,基金未设置或不存在时传nil
func ValidateUserFund(ctx context.Context, refs invariant.Refs, uf *UserFund, minimum *int64) error {
	c := invariant.New()
	c.Range("investment_amount", uf.InvestmentAmount, 1, MaxInvestment)
	if minimum != nil && uf.InvestmentAmount < *minimum {
		c.Add("investment_amount", invariant.RuleRange, "投资金额不能低于基金最低投资额%d分", *minimum)
	}
	c.MaxLength("notes", uf.Notes, 500)
	c.Foreign(ctx, refs, "user_id", store.KindUser, uf.UserID)
	c.Foreign(ctx, refs, "fund_id", store.KindFund, uf.FundID)
	return c.Err()
}
