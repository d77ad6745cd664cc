package dto

import (
	"time"

	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/internal/domain/fund"
	"github.com/xiebiao/bookfund/internal/domain/query"
)

// ListFundsRequest 基金查询条件
type ListFundsRequest struct {
	BankID     *uint  `form:"bank_id"`
	FundType   string `form:"fund_type" example:"Green"`
	Search     string `form:"search"`
	ActiveOnly *bool  `form:"active_only"`
}

func (r *ListFundsRequest) Filter() query.FundFilter {
	return query.FundFilter{
		BankID:     r.BankID,
		FundType:   r.FundType,
		SearchText: r.Search,
		ActiveOnly: r.ActiveOnly,
	}
}

type FundInfoResponse struct {
	FundID    uint   `json:"fund_id"`
	FundName  string `json:"fund_name" example:"Nordea Global"`
	BankID    uint   `json:"bank_id"`
	BankName  string `json:"bank_name" example:"Nordea"`
	Value     int64  `json:"value" example:"12550"` // 分
	ValueYuan string `json:"value_yuan" example:"125.50"`
	FundType  string `json:"fund_type,omitempty" example:"Green"`
	IsActive  bool   `json:"is_active"`
}

func NewFundInfoList(infos []facade.FundInfo) []*FundInfoResponse {
	out := make([]*FundInfoResponse, 0, len(infos))
	for _, i := range infos {
		out = append(out, &FundInfoResponse{
			FundID:    i.FundID,
			FundName:  i.FundName,
			BankID:    i.BankID,
			BankName:  i.BankName,
			Value:     i.Value,
			ValueYuan: FormatPriceYuan(i.Value),
			FundType:  string(i.FundType),
			IsActive:  i.IsActive,
		})
	}
	return out
}

// InvestmentRequest 新增/修改投资
// 投资人取自Token,不接受传入
type InvestmentRequest struct {
	FundID           uint       `json:"fund_id" example:"1"`
	InvestmentAmount int64      `json:"investment_amount" example:"10000"` // 分
	InvestmentDate   *time.Time `json:"investment_date,omitempty"`
	Notes            string     `json:"notes"`
	IsActive         *bool      `json:"is_active,omitempty"` // 默认true
}

type UpdateInvestmentRequest struct {
	InvestmentRequest
	Version uint64 `json:"version" binding:"required" example:"1"`
}

func (r *InvestmentRequest) ToEntity(userID uint) *fund.UserFund {
	uf := &fund.UserFund{
		UserID:           userID,
		FundID:           r.FundID,
		InvestmentAmount: r.InvestmentAmount,
		Notes:            r.Notes,
		IsActive:         boolOr(r.IsActive, true),
	}
	if r.InvestmentDate != nil {
		uf.InvestmentDate = *r.InvestmentDate
	}
	return uf
}

type InvestmentResponse struct {
	ID               uint   `json:"id"`
	Version          uint64 `json:"version"`
	FundID           uint   `json:"fund_id"`
	InvestmentAmount int64  `json:"investment_amount"`
	InvestmentDate   string `json:"investment_date"`
	Notes            string `json:"notes,omitempty"`
	IsActive         bool   `json:"is_active"`
}

func NewInvestmentResponse(uf *fund.UserFund) *InvestmentResponse {
	return &InvestmentResponse{
		ID:               uf.ID,
		Version:          uf.Version,
		FundID:           uf.FundID,
		InvestmentAmount: uf.InvestmentAmount,
		InvestmentDate:   FormatTime(uf.InvestmentDate),
		Notes:            uf.Notes,
		IsActive:         uf.IsActive,
	}
}

func NewInvestmentList(list []*fund.UserFund) []*InvestmentResponse {
	out := make([]*InvestmentResponse, 0, len(list))
	for _, uf := range list {
		out = append(out, NewInvestmentResponse(uf))
	}
	return out
}

// PortfolioResponse 投资概览
type PortfolioResponse struct {
	UserID      uint                   `json:"user_id"`
	FullName    string                 `json:"full_name"`
	TotalValue  int64                  `json:"total_value"` // 有效投资市值合计(分)
	TotalYuan   string                 `json:"total_yuan"`
	ActiveCount int                    `json:"active_count"`
	Investments []*PortfolioInvestment `json:"investments"`
}

type PortfolioInvestment struct {
	InvestmentResponse
	FundName     string `json:"fund_name"`
	FundType     string `json:"fund_type,omitempty"`
	BankName     string `json:"bank_name"`
	CurrentValue int64  `json:"current_value"`
}

func NewPortfolioResponse(ov *facade.PortfolioOverview) *PortfolioResponse {
	resp := &PortfolioResponse{
		UserID:      ov.User.ID,
		FullName:    ov.User.FullName(),
		TotalValue:  ov.TotalValue,
		TotalYuan:   FormatPriceYuan(ov.TotalValue),
		ActiveCount: ov.ActiveCount,
		Investments: make([]*PortfolioInvestment, 0, len(ov.Investments)),
	}
	for _, inv := range ov.Investments {
		resp.Investments = append(resp.Investments, &PortfolioInvestment{
			InvestmentResponse: *NewInvestmentResponse(inv.Holding),
			FundName:           inv.FundName,
			FundType:           string(inv.FundType),
			BankName:           inv.BankName,
			CurrentValue:       inv.CurrentValue,
		})
	}
	return resp
}
