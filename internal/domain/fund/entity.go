package fund

import (
	"time"

	"github.com/xiebiao/bookfund/internal/domain/store"
)

// FundType 基金类型标签
type FundType string

const (
	FundTypeGreen  FundType = "Green"
	FundTypeYellow FundType = "Yellow"
	FundTypeBrown  FundType = "Brown"
	FundTypeBlack  FundType = "Black"
	FundTypeBlue   FundType = "Blue"
)

// FundTypes 全部可用的基金类型
var FundTypes = []FundType{FundTypeGreen, FundTypeYellow, FundTypeBrown, FundTypeBlack, FundTypeBlue}

func (t FundType) IsValid() bool {
	for _, ft := range FundTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// Bank 银行(基金发行方)
type Bank struct {
	store.Versioned
	Name        string
	Description string
	IsActive    bool
	CreatedDate time.Time
	UpdatedAt   time.Time
}

func NewBank(name string) *Bank {
	now := time.Now()
	return &Bank{
		Name:        name,
		IsActive:    true,
		CreatedDate: now,
		UpdatedAt:   now,
	}
}

// Fund 基金
// Value使用int64存储"分"
type Fund struct {
	store.Versioned
	Name              string
	Description       string
	Value             int64
	BankID            uint
	FundType          FundType // 可为空
	IsActive          bool
	MinimumInvestment *int64 // 最低投资额(分),nil表示不限制
	CreatedDate       time.Time
	UpdatedAt         time.Time
}

func NewFund(name string, value int64, bankID uint) *Fund {
	now := time.Now()
	return &Fund{
		Name:        name,
		Value:       value,
		BankID:      bankID,
		IsActive:    true,
		CreatedDate: now,
		UpdatedAt:   now,
	}
}

// UserFund 用户的一笔投资(User与Fund的多对多关联)
type UserFund struct {
	store.Versioned
	UserID           uint
	FundID           uint
	InvestmentAmount int64 // 投资金额(分)
	InvestmentDate   time.Time
	Notes            string
	IsActive         bool
	UpdatedAt        time.Time
}

func NewUserFund(userID, fundID uint, amount int64) *UserFund {
	now := time.Now()
	return &UserFund{
		UserID:           userID,
		FundID:           fundID,
		InvestmentAmount: amount,
		InvestmentDate:   now,
		IsActive:         true,
		UpdatedAt:        now,
	}
}

// CurrentValue 当前市值
// 目前等于投资金额,没有接入行情估值
func (uf *UserFund) CurrentValue() int64 {
	return uf.InvestmentAmount
}
