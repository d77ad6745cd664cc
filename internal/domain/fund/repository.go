package fund

import (
	"github.com/xiebiao/bookfund/internal/domain/store"
)

type (
	BankRepository     = store.Store[Bank]
	FundRepository     = store.Store[Fund]
	UserFundRepository = store.Store[UserFund]
)
