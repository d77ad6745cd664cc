package store

import (
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// Kind 实体类型
type Kind string

const (
	KindAuthor    Kind = "author"
	KindCategory  Kind = "category"
	KindBook      Kind = "book"
	KindCustomer  Kind = "customer"
	KindOrder     Kind = "order"
	KindOrderItem Kind = "order_item"
	KindBank      Kind = "bank"
	KindFund      Kind = "fund"
	KindUserFund  Kind = "user_fund"
	KindUser      Kind = "user"
)

var kindLabels = map[Kind]string{
	KindAuthor:    "作者",
	KindCategory:  "分类",
	KindBook:      "图书",
	KindCustomer:  "客户",
	KindOrder:     "订单",
	KindOrderItem: "订单明细",
	KindBank:      "银行",
	KindFund:      "基金",
	KindUserFund:  "投资记录",
	KindUser:      "用户",
}

// Label 中文名称(用于错误提示)
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return string(k)
}

// RowRef 错误详情中的行定位信息
type RowRef struct {
	Entity Kind `json:"entity"`
	ID     uint `json:"id"`
}

// NotFoundError 行不存在
func NotFoundError(kind Kind, id uint) error {
	return apperrors.ErrNotFound.
		WithMessage(kind.Label() + "不存在").
		WithDetails(RowRef{Entity: kind, ID: id})
}
