package user

import (
	"fmt"
	"time"

	"github.com/xiebiao/bookfund/internal/domain/store"
)

// User 投资人(系统的主体)
// 1. 身份认证由外部负责(JWT),这里只保存展示名称和状态
// 2. TotalInvestmentValue / ActiveInvestmentCount是派生聚合,只由聚合重算写入
// 3. 创建/更新时调用方传入的聚合值会被忽略
type User struct {
	store.Versioned
	FirstName             string
	LastName              string
	Email                 string
	IsActive              bool
	TotalInvestmentValue  int64 // 有效投资的当前市值合计(分)
	ActiveInvestmentCount int   // 有效投资笔数
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewUser 创建新用户(工厂方法)
func NewUser(firstName, lastName string) *User {
	now := time.Now()
	return &User{
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName 名或姓缺失时用ID生成展示名
func (u *User) FullName() string {
	if u.FirstName == "" || u.LastName == "" {
		return fmt.Sprintf("用户%d", u.ID)
	}
	return u.FirstName + " " + u.LastName
}
