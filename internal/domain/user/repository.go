package user

import (
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// Repository 用户仓储接口
// 接口定义在domain层,具体实现在infrastructure/persistence层
type Repository = store.Store[User]
