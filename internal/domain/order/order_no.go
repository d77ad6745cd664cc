package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式:ORD + 时间戳(秒) + 6位随机数
// 示例:ORD1699248000123456
//
// 唯一性由存储层的唯一索引兜底,冲突时返回ErrOrderNumberDuplicate
func GenerateOrderNo() string {
	return generateOrderNo(time.Now())
}

func generateOrderNo(now time.Time) string {
	random := rand.Intn(1000000) // 6位随机数
	return fmt.Sprintf("ORD%d%06d", now.Unix(), random)
}
