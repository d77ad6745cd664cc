package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

const revokedPrefix = "bookfund:revoked:"

// TokenStore Token吊销名单
// Key设计: bookfund:revoked:{jti},过期时间等于Token剩余有效期,过期后自动清理
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Revoke 吊销Token(登出)
// ttl<=0说明Token已经过期,无需记录
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedPrefix+jti, "revoked", ttl).Err(); err != nil {
		return redisError(err, "吊销Token失败")
	}
	return nil
}

// IsRevoked Token是否已被吊销
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, redisError(err, "检查Token状态失败")
	}
	return n > 0, nil
}

func redisError(err error, message string) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeRedisError,
		Message: message,
		Err:     err,
	}
}
