// Package jwt 调用方身份解析
//
// 引擎本身不做认证；HTTP层从Bearer Token中取出用户ID和角色：
//   - 投资相关接口以Token中的用户ID作为UserFund的所有者
//   - 目录和订单的写操作要求admin角色
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// RoleAdmin 目录/订单管理员
const RoleAdmin = "admin"

// Manager JWT管理器
type Manager struct {
	secret string
	issuer string
	expire time.Duration
}

func NewManager(secret, issuer string, expire time.Duration) *Manager {
	return &Manager{secret: secret, issuer: issuer, expire: expire}
}

// Claims JWT载荷
type Claims struct {
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole 是否拥有指定角色
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Remaining Token剩余有效期（吊销记录的TTL）
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// GenerateToken 签发Access Token
// 每个Token带唯一的jti,登出时按jti吊销
func (m *Manager) GenerateToken(userID uint, roles ...string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "生成Token失败")
	}
	return token, nil
}

// ParseToken 校验签名、有效期和签发者
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(m.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
