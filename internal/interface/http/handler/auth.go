package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookfund/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/response"
)

// Revoker Token吊销存储(redis.TokenStore)
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthHandler 登录态相关接口
// 签发Token由身份服务负责,这里只处理登出
type AuthHandler struct {
	revoker Revoker
	now     func() time.Time
}

func NewAuthHandler(revoker Revoker) *AuthHandler {
	return &AuthHandler{revoker: revoker, now: time.Now}
}

// Logout 登出
// @Summary      登出
// @Description  吊销当前Token,吊销记录保留到Token原本的过期时间
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Failure      500 {object} response.Response "缓存服务错误"
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	if err := h.revoker.Revoke(c.Request.Context(), claims.ID, claims.Remaining(h.now())); err != nil {
		response.Error(c, err)
		return
	}
	response.Logger(c).Info("用户已登出", "user_id", claims.UserID)
	response.Success(c, nil)
}
