package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/service"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

const userIDKey = "auth.user_id"

// Auth 校验 Bearer 访问令牌并把用户标识放入请求上下文。
// 身份由令牌层给出，业务处理器无条件信任。
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "authorization required")
			c.Abort()
			return
		}

		userID, err := auth.ParseAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID 取当前请求的认证用户
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
