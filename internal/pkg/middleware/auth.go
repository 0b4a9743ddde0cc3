package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blog_social/internal/domain/user/model"
	"blog_social/internal/pkg/session"
	"blog_social/pkg/response"
	"blog_social/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证中间件
// 浏览器客户端走会话 cookie，API 客户端走 "Authorization: Bearer <token>"
func AuthMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 会话 cookie
		if token, err := c.Cookie(store.CookieName()); err == nil && token != "" {
			data, err := store.Get(c.Request.Context(), token)
			if err == nil {
				c.Set("userID", data.UserID)
				c.Set("role", data.Role)
				c.Next()
				return
			}
			if !errors.Is(err, session.ErrNotFound) {
				response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Session lookup failed")
				c.Abort()
				return
			}
		}

		// 2. Bearer token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrSessionInvalid, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, response.ErrSessionInvalid, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrSessionInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth 尝试识别用户但不强制登录
// 公开 feed 的 following 标签页需要知道访问者是谁
func OptionalAuth(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(store.CookieName()); err == nil && token != "" {
			if data, err := store.Get(c.Request.Context(), token); err == nil {
				c.Set("userID", data.UserID)
				c.Set("role", data.Role)
			}
		}
		c.Next()
	}
}

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok || roleInt != model.RoleAdmin {
			response.Forbidden(c, "Admin permission required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID 从上下文取当前用户 ID，0 表示未登录
func CurrentUserID(c *gin.Context) uint {
	if val, ok := c.Get("userID"); ok {
		if id, ok := val.(uint); ok {
			return id
		}
	}
	return 0
}

// IsAdmin 当前用户是否管理员
func IsAdmin(c *gin.Context) bool {
	if val, ok := c.Get("role"); ok {
		if role, ok := val.(int); ok {
			return role == model.RoleAdmin
		}
	}
	return false
}
