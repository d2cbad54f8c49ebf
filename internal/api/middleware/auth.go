package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/pkg/response"
)

const userIDKey = "auth.user_id"

// Auth 校验 Bearer token 并注入用户ID
func Auth(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// UserID 读取已认证用户ID（仅在 Auth 之后的 handler 使用）
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
