package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloggerz/internal/auth"
)

// AuthMiddleware 验证 token cookie 是否有效
// The session travels in a cookie named "token"; any verification failure
// is a uniform 401 so handlers never see an unauthenticated request.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("token")
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 将用户信息写入上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
