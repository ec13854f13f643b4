package middleware

import (
	"errors"
	"net/http"
	"strings"

	"vidstream/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxEmail    = "email"
)

// AuthMiddleware creates a Gin middleware authenticating requests via the
// access token, taken from the Authorization header or the accessToken
// cookie.
func AuthMiddleware(tokens *service.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authorization required",
			})
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				message = "token expired"
			}
			logger.Debug("Rejected access token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxEmail, claims.Email)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie("accessToken")
	if err != nil {
		return ""
	}
	return cookie
}
