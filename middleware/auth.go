package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/docchat/docchat-be/types"
	"github.com/docchat/docchat-be/utils"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// AuthMiddleware verifies the bearer token and resolves the owning account;
// downstream handlers read the owner id from the gin context.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Status:  false,
				Message: "Authorization header is required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Status:  false,
				Message: "Authorization header format must be Bearer {token}",
			})
			return
		}

		claims, err := tokens.ParseAccessToken(parts[1])
		if err != nil {
			slog.Info("rejected token", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Status:  false,
				Message: "Invalid token",
			})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}
