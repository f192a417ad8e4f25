package middleware

import (
	"net/http"
	"strings"

	"github.com/esticore/auth-api/internal/api/dto"
	"github.com/esticore/auth-api/internal/auth"
	"github.com/esticore/auth-api/internal/models"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key under which RequireAuth stores the
// authenticated user's ID.
const UserIDKey = "user_id"

// RequireAuth validates the Bearer access token and stores the token's user
// ID in the request context. Requests without a valid token are rejected
// with 401 before reaching the handler.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		userID, err := auth.ValidateJWT(token, jwtSecret)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   models.ErrCodeUnauthorized,
		Message: message,
	})
}
