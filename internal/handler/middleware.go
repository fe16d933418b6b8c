package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junggyoo/oh-my-stock/internal/auth"
)

const userIDKey = "userID"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth accepts the session cookie or an Authorization bearer token and
// stores the user id on the context.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "인증이 필요합니다."})
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "인증이 필요합니다."})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
