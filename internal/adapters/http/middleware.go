package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linkup/linkup-server/internal/domain"
)

const ctxUserID = "user_id"

// AuthRequired guards the REST surface with a bearer token. The
// signaling endpoint is deliberately not behind it: meeting guests
// join with a profile, not an account.
func (d *Deps) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}
		userID, err := d.Tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		c.Set(ctxUserID, string(userID))
		c.Next()
	}
}

func currentUserID(c *gin.Context) domain.UserID {
	return domain.UserID(c.GetString(ctxUserID))
}
