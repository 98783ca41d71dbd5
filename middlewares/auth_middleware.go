package middlewares

import (
	"net/http"
	"strings"

	"healthtrack/models"
	"healthtrack/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware accepts a Bearer JWT and sets "userID" and "email" on the
// context. Tokens without a userId claim are resolved by email.
func AuthMiddleware(secret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: JWT_SECRET not set"})
			return
		}

		userID, email, err := utils.ParseJWT(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if userID == 0 {
			var user models.User
			if err := db.WithContext(c.Request.Context()).
				Where("email = ? AND disabled = ?", email, false).
				First(&user).Error; err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
			userID = user.ID
		}

		c.Set("userID", userID)
		c.Set("email", email)
		c.Next()
	}
}

// bearerToken reads the Authorization header, or the token query parameter
// for websocket clients that cannot set headers.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if h == "" && websocketUpgrade(c) {
		return c.Query("token")
	}
	return ""
}

func websocketUpgrade(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}
