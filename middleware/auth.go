package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tringuyenminh209/Kizamu/models"
	"github.com/tringuyenminh209/Kizamu/utils"
	"gorm.io/gorm"
)

// AuthMiddleware resolves the bearer token to a user. Sets "uid" and "tokenID"
// in the context for handlers.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if bearer == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}

		id, plain, err := utils.SplitToken(bearer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}

		var token models.PersonalAccessToken
		if err := db.First(&token, id).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}
		if !utils.TokenMatches(token.Token, plain) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthenticated"})
			return
		}

		now := time.Now()
		db.Model(&token).Update("last_used_at", &now)

		c.Set("uid", token.UserID)
		c.Set("tokenID", token.ID)
		c.Next()
	}
}
