package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/models"
	"github.com/eventease/eventease-api/utils"
)

const userContextKey = "currentUser"

// Protect verifies the bearer token and attaches the caller's user
// record (password excluded) to the request context. Everything behind
// it can assume CurrentUser succeeds.
func Protect(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.TokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		userID, err := utils.VerifyToken(cfg.JWTSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = cfg.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.Hex()).Msg("token resolved to unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}
		user.Password = ""

		c.Set(userContextKey, user)
		c.Next()
	}
}

// Organizer allows Organizer and Admin roles. Must run after Protect.
func Organizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.Role.CanManageEvents() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, you are not an organizer"})
			return
		}
		c.Next()
	}
}

// Admin allows exactly the Admin role. Must run after Protect.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, you are not an admin"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user record attached by Protect.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// SetCurrentUser attaches a user record to the context. Used by tests
// to exercise guards without a live token path.
func SetCurrentUser(c *gin.Context, user models.User) {
	c.Set(userContextKey, user)
}
