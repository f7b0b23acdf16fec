package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/middleware"
	"github.com/eventease/eventease-api/models"
	"github.com/eventease/eventease-api/utils"
)

var registerMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Please include a valid email",
	"Password": "Please enter a password with 6 or more characters",
	"Role":     "Invalid role",
}

var loginMessages = map[string]string{
	"Email":    "Please include a valid email",
	"Password": "Password is required",
}

type authResponse struct {
	ID    string      `json:"_id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

// Register creates a new user account and returns a signed bearer
// token. Duplicate emails conflict; the plaintext password is hashed
// before it ever reaches the database.
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name     string      `json:"name" form:"name" binding:"required"`
			Email    string      `json:"email" form:"email" binding:"required,email"`
			Password string      `json:"password" form:"password" binding:"required,min=6"`
			Role     models.Role `json:"role" form:"role" binding:"omitempty,userrole"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err, registerMessages)})
			return
		}

		email := strings.ToLower(input.Email)
		role := input.Role
		if role == "" {
			role = models.RoleAttendee
		}

		col := cfg.Collection("users")
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		err := col.FindOne(ctx, bson.M{"email": email}).Err()
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
			return
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Error().Err(err).Msg("register: user lookup failed")
			c.String(http.StatusInternalServerError, "Server error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("register: password hashing failed")
			c.String(http.StatusInternalServerError, "Server error")
			return
		}

		now := time.Now()
		user := models.User{
			Name:        input.Name,
			Email:       email,
			Password:    string(hash),
			Role:        role,
			Status:      models.StatusActive,
			SavedEvents: []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := col.InsertOne(ctx, user)
		if err != nil {
			// The unique index catches the race the pre-check cannot.
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
				return
			}
			log.Error().Err(err).Msg("register: insert failed")
			c.String(http.StatusInternalServerError, "Server error")
			return
		}
		user.ID = result.InsertedID.(primitive.ObjectID)

		token, err := utils.GenerateToken(cfg.JWTSecret, user.ID)
		if err != nil {
			log.Error().Err(err).Msg("register: token generation failed")
			c.String(http.StatusInternalServerError, "Server error")
			return
		}

		c.JSON(http.StatusCreated, authResponse{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
			Token: token,
		})
	}
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords produce the same response so callers cannot enumerate
// accounts.
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" form:"email" binding:"required,email"`
			Password string `json:"password" form:"password" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err, loginMessages)})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		err := cfg.Collection("users").FindOne(ctx, bson.M{"email": strings.ToLower(input.Email)}).Decode(&user)
		if err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				log.Error().Err(err).Msg("login: user lookup failed")
				c.String(http.StatusInternalServerError, "Server error")
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(cfg.JWTSecret, user.ID)
		if err != nil {
			log.Error().Err(err).Msg("login: token generation failed")
			c.String(http.StatusInternalServerError, "Server error")
			return
		}

		// Keep the legacy dashboard reachable for browser logins.
		if err := middleware.SaveSessionUser(c, user); err != nil {
			log.Warn().Err(err).Msg("login: session save failed")
		}

		c.JSON(http.StatusOK, authResponse{
			ID:    user.ID.Hex(),
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
			Token: token,
		})
	}
}

// Me returns the calling user's profile, as resolved by Protect.
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
