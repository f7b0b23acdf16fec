package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/middleware"
	"github.com/eventease/eventease-api/models"
)

// InitializeUser seeds the default organizer account. The email unique
// index rejects a repeated call.
func InitializeUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("initialize user: hashing failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		now := time.Now()
		user := models.User{
			Name:        "Organizer",
			Email:       "organizer@gmail.com",
			Password:    string(hash),
			Role:        models.RoleOrganizer,
			Status:      models.StatusActive,
			SavedEvents: []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if _, err := cfg.Collection("users").InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
				return
			}
			log.Error().Err(err).Msg("initialize user failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User initialized successfully"})
	}
}

// ListUsers returns the full user directory.
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		cursor, err := cfg.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			log.Error().Err(err).Msg("list users failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			log.Error().Err(err).Msg("decode users failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		if len(users) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No users found"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// GetUser returns a user by id.
func GetUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		err = cfg.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			log.Error().Err(err).Msg("get user failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUser applies a generic field merge. Role and status values are
// checked against their closed enums, and a password supplied here is
// hashed like any other.
func UpdateUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid request body"}}})
			return
		}

		update, err := buildUserUpdate(fields, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": err.Error()}}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		result, err := cfg.Collection("users").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "User already exists"})
				return
			}
			log.Error().Err(err).Msg("update user failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
	}
}

// buildUserUpdate filters a raw field merge into a $set document,
// dropping immutable fields and validating enum values.
func buildUserUpdate(fields map[string]interface{}, now time.Time) (bson.M, error) {
	update := bson.M{"updatedAt": now}

	for key, value := range fields {
		switch key {
		case "_id", "createdAt", "updatedAt", "savedEvents":
			// immutable or server-owned
		case "role":
			role, _ := value.(string)
			if !models.Role(role).Valid() {
				return nil, errors.New("Invalid role")
			}
			update["role"] = models.Role(role)
		case "status":
			status, _ := value.(string)
			if !models.UserStatus(status).Valid() {
				return nil, errors.New("Invalid status")
			}
			update["status"] = models.UserStatus(status)
		case "password":
			plain, _ := value.(string)
			if len(plain) < 6 {
				return nil, errors.New("Please enter a password with 6 or more characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			update["password"] = string(hash)
		default:
			update[key] = value
		}
	}
	return update, nil
}

// DeleteUser removes a user by id.
func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		result, err := cfg.Collection("users").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Error().Err(err).Msg("delete user failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// UpdateUserStatus changes a user's moderation status, constrained to
// the closed set.
func UpdateUserStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		var input struct {
			Status models.UserStatus `json:"status" binding:"required,userstatus"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Status must be active, suspended or banned", "param": "status"}}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		after := options.After
		var updated models.User
		err = cfg.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": input.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			log.Error().Err(err).Msg("update user status failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// GetSavedEvents expands the caller's bookmark list to full event
// records.
func GetSavedEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		var user models.User
		err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user)
		if err != nil {
			log.Error().Err(err).Msg("saved events: user lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		events := []models.Event{}
		if len(user.SavedEvents) > 0 {
			cursor, err := cfg.Collection("events").Find(ctx, bson.M{"_id": bson.M{"$in": user.SavedEvents}})
			if err != nil {
				log.Error().Err(err).Msg("saved events: lookup failed")
				c.String(http.StatusInternalServerError, "Server Error")
				return
			}
			if err := cursor.All(ctx, &events); err != nil {
				log.Error().Err(err).Msg("saved events: decode failed")
				c.String(http.StatusInternalServerError, "Server Error")
				return
			}
		}

		c.JSON(http.StatusOK, events)
	}
}

// UpdateProfile lets the caller change their own display name.
func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Name is required", "param": "name"}}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		after := options.After
		var updated models.User
		err := cfg.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": caller.ID},
			bson.M{"$set": bson.M{"name": input.Name, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&updated)
		if err != nil {
			log.Error().Err(err).Msg("update profile failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
