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

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/models"
)

// Notification endpoints are persistence passthrough: no business
// logic, no caller scoping (see DESIGN.md).

// ListNotifications returns all notifications.
func ListNotifications(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		cursor, err := cfg.Collection("notifications").Find(ctx, bson.M{})
		if err != nil {
			log.Error().Err(err).Msg("list notifications failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		var notifications []models.Notification
		if err := cursor.All(ctx, &notifications); err != nil {
			log.Error().Err(err).Msg("decode notifications failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

// GetNotification returns a notification by id.
func GetNotification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var notification models.Notification
		err = cfg.Collection("notifications").FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
				return
			}
			log.Error().Err(err).Msg("get notification failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, notification)
	}
}

// CreateNotification inserts a notification from the request body.
func CreateNotification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			User    string                  `json:"user" binding:"required"`
			Event   string                  `json:"event"`
			Type    models.NotificationType `json:"type" binding:"required,notificationtype"`
			Message string                  `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err, map[string]string{
				"User":    "User is required",
				"Type":    "Type must be email or in-app",
				"Message": "Message is required",
			})})
			return
		}

		userID, err := primitive.ObjectIDFromHex(input.User)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid user id", "param": "user"}}})
			return
		}

		now := time.Now()
		notification := models.Notification{
			User:      userID,
			Type:      input.Type,
			Message:   input.Message,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if input.Event != "" {
			eventID, err := primitive.ObjectIDFromHex(input.Event)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid event id", "param": "event"}}})
				return
			}
			notification.Event = eventID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		result, err := cfg.Collection("notifications").InsertOne(ctx, notification)
		if err != nil {
			log.Error().Err(err).Msg("create notification failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		notification.ID = result.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, notification)
	}
}

// UpdateNotification applies a partial update (message and read flag).
func UpdateNotification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
			return
		}

		var input struct {
			Message *string `json:"message"`
			IsRead  *bool   `json:"isRead"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid request body"}}})
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if input.Message != nil && *input.Message != "" {
			update["message"] = *input.Message
		}
		if input.IsRead != nil {
			update["isRead"] = *input.IsRead
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		after := options.After
		var updated models.Notification
		err = cfg.Collection("notifications").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
				return
			}
			log.Error().Err(err).Msg("update notification failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DeleteNotification removes a notification by id.
func DeleteNotification(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if _, err := cfg.Collection("notifications").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Error().Err(err).Msg("delete notification failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
	}
}
