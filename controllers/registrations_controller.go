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

// ListRegistrations returns all registrations with the attendee
// expanded to name and email. Serves both the registrations collection
// and the per-event listing; neither scopes to the caller or filters by
// event id, matching the behavior this API has always had.
func ListRegistrations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		cursor, err := cfg.Collection("registrations").Find(ctx, bson.M{})
		if err != nil {
			log.Error().Err(err).Msg("list registrations failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		var registrations []models.Registration
		if err := cursor.All(ctx, &registrations); err != nil {
			log.Error().Err(err).Msg("decode registrations failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		attendeeIDs := make([]primitive.ObjectID, 0, len(registrations))
		for _, reg := range registrations {
			attendeeIDs = append(attendeeIDs, reg.Attendee)
		}
		attendees, err := usersByID(ctx, cfg, attendeeIDs)
		if err != nil {
			log.Error().Err(err).Msg("expand attendees failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		populated := make([]models.PopulatedRegistration, 0, len(registrations))
		for _, reg := range registrations {
			populated = append(populated, reg.Populate(attendees[reg.Attendee]))
		}
		c.JSON(http.StatusOK, populated)
	}
}

// GetRegistration returns a registration by id.
func GetRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var registration models.Registration
		err = cfg.Collection("registrations").FindOne(ctx, bson.M{"_id": id}).Decode(&registration)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
				return
			}
			log.Error().Err(err).Msg("get registration failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, registration)
	}
}

// CreateRegistration inserts a registration from the request body. The
// unique (event, attendee) index rejects duplicates.
func CreateRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Event    string                    `json:"event" binding:"required"`
			Attendee string                    `json:"attendee" binding:"required"`
			Status   models.RegistrationStatus `json:"status"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err, map[string]string{
				"Event":    "Event is required",
				"Attendee": "Attendee is required",
			})})
			return
		}

		eventID, err := primitive.ObjectIDFromHex(input.Event)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid event id", "param": "event"}}})
			return
		}
		attendeeID, err := primitive.ObjectIDFromHex(input.Attendee)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid attendee id", "param": "attendee"}}})
			return
		}

		status := input.Status
		if status == "" {
			status = models.RegistrationConfirmed
		}
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid status", "param": "status"}}})
			return
		}

		now := time.Now()
		registration := models.Registration{
			Event:     eventID,
			Attendee:  attendeeID,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		result, err := cfg.Collection("registrations").InsertOne(ctx, registration)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Already registered for this event"})
				return
			}
			log.Error().Err(err).Msg("create registration failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		registration.ID = result.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, registration)
	}
}

// UpdateRegistration changes a registration's status.
func UpdateRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
			return
		}

		var input struct {
			Status models.RegistrationStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Status is required", "param": "status"}}})
			return
		}
		if !input.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid status", "param": "status"}}})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		after := options.After
		var updated models.Registration
		err = cfg.Collection("registrations").FindOneAndUpdate(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": input.Status, "updatedAt": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
				return
			}
			log.Error().Err(err).Msg("update registration failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DeleteRegistration removes a registration by id.
func DeleteRegistration(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Registration not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		if _, err := cfg.Collection("registrations").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
			log.Error().Err(err).Msg("delete registration failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Registration deleted"})
	}
}
