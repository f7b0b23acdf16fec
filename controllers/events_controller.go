package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/middleware"
	"github.com/eventease/eventease-api/models"
	"github.com/eventease/eventease-api/utils"
)

var createEventMessages = map[string]string{
	"Title":       "Title is required",
	"Description": "Description is required",
	"DateTime":    "Date and time are required",
	"Location":    "Location is required",
	"Category":    "Category is required",
}

// ---------------- CREATE ----------------

// CreateEvent persists a new event owned by the calling organizer.
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		var input struct {
			Title       string  `json:"title" binding:"required"`
			Description string  `json:"description" binding:"required"`
			DateTime    string  `json:"dateTime" binding:"required"`
			Location    string  `json:"location" binding:"required"`
			Category    string  `json:"category" binding:"required"`
			TicketPrice float64 `json:"ticketPrice"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err, createEventMessages)})
			return
		}

		dateTime, err := parseDateTime(input.DateTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": err.Error(), "param": "dateTime"}}})
			return
		}

		now := time.Now()
		event := models.Event{
			Title:       input.Title,
			Description: input.Description,
			DateTime:    dateTime,
			Location:    input.Location,
			Organizer:   caller.ID,
			Category:    input.Category,
			TicketPrice: input.TicketPrice,
			Status:      models.EventActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		result, err := cfg.Collection("events").InsertOne(ctx, event)
		if err != nil {
			log.Error().Err(err).Msg("create event failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		event.ID = result.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------

// ListEvents returns all events with the organizer reference expanded
// to id, name and email.
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		cursor, err := cfg.Collection("events").Find(ctx, bson.M{})
		if err != nil {
			log.Error().Err(err).Msg("list events failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			log.Error().Err(err).Msg("decode events failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		organizers, err := usersByID(ctx, cfg, organizerIDs(events))
		if err != nil {
			log.Error().Err(err).Msg("expand organizers failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		populated := make([]models.PopulatedEvent, 0, len(events))
		for _, event := range events {
			populated = append(populated, event.Populate(organizers[event.Organizer]))
		}
		c.JSON(http.StatusOK, populated)
	}
}

// ---------------- GET ----------------

// GetEvent returns a single event by id, organizer expanded.
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var event models.Event
		err = cfg.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			log.Error().Err(err).Msg("get event failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		organizers, err := usersByID(ctx, cfg, []primitive.ObjectID{event.Organizer})
		if err != nil {
			log.Error().Err(err).Msg("expand organizer failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, event.Populate(organizers[event.Organizer]))
	}
}

// ---------------- UPDATE ----------------

type eventUpdateInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	DateTime    *string  `json:"dateTime"`
	Location    *string  `json:"location"`
	Category    *string  `json:"category"`
	TicketPrice *float64 `json:"ticketPrice"`
}

// buildEventUpdate turns the supplied fields into a $set document.
// Absent or empty strings keep the stored value; ticketPrice is
// null-aware so an explicit 0 is preserved.
func buildEventUpdate(input eventUpdateInput, now time.Time) (bson.M, error) {
	update := bson.M{"updatedAt": now}

	if input.Title != nil && *input.Title != "" {
		update["title"] = *input.Title
	}
	if input.Description != nil && *input.Description != "" {
		update["description"] = *input.Description
	}
	if input.DateTime != nil && *input.DateTime != "" {
		parsed, err := parseDateTime(*input.DateTime)
		if err != nil {
			return nil, err
		}
		update["dateTime"] = parsed
	}
	if input.Location != nil && *input.Location != "" {
		update["location"] = *input.Location
	}
	if input.Category != nil && *input.Category != "" {
		update["category"] = *input.Category
	}
	if input.TicketPrice != nil {
		update["ticketPrice"] = *input.TicketPrice
	}
	return update, nil
}

// UpdateEvent applies a partial update. Only the event's organizer or
// an Admin may change it.
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		var input eventUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid request body"}}})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			log.Error().Err(err).Msg("update event: lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		if caller.Role != models.RoleAdmin && event.Organizer != caller.ID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}

		update, err := buildEventUpdate(input, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": err.Error(), "param": "dateTime"}}})
			return
		}

		after := options.After
		var updated models.Event
		err = col.FindOneAndUpdate(ctx,
			bson.M{"_id": eventID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(after),
		).Decode(&updated)
		if err != nil {
			log.Error().Err(err).Msg("update event failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------

// DeleteEvent removes an event under the same ownership rule as update.
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		col := cfg.Collection("events")
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var event models.Event
		if err := col.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			log.Error().Err(err).Msg("delete event: lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		if caller.Role != models.RoleAdmin && event.Organizer != caller.ID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": eventID}); err != nil {
			log.Error().Err(err).Msg("delete event failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Event removed"})
	}
}

// ---------------- RSVP ----------------

// RsvpEvent registers the caller for an event. The unique index on
// (event, attendee) makes the duplicate check atomic with the insert.
func RsvpEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		err = cfg.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Err()
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			log.Error().Err(err).Msg("rsvp: event lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		now := time.Now()
		registration := models.Registration{
			Event:     eventID,
			Attendee:  caller.ID,
			Status:    models.RegistrationConfirmed,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := cfg.Collection("registrations").InsertOne(ctx, registration); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Already registered for this event"})
				return
			}
			log.Error().Err(err).Msg("rsvp: insert failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "RSVP successful"})
	}
}

// ---------------- NOTIFY ----------------

var notifyMessages = map[string]string{
	"Message": "Message is required",
}

// notificationMessage frames the organizer's message the way attendees
// see it in their notification feed.
func notificationMessage(eventTitle, message string) string {
	return fmt.Sprintf("A message from the organizer of \"%s\": %s", eventTitle, message)
}

func notificationSubject(eventTitle string) string {
	return "Update for event: " + eventTitle
}

// NotifyAttendees writes one in-app notification per registered
// attendee and, when mail is configured, emails the full recipient
// list. The batch either completes or the request fails; notifications
// already written are not rolled back.
func NotifyAttendees(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		var input struct {
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err, notifyMessages)})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		var event models.Event
		err = cfg.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			log.Error().Err(err).Msg("notify: event lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		// Only the event's own organizer may notify, not an Admin.
		if event.Organizer != caller.ID {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authorized"})
			return
		}

		cursor, err := cfg.Collection("registrations").Find(ctx, bson.M{"event": eventID})
		if err != nil {
			log.Error().Err(err).Msg("notify: registrations lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		var registrations []models.Registration
		if err := cursor.All(ctx, &registrations); err != nil {
			log.Error().Err(err).Msg("notify: decode registrations failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		if len(registrations) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No attendees have registered for this event yet."})
			return
		}

		attendeeIDs := make([]primitive.ObjectID, 0, len(registrations))
		for _, reg := range registrations {
			attendeeIDs = append(attendeeIDs, reg.Attendee)
		}
		attendees, err := usersByID(ctx, cfg, attendeeIDs)
		if err != nil {
			log.Error().Err(err).Msg("notify: attendee lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		message := notificationMessage(event.Title, input.Message)
		now := time.Now()
		recipients := make([]string, 0, len(registrations))

		notifCol := cfg.Collection("notifications")
		for _, reg := range registrations {
			notification := models.Notification{
				User:      reg.Attendee,
				Event:     eventID,
				Type:      models.NotificationInApp,
				Message:   message,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := notifCol.InsertOne(ctx, notification); err != nil {
				log.Error().Err(err).Msg("notify: notification insert failed")
				c.String(http.StatusInternalServerError, "Server Error")
				return
			}
			if attendee := attendees[reg.Attendee]; attendee != nil {
				recipients = append(recipients, attendee.Email)
			}
		}

		if err := utils.SendEmail(cfg.Email, recipients, notificationSubject(event.Title), input.Message); err != nil {
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Notifications sent successfully to all attendees."})
	}
}

// ---------------- SAVE / UNSAVE ----------------

// SaveEvent appends the event to the caller's bookmark list, refusing
// duplicates.
func SaveEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		err = cfg.Collection("events").FindOne(ctx, bson.M{"_id": eventID}).Err()
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
				return
			}
			log.Error().Err(err).Msg("save event: lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		users := cfg.Collection("users")

		var user models.User
		if err := users.FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
			log.Error().Err(err).Msg("save event: user lookup failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		for _, saved := range user.SavedEvents {
			if saved == eventID {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Event already saved"})
				return
			}
		}

		_, err = users.UpdateOne(ctx,
			bson.M{"_id": caller.ID},
			bson.M{
				"$addToSet": bson.M{"savedEvents": eventID},
				"$set":      bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			log.Error().Err(err).Msg("save event failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Event saved successfully"})
	}
}

// UnsaveEvent removes the event from the caller's bookmark list.
// Removing an id that is not present succeeds; the operation is
// idempotent.
func UnsaveEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _ := middleware.CurrentUser(c)

		eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		_, err = cfg.Collection("users").UpdateOne(ctx,
			bson.M{"_id": caller.ID},
			bson.M{
				"$pull": bson.M{"savedEvents": eventID},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			log.Error().Err(err).Msg("unsave event failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Event unsaved successfully"})
	}
}

// ---------------- helpers ----------------

func organizerIDs(events []models.Event) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(events))
	ids := make([]primitive.ObjectID, 0, len(events))
	for _, event := range events {
		if _, ok := seen[event.Organizer]; ok {
			continue
		}
		seen[event.Organizer] = struct{}{}
		ids = append(ids, event.Organizer)
	}
	return ids
}

// usersByID batch-fetches user records for reference expansion.
func usersByID(ctx context.Context, cfg *config.Config, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := cfg.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
		out[users[i].ID] = &users[i]
	}
	return out, nil
}
