package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/middleware"
	"github.com/eventease/eventease-api/models"
)

// Server-rendered pages on the cookie-session path. This is the legacy
// surface; the single-page client talks to the JSON API only.

// ShowRegister renders the registration form.
func ShowRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "register.html", nil)
	}
}

// ShowLogin renders the login form.
func ShowLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", nil)
	}
}

// Logout destroys the cookie session and returns to the login form.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := middleware.ClearSession(c); err != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/api/auth/login")
	}
}

// Dashboard renders all events for the session user.
func Dashboard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionUser, _ := middleware.SessionUserFrom(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbListTimeout)
		defer cancel()

		cursor, err := cfg.Collection("events").Find(ctx, bson.M{})
		if err != nil {
			log.Error().Err(err).Msg("dashboard: list events failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		var events []models.Event
		if err := cursor.All(ctx, &events); err != nil {
			log.Error().Err(err).Msg("dashboard: decode events failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}

		organizers, err := usersByID(ctx, cfg, organizerIDs(events))
		if err != nil {
			log.Error().Err(err).Msg("dashboard: expand organizers failed")
			c.String(http.StatusInternalServerError, "Server Error")
			return
		}
		populated := make([]models.PopulatedEvent, 0, len(events))
		for _, event := range events {
			populated = append(populated, event.Populate(organizers[event.Organizer]))
		}

		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"User":   sessionUser,
			"Events": populated,
		})
	}
}

// Home redirects the bare root to the events listing.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/events")
	}
}
