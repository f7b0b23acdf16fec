package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/eventease/eventease-api/config"
	"github.com/eventease/eventease-api/controllers"
	"github.com/eventease/eventease-api/middleware"
	"github.com/eventease/eventease-api/models"
)

// RegisterValidations installs the enum rules used by binding tags.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("userrole", models.ValidUserRole)
		v.RegisterValidation("userstatus", models.ValidUserStatus)
		v.RegisterValidation("notificationtype", models.ValidNotificationType)
	}
}

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	RegisterValidations()

	protect := middleware.Protect(cfg)
	organizer := middleware.Organizer()
	admin := middleware.Admin()

	// legacy server-rendered pages
	r.GET("/", controllers.Home())
	r.GET("/dashboard", middleware.IsAuthenticated(), controllers.Dashboard(cfg))

	auth := r.Group("/api/auth")
	{
		auth.GET("/register", controllers.ShowRegister())
		auth.POST("/register", controllers.Register(cfg))
		auth.GET("/login", controllers.ShowLogin())
		auth.POST("/login", controllers.Login(cfg))
		auth.GET("/logout", controllers.Logout())
		auth.GET("/me", protect, controllers.Me(cfg))
	}

	events := r.Group("/api/events")
	{
		events.GET("", controllers.ListEvents(cfg))
		events.POST("", protect, organizer, controllers.CreateEvent(cfg))
		events.GET("/:id", controllers.GetEvent(cfg))
		events.PUT("/:id", protect, organizer, controllers.UpdateEvent(cfg))
		events.DELETE("/:id", protect, organizer, controllers.DeleteEvent(cfg))
		events.POST("/:id/rsvp", protect, controllers.RsvpEvent(cfg))
		events.POST("/:id/notify", protect, organizer, controllers.NotifyAttendees(cfg))
		events.GET("/:id/registrations", protect, organizer, controllers.ListRegistrations(cfg))
		events.POST("/:id/save", protect, controllers.SaveEvent(cfg))
		events.DELETE("/:id/save", protect, controllers.UnsaveEvent(cfg))
	}

	registrations := r.Group("/api/registrations")
	registrations.Use(protect)
	{
		registrations.GET("", controllers.ListRegistrations(cfg))
		registrations.POST("", controllers.CreateRegistration(cfg))
		registrations.GET("/:id", controllers.GetRegistration(cfg))
		registrations.PUT("/:id", controllers.UpdateRegistration(cfg))
		registrations.DELETE("/:id", controllers.DeleteRegistration(cfg))
	}

	notifications := r.Group("/api/notifications")
	notifications.Use(protect)
	{
		notifications.GET("", controllers.ListNotifications(cfg))
		notifications.POST("", controllers.CreateNotification(cfg))
		notifications.GET("/:id", controllers.GetNotification(cfg))
		notifications.PUT("/:id", controllers.UpdateNotification(cfg))
		notifications.DELETE("/:id", controllers.DeleteNotification(cfg))
	}

	users := r.Group("/api/users")
	{
		users.GET("/initialize", controllers.InitializeUser(cfg))
		users.GET("/saved-events", protect, controllers.GetSavedEvents(cfg))
		users.PUT("/profile", protect, controllers.UpdateProfile(cfg))
		users.GET("", protect, admin, controllers.ListUsers(cfg))
		users.GET("/:id", protect, admin, controllers.GetUser(cfg))
		users.PUT("/:id", protect, admin, controllers.UpdateUser(cfg))
		users.DELETE("/:id", protect, admin, controllers.DeleteUser(cfg))
		users.PUT("/:id/status", protect, admin, controllers.UpdateUserStatus(cfg))
	}
}
