package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/taskmanager-pro/service-booking-api/internal/middleware"
	"github.com/taskmanager-pro/service-booking-api/internal/models"
	"github.com/taskmanager-pro/service-booking-api/internal/service"
)

// Handlers groups every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	Assignment   *AssignmentHandler
	Feedback     *FeedbackHandler
	Payment      *PaymentHandler
	Category     *CategoryHandler
	Task         *TaskHandler
	Dashboard    *DashboardHandler
	Report       *ReportHandler
}

// RegisterRoutes mounts the API under the given prefix with per-group RBAC.
func RegisterRoutes(r *gin.Engine, prefix string, authService *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register/customer", h.Auth.RegisterCustomer)
		auth.POST("/register/worker", h.Auth.RegisterWorker)
	}

	api.GET("/categories", h.Category.List)
	api.GET("/categories/:id", h.Category.Get)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	bookings := authed.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRoles(models.RoleCustomer), h.Booking.Create)
		bookings.GET("/mine", middleware.RequireRoles(models.RoleCustomer), h.Booking.ListMine)
		bookings.GET("/assigned", middleware.RequireRoles(models.RoleWorker), h.Booking.ListAssigned)
		bookings.GET("/:id", h.Booking.Get)
		bookings.PATCH("/:id/status", middleware.RequireRoles(models.RoleWorker), h.Booking.UpdateStatus)
		bookings.GET("/:id/payment", h.Payment.GetForBooking)
	}

	availability := authed.Group("/availability", middleware.RequireRoles(models.RoleWorker))
	{
		availability.GET("", h.Availability.Overview)
		availability.PUT("/schedule", h.Availability.SetupSchedule)
		availability.POST("/slots", h.Availability.AddSlot)
		availability.DELETE("/slots/:id", h.Availability.RemoveSlot)
		availability.POST("/unavailability", h.Availability.AddOverride)
		availability.DELETE("/unavailability/:id", h.Availability.RemoveOverride)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleCustomer), h.Task.Create)
		tasks.GET("", h.Task.List)
		tasks.GET("/:id", h.Task.Get)
		tasks.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleCustomer), h.Task.Update)
		tasks.PATCH("/:id/status", middleware.RequireRoles(models.RoleWorker), h.Task.UpdateStatus)
		tasks.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleCustomer), h.Task.Delete)
	}

	authed.POST("/feedback", middleware.RequireRoles(models.RoleCustomer), h.Feedback.Submit)
	authed.POST("/payments", middleware.RequireRoles(models.RoleCustomer), h.Payment.Record)

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/bookings", h.Booking.ListAll)
		admin.GET("/bookings/:id/candidates", h.Assignment.Candidates)
		admin.POST("/bookings/:id/assign", h.Assignment.Assign)
		admin.GET("/dashboard", h.Dashboard.Stats)
		admin.GET("/reports/bookings", h.Report.ExportBookings)
	}
}
