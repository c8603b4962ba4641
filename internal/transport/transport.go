package transport

import (
	"slices"
	"time"

	"github.com/ds124wfegd/tourbooker/internal/transport/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig параметры HTTP слоя
type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	JWTSecret      []byte
}

type Handlers struct {
	Customer *CustomerHandler
	Tour     *TourHandler
	Booking  *BookingHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
}

func InitRoutes(h Handlers, cfg RouterConfig) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(middleware.Logger())
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", h.Auth.Login)

		// Tour catalog
		api.GET("/tours", h.Tour.GetAllTours)
		api.GET("/tours/:code", h.Tour.GetTour)

		// Schedule routes
		schedules := api.Group("/schedules")
		{
			schedules.GET("", h.Tour.GetScheduledTours)
			schedules.GET("/:code", h.Tour.GetScheduledTour)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", h.Customer.RegisterCustomer)
			customers.GET("/:passport", h.Customer.GetCustomer)
			customers.GET("/:passport/bookings", h.Customer.GetCustomerBookings)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.Booking.CreateBooking)
			bookings.GET("", h.Booking.GetAllBookings)
			bookings.GET("/:id", h.Booking.GetBooking)
			bookings.GET("/:id/quote", h.Booking.QuoteCancellation)
			bookings.GET("/:id/receipt", h.Booking.GetReceipt)
			bookings.POST("/:id/seats", h.Booking.AddSeats)
			bookings.DELETE("/:id", h.Booking.CancelBooking)
		}

		// Admin routes
		admin := api.Group("/admin", middleware.JWTAuth(cfg.JWTSecret))
		{
			admin.POST("/tours", h.Tour.AddTour)
			admin.POST("/schedules", h.Tour.ScheduleTour)
			admin.PATCH("/schedules/:code/status", h.Tour.SetScheduleStatus)
			admin.DELETE("/schedules/:code", h.Tour.RemoveScheduledTour)
			admin.GET("/schedules/:code/bookings", h.Booking.GetScheduleBookings)
			admin.GET("/schedules/:code/stats", h.Tour.GetScheduleStats)
			admin.GET("/customers", h.Customer.GetAllCustomers)
			admin.GET("/stats", h.Tour.GetLedgerStats)

			admin.GET("/queue/stats", h.Admin.GetQueueStats)
			admin.GET("/queue/failed", h.Admin.GetFailedTasks)
			admin.POST("/queue/failed/:task_id/requeue", h.Admin.RequeueFailedTask)
			admin.DELETE("/queue/failed/:task_id", h.Admin.DeleteFailedTask)
		}
	}

	// Health check
	router.GET("/health", h.Admin.Health)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
