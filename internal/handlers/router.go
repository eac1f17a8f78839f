package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/middleware"
	"hotel-booking/internal/services"
)

// RouterDeps is everything the HTTP layer needs.
type RouterDeps struct {
	Log           *logger.Logger
	Bookings      *services.BookingService
	Payments      *services.PaymentService
	Rooms         *services.RoomService
	Reviews       *services.ReviewService
	Users         *services.UserService
	JWTSecret     string
	WebhookSecret string
	RateLimit     int
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	log := d.Log

	router := gin.New()
	router.Use(middleware.EnhancedLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders(log))
	router.Use(middleware.RateLimit(log, d.RateLimit))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   "hotel-booking",
			"version":   "1.0.0",
		})
	})

	bookingHandler := NewBookingHandler(d.Bookings, log)
	paymentHandler := NewPaymentHandler(d.Payments, log)
	stripeHandler := NewStripeHandler(d.Payments, d.WebhookSecret, log)
	roomHandler := NewRoomHandler(d.Rooms, log)
	reviewHandler := NewReviewHandler(d.Reviews, log)
	userHandler := NewUserHandler(d.Users, log)

	auth := middleware.JWTAuth(d.JWTSecret, log)
	member := []gin.HandlerFunc{auth, middleware.SyncUser(d.Users, log)}
	admin := []gin.HandlerFunc{auth, middleware.RequireRole("admin", log)}

	v1 := router.Group("/api/v1")
	{
		rooms := v1.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.POST("", append(admin, roomHandler.CreateRoom)...)
		}
		v1.POST("/hotels", append(admin, roomHandler.CreateHotel)...)

		v1.POST("/availability", bookingHandler.CheckAvailability)

		bookings := v1.Group("/bookings", member...)
		{
			bookings.GET("", bookingHandler.ListBookings)
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.DELETE("/:id", bookingHandler.CancelBooking)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/create-intent", append(member, paymentHandler.CreateIntent)...)
			payments.POST("/webhook", stripeHandler.HandleStripeWebhook)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", reviewHandler.ListReviews)
			reviews.POST("", append(member, reviewHandler.CreateReview)...)
			reviews.POST("/:id/vote", append(member, reviewHandler.Vote)...)
		}

		profile := v1.Group("/user/profile", member...)
		{
			profile.GET("", userHandler.GetProfile)
			profile.PUT("", userHandler.UpdateProfile)
		}
	}

	log.LogProcess("ROUTER", "All routes registered successfully")
	return router, nil
}
