package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/availability"
	"hotel-booking/internal/logger"
	"hotel-booking/internal/middleware"
	"hotel-booking/internal/models"
	"hotel-booking/internal/services"
	"hotel-booking/internal/utils"
)

type BookingHandler struct {
	bookings *services.BookingService
	log      *logger.Logger
}

func NewBookingHandler(bookings *services.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, log: log}
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var req models.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	checkIn, checkOut, err := availability.ParseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		respondError(c, h.log, fmt.Errorf("%w: %v", services.ErrInvalidDateRange, err))
		return
	}

	result, err := h.bookings.CheckAvailability(c.Request.Context(), req.RoomID, checkIn, checkOut)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Availability checked", result))
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	checkIn, checkOut, err := availability.ParseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		respondError(c, h.log, fmt.Errorf("%w: %v", services.ErrInvalidDateRange, err))
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), models.BookingInput{
		UserID:   id.UserID,
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Booking created", booking))
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Bookings retrieved", bookings))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	booking, err := h.bookings.GetBooking(c.Request.Context(), c.Param("id"), id.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Booking retrieved", booking))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	booking, err := h.bookings.CancelBooking(c.Request.Context(), c.Param("id"), id.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Booking cancelled", booking))
}
