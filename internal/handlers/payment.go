package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/middleware"
	"hotel-booking/internal/models"
	"hotel-booking/internal/services"
	"hotel-booking/internal/utils"
)

type PaymentHandler struct {
	payments *services.PaymentService
	log      *logger.Logger
}

func NewPaymentHandler(payments *services.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// CreateIntent returns the client secret the browser needs to confirm the
// card payment with Stripe.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.payments.CreatePaymentIntent(c.Request.Context(), req.BookingID, id.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Payment intent ready", result))
}
