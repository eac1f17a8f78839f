package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/services"
	"hotel-booking/internal/utils"
)

const maxWebhookBody = 65536

type StripeHandler struct {
	payments      *services.PaymentService
	webhookSecret string
	log           *logger.Logger
}

func NewStripeHandler(payments *services.PaymentService, webhookSecret string, log *logger.Logger) *StripeHandler {
	return &StripeHandler{payments: payments, webhookSecret: webhookSecret, log: log}
}

// HandleStripeWebhook verifies the Stripe-Signature header against the raw
// body before anything is parsed. Event types we do not track are
// acknowledged so Stripe stops retrying them.
func (h *StripeHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Failed to read request body", err.Error()))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		h.log.LogSecurity("WEBHOOK_UNSIGNED", "Webhook without Stripe-Signature from "+c.ClientIP())
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Missing signature", ""))
		return
	}

	event, err := webhook.ConstructEventWithOptions(body, signature, h.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		h.log.LogSecurity("WEBHOOK_SIGNATURE", fmt.Sprintf("Rejected webhook from %s: %v", c.ClientIP(), err))
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid signature", ""))
		return
	}

	eventType := models.NormalizeStripeEventType(string(event.Type))
	switch eventType {
	case models.EventPaymentSucceeded, models.EventPaymentFailed, models.EventPaymentProcessing:
	default:
		h.log.Debug("WEBHOOK", "Ignoring Stripe event "+string(event.Type))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil || intent.ID == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Malformed payment intent", ""))
		return
	}

	if err := h.payments.OnPaymentEvent(c.Request.Context(), eventType, intent.ID); err != nil {
		h.log.Error("WEBHOOK", fmt.Sprintf("Failed to apply %s for %s: %v", event.Type, intent.ID, err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Webhook processing failed", ""))
		return
	}

	h.log.LogPayment("WEBHOOK", intent.ID, "Applied "+string(event.Type))
	c.JSON(http.StatusOK, gin.H{"received": true})
}
