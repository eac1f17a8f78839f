package services

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	ErrStripeAPIError         = errors.New("stripe API error")
	ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")
)

// StripeService opens payment intents through the Stripe API.
type StripeService struct {
	client *client.API
	log    *logger.Logger
}

func NewStripeService(secretKey string, log *logger.Logger) (*StripeService, error) {
	if secretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY environment variable not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(secretKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeService{
		client: sc,
		log:    log,
	}, nil
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.ProviderIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Failed to create payment intent: %v", err))
		return nil, fmt.Errorf("%w: %s", ErrStripeAPIError, stripeMessage(err))
	}

	s.log.LogPayment("INTENT", pi.ID, fmt.Sprintf("Created intent for %d %s", req.AmountMinor, req.Currency))
	return &models.ProviderIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// CancelPaymentIntent voids an intent that was never paid. Stripe refuses
// intents that already succeeded or are processing.
func (s *StripeService) CancelPaymentIntent(ctx context.Context, providerPaymentID string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String("abandoned"),
	}
	params.Context = ctx

	if _, err := s.client.PaymentIntents.Cancel(providerPaymentID, params); err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Failed to cancel payment intent %s: %v", providerPaymentID, err))
		return fmt.Errorf("%w: %s", ErrStripeAPIError, stripeMessage(err))
	}

	s.log.LogPayment("CANCEL", providerPaymentID, "Cancelled abandoned intent")
	return nil
}

func stripeMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
