package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/availability"
	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/storage"
	"hotel-booking/internal/utils"
)

// IntentCanceller voids an open intent so it can no longer be charged.
type IntentCanceller interface {
	CancelPaymentIntent(ctx context.Context, providerPaymentID string) error
}

// PaymentProvider opens and cancels payment intents with the hosted processor.
type PaymentProvider interface {
	IntentCanceller
	CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.ProviderIntent, error)
}

// BookingNotifier is told about bookings that just became CONFIRMED.
type BookingNotifier interface {
	BookingConfirmed(ctx context.Context, booking *models.Booking, user *models.User) error
}

type PaymentService struct {
	store    storage.Store
	provider PaymentProvider
	locker   KeyLocker
	events   EventPublisher
	notifier BookingNotifier
	log      *logger.Logger
	currency string
	now      func() time.Time
}

func NewPaymentService(store storage.Store, provider PaymentProvider, locker KeyLocker, events EventPublisher, log *logger.Logger, currency string) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		store:    store,
		provider: provider,
		locker:   locker,
		events:   events,
		log:      log,
		currency: currency,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNotifier sets the confirmation notifier.
func (s *PaymentService) WithNotifier(n BookingNotifier) *PaymentService {
	s.notifier = n
	return s
}

// CreatePaymentIntent opens at most one live intent per booking. Repeated
// calls hand back the existing client secret until the payment succeeds.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, bookingID, userID string) (*models.PaymentIntentResult, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, err
	}
	if booking.UserID != userID {
		s.log.LogSecurity("PAYMENT_ACCESS", fmt.Sprintf("User %s tried to pay for booking %s", userID, bookingID))
		return nil, fmt.Errorf("%w: booking %s", ErrForbidden, bookingID)
	}
	if !booking.Status.IsActive() {
		return nil, fmt.Errorf("%w: booking %s is %s", ErrInvalidTransition, bookingID, booking.Status)
	}

	unlock, err := s.locker.Lock(ctx, paymentLockKey(bookingID))
	if err != nil {
		return nil, fmt.Errorf("%w: booking %s: %w", ErrLockUnavailable, bookingID, err)
	}
	defer unlock()

	existing, err := s.store.GetPaymentByBooking(ctx, bookingID)
	switch {
	case err == nil && existing.Status == models.PaymentSucceeded:
		return nil, fmt.Errorf("%w: booking %s", ErrAlreadyPaid, bookingID)
	case err == nil && existing.Status.Reusable() && existing.ClientSecret != "":
		s.log.LogPayment("REUSE", existing.ID, "Returning existing payment intent for booking "+bookingID)
		return &models.PaymentIntentResult{ClientSecret: existing.ClientSecret, PaymentID: existing.ID}, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	roomName := ""
	if booking.Room != nil {
		roomName = booking.Room.Name
	}
	intent, err := s.provider.CreatePaymentIntent(ctx, models.PaymentIntentRequest{
		AmountMinor: availability.ToMinorUnits(booking.TotalPrice),
		Currency:    s.currency,
		Metadata: map[string]string{
			"bookingId": booking.ID,
			"userId":    booking.UserID,
			"roomName":  roomName,
		},
	})
	if err != nil {
		s.log.Error("PAYMENT", fmt.Sprintf("Provider rejected intent for booking %s: %v", bookingID, err))
		return nil, fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	now := s.now()
	payment := &models.Payment{
		ID:                utils.GenerateUUID(),
		BookingID:         booking.ID,
		Amount:            booking.TotalPrice,
		Currency:          s.currency,
		Status:            models.PaymentPending,
		ProviderPaymentID: intent.ID,
		ClientSecret:      intent.ClientSecret,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.UpsertPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	s.log.LogPayment("CREATE", payment.ID, fmt.Sprintf("Intent %s opened for booking %s (%.2f %s)", intent.ID, bookingID, payment.Amount, payment.Currency))

	return &models.PaymentIntentResult{ClientSecret: payment.ClientSecret, PaymentID: payment.ID}, nil
}

// OnPaymentEvent applies an authenticated provider notification. Deliveries
// may repeat or arrive out of order: unknown intents and event types are
// ignored, statuses only move along allowed transitions, and confirmation
// side effects run only for the delivery that confirmed the booking.
func (s *PaymentService) OnPaymentEvent(ctx context.Context, eventType, providerPaymentID string) error {
	switch eventType {
	case models.EventPaymentSucceeded, models.EventPaymentFailed, models.EventPaymentProcessing:
	default:
		s.log.Debug("PAYMENT", fmt.Sprintf("Ignoring provider event %s for %s", eventType, providerPaymentID))
		return nil
	}

	payment, err := s.store.GetPaymentByProviderID(ctx, providerPaymentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("PAYMENT", fmt.Sprintf("No payment for provider id %s, ignoring %s", providerPaymentID, eventType))
			return nil
		}
		return fmt.Errorf("failed to load payment %s: %w", providerPaymentID, err)
	}

	switch eventType {
	case models.EventPaymentSucceeded:
		return s.applySucceeded(ctx, payment)
	case models.EventPaymentFailed:
		return s.applyStatus(ctx, payment, models.PaymentFailed)
	default:
		return s.applyStatus(ctx, payment, models.PaymentProcessing)
	}
}

func (s *PaymentService) applySucceeded(ctx context.Context, payment *models.Payment) error {
	if payment.Status == models.PaymentRefunded {
		s.log.Warn("PAYMENT", fmt.Sprintf("Payment %s already refunded, ignoring success", payment.ID))
		return nil
	}

	confirmed, err := s.store.ConfirmBookingPayment(ctx, payment.ID, payment.BookingID)
	if err != nil {
		return fmt.Errorf("failed to confirm booking %s: %w", payment.BookingID, err)
	}
	if !confirmed {
		s.log.LogPayment("NOOP", payment.ID, "Booking "+payment.BookingID+" was not pending, nothing to confirm")
		return nil
	}
	s.log.LogPayment("SUCCEEDED", payment.ID, "Booking "+payment.BookingID+" confirmed")

	booking, err := s.store.GetBooking(ctx, payment.BookingID)
	if err != nil {
		s.log.Error("PAYMENT", fmt.Sprintf("Confirmed booking %s but could not reload it: %v", payment.BookingID, err))
		return nil
	}
	s.publish(models.EventBookingConfirmed, booking, payment.ID)
	s.notifyConfirmed(ctx, booking)
	return nil
}

func (s *PaymentService) applyStatus(ctx context.Context, payment *models.Payment, next models.PaymentStatus) error {
	if !payment.Status.CanTransitionTo(next) {
		s.log.LogPayment("NOOP", payment.ID, fmt.Sprintf("Keeping %s, ignoring %s", payment.Status, next))
		return nil
	}
	moved, err := s.store.TransitionPaymentStatus(ctx, payment.ID, models.PaymentStatusesReaching(next), next)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.ID, err)
	}
	if !moved {
		return nil
	}
	s.log.LogPayment(string(next), payment.ID, "Payment status updated")

	if next == models.PaymentFailed {
		if booking, err := s.store.GetBooking(ctx, payment.BookingID); err == nil {
			s.publish(models.EventPaymentFailedBus, booking, payment.ID)
		}
	}
	return nil
}

func (s *PaymentService) notifyConfirmed(ctx context.Context, booking *models.Booking) {
	if s.notifier == nil {
		return
	}
	user, err := s.store.GetUser(ctx, booking.UserID)
	if err != nil {
		s.log.Warn("NOTIFY", fmt.Sprintf("No user %s for booking %s: %v", booking.UserID, booking.ID, err))
		return
	}
	if err := s.notifier.BookingConfirmed(ctx, booking, user); err != nil {
		s.log.Error("NOTIFY", fmt.Sprintf("Failed to send confirmation for booking %s: %v", booking.ID, err))
	}
}

func (s *PaymentService) publish(eventType string, booking *models.Booking, paymentID string) {
	if s.events == nil {
		return
	}
	event := models.NewBookingEvent(eventType, booking)
	event.PaymentID = paymentID
	if err := s.events.PublishBookingEvent(event); err != nil {
		s.log.Error("PAYMENT", fmt.Sprintf("Failed to publish %s for booking %s: %v", eventType, booking.ID, err))
	}
}
