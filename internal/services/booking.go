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

// EventPublisher delivers booking events to the broker. Implemented by the
// Kafka producer and the RabbitMQ publisher.
type EventPublisher interface {
	PublishBookingEvent(event *models.BookingEvent) error
}

type BookingService struct {
	store   storage.Store
	locker  KeyLocker
	events  EventPublisher
	intents IntentCanceller
	log     *logger.Logger
	now     func() time.Time
}

func NewBookingService(store storage.Store, locker KeyLocker, events EventPublisher, log *logger.Logger) *BookingService {
	return &BookingService{
		store:  store,
		locker: locker,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithIntentCanceller lets the expiry sweep void the open intent of a booking
// before releasing its dates. Without one, bookings holding an intent are
// never expired.
func (s *BookingService) WithIntentCanceller(c IntentCanceller) *BookingService {
	s.intents = c
	return s
}

// HasConflict reports whether any PENDING or CONFIRMED booking of the room
// overlaps [checkIn, checkOut).
func (s *BookingService) HasConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	n, err := s.countConflicts(ctx, roomID, checkIn, checkOut)
	return n > 0, err
}

func (s *BookingService) countConflicts(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error) {
	ranges, err := s.store.FindBookingsForRoom(ctx, roomID, models.ActiveBookingStatuses)
	if err != nil {
		return 0, fmt.Errorf("failed to load bookings for room %s: %w", roomID, err)
	}
	return availability.CountOverlaps(ranges, checkIn, checkOut), nil
}

// CheckAvailability reports whether the room is free for the range and how
// many active bookings overlap it.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error) {
	if err := availability.ValidateRange(checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	n, err := s.countConflicts(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return &models.AvailabilityResult{Available: n == 0, ConflictingBookings: n}, nil
}

// CreateBooking validates the request, then inserts a PENDING booking while
// holding the room lock. The store re-checks overlap on insert, so a race
// that slips past the lock still ends in ErrConflict.
func (s *BookingService) CreateBooking(ctx context.Context, in models.BookingInput) (*models.Booking, error) {
	if err := availability.ValidateRange(in.CheckIn, in.CheckOut); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}

	room, err := s.getRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	if in.Guests < 1 {
		return nil, fmt.Errorf("%w: at least one guest is required", ErrInvalidInput)
	}
	if in.Guests > room.Capacity {
		return nil, fmt.Errorf("%w: room %s holds %d guests, requested %d", ErrCapacityExceeded, room.ID, room.Capacity, in.Guests)
	}
	if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, in.UserID)
		}
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, roomLockKey(room.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: room %s: %w", ErrLockUnavailable, room.ID, err)
	}
	defer unlock()

	conflict, err := s.HasConflict(ctx, room.ID, in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("%w: room %s is not available for the selected dates", ErrConflict, room.ID)
	}

	now := s.now()
	nights := availability.Nights(in.CheckIn, in.CheckOut)
	booking := &models.Booking{
		ID:         utils.GenerateUUID(),
		Reference:  utils.GenerateReference(),
		UserID:     in.UserID,
		RoomID:     room.ID,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		Guests:     in.Guests,
		TotalPrice: availability.TotalPrice(room.Price, nights),
		Status:     models.BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.InsertBooking(ctx, booking); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: room %s is not available for the selected dates", ErrConflict, room.ID)
		}
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	s.log.LogBooking("CREATE", booking.ID, fmt.Sprintf("Room %s booked for %d night(s), total %.2f", room.ID, nights, booking.TotalPrice))
	s.publish(models.EventBookingCreated, booking)

	booking.Room = room
	return booking, nil
}

// GetBooking returns the booking if it belongs to userID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, err
	}
	if booking.UserID != userID {
		s.log.LogSecurity("BOOKING_ACCESS", fmt.Sprintf("User %s denied access to booking %s", userID, bookingID))
		return nil, fmt.Errorf("%w: booking %s", ErrForbidden, bookingID)
	}
	return booking, nil
}

// ListUserBookings returns the user's bookings, newest first.
func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	return s.store.ListBookingsByUser(ctx, userID)
}

// CancelBooking moves an owned PENDING or CONFIRMED booking to CANCELLED.
// Cancelling an already cancelled booking succeeds without side effects.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case booking.Status == models.BookingCancelled:
		return booking, nil
	case !booking.Status.CanTransitionTo(models.BookingCancelled):
		return nil, fmt.Errorf("%w: booking %s is %s", ErrInvalidTransition, bookingID, booking.Status)
	}

	moved, err := s.store.TransitionBookingStatus(ctx, bookingID, models.ActiveBookingStatuses, models.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !moved {
		// Lost a race with another writer; report whatever state won.
		return s.GetBooking(ctx, bookingID, userID)
	}

	booking.Status = models.BookingCancelled
	s.log.LogBooking("CANCEL", booking.ID, "Booking cancelled by owner")
	s.publish(models.EventBookingCancelled, booking)
	return booking, nil
}

// ExpirePendingBookings cancels PENDING bookings created before now-ttl.
// Bookings whose payment is processing or paid are kept. An open intent is
// cancelled with the provider first so a late charge cannot land on a
// booking whose dates were released.
func (s *BookingService) ExpirePendingBookings(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	stale, err := s.store.ListPendingBookingsBefore(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to list pending bookings: %w", err)
	}

	expired := 0
	for _, booking := range stale {
		ok, err := s.expireBooking(ctx, booking)
		if err != nil {
			s.log.Error("BOOKING", fmt.Sprintf("Failed to expire booking %s: %v", booking.ID, err))
			continue
		}
		if !ok {
			continue
		}
		booking.Status = models.BookingCancelled
		expired++
		s.log.LogBooking("EXPIRE", booking.ID, "Pending booking expired")
		s.publish(models.EventBookingExpired, booking)
	}
	return expired, nil
}

// expireBooking holds the payment lock so no new intent is opened while the
// current one is being voided.
func (s *BookingService) expireBooking(ctx context.Context, booking *models.Booking) (bool, error) {
	unlock, err := s.locker.Lock(ctx, paymentLockKey(booking.ID))
	if err != nil {
		return false, fmt.Errorf("%w: booking %s: %w", ErrLockUnavailable, booking.ID, err)
	}
	defer unlock()

	payment, err := s.store.GetPaymentByBooking(ctx, booking.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		payment = nil
	case err != nil:
		return false, err
	}

	if payment != nil {
		if payment.Status == models.PaymentProcessing || payment.Status == models.PaymentSucceeded {
			return false, nil
		}
		if payment.ProviderPaymentID != "" && payment.Status.Reusable() {
			if s.intents == nil {
				s.log.Warn("BOOKING", fmt.Sprintf("Keeping booking %s, no way to cancel intent %s", booking.ID, payment.ProviderPaymentID))
				return false, nil
			}
			if err := s.intents.CancelPaymentIntent(ctx, payment.ProviderPaymentID); err != nil {
				return false, fmt.Errorf("cancel intent %s: %w", payment.ProviderPaymentID, err)
			}
			if payment.Status == models.PaymentPending {
				if _, err := s.store.TransitionPaymentStatus(ctx, payment.ID, []models.PaymentStatus{models.PaymentPending}, models.PaymentFailed); err != nil {
					return false, fmt.Errorf("mark payment %s failed: %w", payment.ID, err)
				}
			}
		}
	}

	return s.store.TransitionBookingStatus(ctx, booking.ID, []models.BookingStatus{models.BookingPending}, models.BookingCancelled)
}

func (s *BookingService) getRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, roomID)
		}
		return nil, err
	}
	return room, nil
}

func (s *BookingService) publish(eventType string, booking *models.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBookingEvent(models.NewBookingEvent(eventType, booking)); err != nil {
		s.log.Error("BOOKING", fmt.Sprintf("Failed to publish %s for booking %s: %v", eventType, booking.ID, err))
	}
}
