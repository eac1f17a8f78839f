package storage

import (
	"context"
	"errors"
	"time"

	"hotel-booking/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with existing data")
)

type Store interface {
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	GetHotel(ctx context.Context, id string) (*models.Hotel, error)

	CreateRoom(ctx context.Context, room *models.Room) error
	// GetRoom returns the room with its hotel attached.
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error)

	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)

	FindBookingsForRoom(ctx context.Context, roomID string, statuses []models.BookingStatus) ([]models.DateRange, error)
	// InsertBooking atomically re-checks the room's active bookings and
	// returns ErrConflict if the new range overlaps one of them.
	InsertBooking(ctx context.Context, booking *models.Booking) error
	// GetBooking returns the booking with room, hotel and payment attached.
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	// TransitionBookingStatus moves the booking to `to` only if its current
	// status is one of `from`, and reports whether it did.
	TransitionBookingStatus(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error)
	ListPendingBookingsBefore(ctx context.Context, cutoff time.Time) ([]*models.Booking, error)

	GetPaymentByBooking(ctx context.Context, bookingID string) (*models.Payment, error)
	GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error)
	// UpsertPayment inserts or replaces the payment keyed by booking.
	UpsertPayment(ctx context.Context, payment *models.Payment) error
	// TransitionPaymentStatus moves the payment to `to` only if its current
	// status is one of `from`, and reports whether it did.
	TransitionPaymentStatus(ctx context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error)
	// ConfirmBookingPayment marks a non-refunded payment SUCCEEDED and moves
	// a PENDING booking to CONFIRMED in one unit. It reports whether the
	// booking moved.
	ConfirmBookingPayment(ctx context.Context, paymentID, bookingID string) (bool, error)

	// CreateReview returns ErrConflict if the user already reviewed the room.
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id string) (*models.Review, error)
	ListReviews(ctx context.Context, roomID string, sort models.ReviewSort) ([]*models.Review, error)
	// RecordReviewVote upserts the vote and returns the review with fresh
	// helpful counts.
	RecordReviewVote(ctx context.Context, vote *models.ReviewVote) (*models.Review, error)

	Close() error
}

func containsStatus[S comparable](statuses []S, s S) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
