package models

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	// BookingCompleted exists in the schema but nothing moves a booking into it.
	BookingCompleted BookingStatus = "COMPLETED"
)

// ActiveBookingStatuses are the statuses that hold a room's dates.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	ID         string        `json:"id" bun:"id,pk"`
	Reference  string        `json:"reference" bun:"reference,notnull,unique"`
	UserID     string        `json:"userId" bun:"user_id,notnull"`
	RoomID     string        `json:"roomId" bun:"room_id,notnull"`
	CheckIn    time.Time     `json:"checkIn" bun:"check_in,notnull"`
	CheckOut   time.Time     `json:"checkOut" bun:"check_out,notnull"`
	Guests     int           `json:"guests" bun:"guests,notnull"`
	TotalPrice float64       `json:"totalPrice" bun:"total_price,notnull"`
	Status     BookingStatus `json:"status" bun:"status,notnull"`
	CreatedAt  time.Time     `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt  time.Time     `json:"updatedAt" bun:"updated_at,notnull"`

	Room    *Room    `json:"room,omitempty" bun:"rel:belongs-to,join:room_id=id"`
	Payment *Payment `json:"payment,omitempty" bun:"rel:has-one,join:id=booking_id"`
}

// DateRange is the [Start, End) span a booking occupies.
type DateRange struct {
	BookingID string    `json:"bookingId"`
	Start     time.Time `json:"checkIn"`
	End       time.Time `json:"checkOut"`
}

// BookingInput is a create request after parsing and shape validation.
type BookingInput struct {
	UserID   string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

type AvailabilityResult struct {
	Available           bool `json:"available"`
	ConflictingBookings int  `json:"conflictingBookings"`
}
