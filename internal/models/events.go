package models

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingExpired   = "booking.expired"
	EventPaymentFailedBus = "payment.failed"
)

// BookingEvent is published on the event broker after a state change commits.
type BookingEvent struct {
	Type      string        `json:"type"`
	BookingID string        `json:"bookingId"`
	UserID    string        `json:"userId"`
	RoomID    string        `json:"roomId"`
	Status    BookingStatus `json:"status"`
	PaymentID string        `json:"paymentId,omitempty"`
	Amount    float64       `json:"amount,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewBookingEvent(eventType string, b *Booking) *BookingEvent {
	return &BookingEvent{
		Type:      eventType,
		BookingID: b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		Status:    b.Status,
		Amount:    b.TotalPrice,
		Timestamp: time.Now().UTC(),
	}
}
