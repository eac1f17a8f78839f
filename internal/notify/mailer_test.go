package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func confirmedBooking() *models.Booking {
	return &models.Booking{
		ID:         "bk-1",
		Reference:  "LX-1734652800-123456",
		CheckIn:    time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		TotalPrice: 300,
		Status:     models.BookingConfirmed,
		Room: &models.Room{
			Name:  "Standard Cozy Room",
			Hotel: &models.Hotel{Name: "LuxStay Grand Hotel"},
		},
	}
}

func TestBookingConfirmedSendsMail(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailerWithSender(sender, "bookings@luxstay.example", "LuxStay", logger.New(logger.Options{Output: io.Discard}))

	err := m.BookingConfirmed(context.Background(), confirmedBooking(), &models.User{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	require.Len(t, msg.GetToString(), 1)
	assert.Contains(t, msg.GetToString()[0], "alice@example.com")
	assert.Equal(t, []string{"Booking confirmed: LX-1734652800-123456"}, msg.GetGenHeader(mail.HeaderSubject))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Standard Cozy Room")
	assert.Contains(t, buf.String(), "Fri, 20 Dec 2024")
}

func TestBookingConfirmedErrors(t *testing.T) {
	log := logger.New(logger.Options{Output: io.Discard})

	m := NewMailerWithSender(&fakeSender{err: errors.New("connection refused")}, "bookings@luxstay.example", "LuxStay", log)
	err := m.BookingConfirmed(context.Background(), confirmedBooking(), &models.User{Email: "alice@example.com"})
	assert.ErrorContains(t, err, "connection refused")

	err = m.BookingConfirmed(context.Background(), confirmedBooking(), &models.User{Email: "not-an-address"})
	assert.Error(t, err)
}

func TestConfirmationBodyWithoutRoom(t *testing.T) {
	b := confirmedBooking()
	b.Room = nil
	body := confirmationBody(b, &models.User{})

	assert.Contains(t, body, "Hello guest")
	assert.Contains(t, body, "Total:     300.00")
	assert.NotContains(t, body, "Hotel:")
}
