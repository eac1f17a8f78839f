package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel-booking/internal/models"
)

func (f *fixture) pendingBooking(t *testing.T, userID, roomID, in, out string) *models.Booking {
	t.Helper()
	booking, err := f.bookings.CreateBooking(context.Background(), stay(userID, roomID, in, out, 1))
	require.NoError(t, err)
	return booking
}

func (f *fixture) expectIntent(bookingID, providerID string) *mock.Call {
	return f.provider.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(req models.PaymentIntentRequest) bool {
		return req.Metadata["bookingId"] == bookingID
	})).Return(&models.ProviderIntent{ID: providerID, ClientSecret: providerID + "_secret"}, nil)
}

func (f *fixture) expectNotify(bookingID string) *mock.Call {
	return f.notifier.On("BookingConfirmed", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.ID == bookingID
	}), mock.Anything).Return(nil)
}

func TestBookAndPayScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookings.CreateBooking(ctx, stay("alice", "3", "2024-12-20", "2024-12-22", 2))
	require.NoError(t, err)
	assert.Equal(t, 300.0, booking.TotalPrice)

	f.provider.On("CreatePaymentIntent", mock.Anything, models.PaymentIntentRequest{
		AmountMinor: 30000,
		Currency:    "usd",
		Metadata:    map[string]string{"bookingId": booking.ID, "userId": "alice", "roomName": "Standard Cozy Room"},
	}).Return(&models.ProviderIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil).Once()

	intent, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)

	f.expectNotify(booking.ID).Once()
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_123"))

	confirmed, err := f.bookings.GetBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.Payment)
	assert.Equal(t, models.PaymentSucceeded, confirmed.Payment.Status)

	_, err = f.bookings.CreateBooking(ctx, stay("bob", "3", "2024-12-20", "2024-12-22", 2))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	f.provider.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateIntentReusesClientSecret(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_reuse").Once()

	first, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	second, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, first.ClientSecret, second.ClientSecret)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	f.provider.AssertNumberOfCalls(t, "CreatePaymentIntent", 1)
}

func TestCreateIntentChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")

	_, err := f.payments.CreatePaymentIntent(ctx, "missing", "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.payments.CreatePaymentIntent(ctx, booking.ID, "bob")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.bookings.CancelBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	_, err = f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	f.provider.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything)
}

func TestCreateIntentProviderError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")

	f.provider.On("CreatePaymentIntent", mock.Anything, mock.Anything).
		Return(nil, errors.New("card network unavailable")).Once()

	_, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	assert.ErrorIs(t, err, ErrProviderError)
	assert.Equal(t, KindProviderError, KindOf(err))

	stored, err := f.bookings.GetBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Nil(t, stored.Payment)
	assert.Equal(t, models.BookingPending, stored.Status)
}

func TestWebhookSuccessIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_dup").Once()
	f.expectNotify(booking.ID).Once()

	_, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_dup"))
	}

	f.notifier.AssertNumberOfCalls(t, "BookingConfirmed", 1)
	assert.Equal(t, 1, f.events.count(models.EventBookingConfirmed))
}

func TestWebhookOutOfOrderAfterSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_late").Once()
	f.expectNotify(booking.ID).Once()

	_, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_late"))
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentProcessing, "pi_late"))
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentFailed, "pi_late"))

	payment, err := f.store.GetPaymentByProviderID(ctx, "pi_late")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, payment.Status)

	stored, err := f.bookings.GetBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, stored.Status)
	assert.Equal(t, 0, f.events.count(models.EventPaymentFailedBus))
}

func TestFailedPaymentCanBeRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_retry").Once()
	f.expectNotify(booking.ID).Once()

	first, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)

	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentProcessing, "pi_retry"))
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentFailed, "pi_retry"))

	stored, err := f.bookings.GetBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status, "a failed payment leaves the booking open")
	assert.Equal(t, models.PaymentFailed, stored.Payment.Status)
	assert.Equal(t, 1, f.events.count(models.EventPaymentFailedBus))

	again, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ClientSecret, again.ClientSecret)

	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_retry"))
	stored, err = f.bookings.GetBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, stored.Status)
}

func TestLateProcessingDoesNotReopenFailedPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_reorder").Once()

	_, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentFailed, "pi_reorder"))
	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentProcessing, "pi_reorder"))

	payment, err := f.store.GetPaymentByProviderID(ctx, "pi_reorder")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)
	assert.Equal(t, 1, f.events.count(models.EventPaymentFailedBus))
}

func TestWebhookIgnoresUnknownInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_nobody"))
	assert.NoError(t, f.payments.OnPaymentEvent(ctx, "charge.refunded", "pi_nobody"))
	f.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSuccessForCancelledBookingKeepsItCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_cancel").Once()

	_, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	_, err = f.bookings.CancelBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)

	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_cancel"))

	stored, err := f.bookings.GetBooking(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Equal(t, models.PaymentSucceeded, stored.Payment.Status)
	f.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundedPaymentIgnoresLateSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	require.NoError(t, f.store.UpsertPayment(ctx, &models.Payment{
		ID: "pay_r", BookingID: booking.ID, Amount: 300, Currency: "usd",
		Status: models.PaymentRefunded, ProviderPaymentID: "pi_refunded",
	}))

	require.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_refunded"))

	payment, err := f.store.GetPaymentByProviderID(ctx, "pi_refunded")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, payment.Status)
}

func TestNotifierFailureDoesNotFailWebhook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.pendingBooking(t, "alice", "3", "2024-12-20", "2024-12-22")
	f.expectIntent(booking.ID, "pi_mail").Once()
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()

	_, err := f.payments.CreatePaymentIntent(ctx, booking.ID, "alice")
	require.NoError(t, err)
	assert.NoError(t, f.payments.OnPaymentEvent(ctx, models.EventPaymentSucceeded, "pi_mail"))
	f.notifier.AssertExpectations(t)
}
