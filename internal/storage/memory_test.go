package storage

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func seededStore(t *testing.T) *InMemoryStore {
	t.Helper()
	store := NewInMemoryStore()
	require.NoError(t, SeedDemoData(context.Background(), store, testLogger()))
	return store
}

func day(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func booking(id, roomID, in, out string, status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID: id, UserID: "u1", RoomID: roomID,
		CheckIn: day(in), CheckOut: day(out),
		Guests: 1, Status: status, CreatedAt: time.Now(),
	}
}

func TestSeedIsRepeatable(t *testing.T) {
	store := seededStore(t)
	require.NoError(t, SeedDemoData(context.Background(), store, testLogger()))

	rooms, err := store.ListRooms(context.Background(), models.RoomFilter{})
	require.NoError(t, err)
	assert.Len(t, rooms, 8)
	assert.Equal(t, "Budget Solo Room", rooms[0].Name, "rooms are ordered by price")
	require.NotNil(t, rooms[0].Hotel)
	assert.Equal(t, "LuxStay Grand Hotel", rooms[0].Hotel.Name)
}

func TestListRoomsFilter(t *testing.T) {
	store := seededStore(t)
	capacity, maxPrice := 3, 500.0

	rooms, err := store.ListRooms(context.Background(), models.RoomFilter{
		Type: models.RoomSuite, MinCapacity: &capacity, MaxPrice: &maxPrice,
	})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "4", rooms[0].ID)
	assert.Equal(t, "2", rooms[1].ID)
}

func TestInsertBookingRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	require.NoError(t, store.InsertBooking(ctx, booking("b1", "3", "2024-12-20", "2024-12-22", models.BookingPending)))

	err := store.InsertBooking(ctx, booking("b2", "3", "2024-12-21", "2024-12-23", models.BookingPending))
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, store.InsertBooking(ctx, booking("b3", "3", "2024-12-22", "2024-12-24", models.BookingPending)),
		"back-to-back stays are allowed")

	err = store.InsertBooking(ctx, booking("b4", "missing", "2024-12-20", "2024-12-22", models.BookingPending))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelledBookingsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	require.NoError(t, store.InsertBooking(ctx, booking("b1", "3", "2024-12-20", "2024-12-22", models.BookingPending)))

	moved, err := store.TransitionBookingStatus(ctx, "b1", models.ActiveBookingStatuses, models.BookingCancelled)
	require.NoError(t, err)
	assert.True(t, moved)

	ranges, err := store.FindBookingsForRoom(ctx, "3", models.ActiveBookingStatuses)
	require.NoError(t, err)
	assert.Empty(t, ranges)

	assert.NoError(t, store.InsertBooking(ctx, booking("b2", "3", "2024-12-20", "2024-12-22", models.BookingPending)))
}

func TestConcurrentInsertOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := booking("b"+string(rune('a'+i)), "1", "2025-01-01", "2025-01-05", models.BookingPending)
			if err := store.InsertBooking(ctx, b); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestTransitionRespectsFromSet(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	require.NoError(t, store.InsertBooking(ctx, booking("b1", "3", "2024-12-20", "2024-12-22", models.BookingCancelled)))

	moved, err := store.TransitionBookingStatus(ctx, "b1", []models.BookingStatus{models.BookingPending}, models.BookingConfirmed)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = store.TransitionBookingStatus(ctx, "nope", models.ActiveBookingStatuses, models.BookingCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmBookingPaymentOnce(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	require.NoError(t, store.InsertBooking(ctx, booking("b1", "3", "2024-12-20", "2024-12-22", models.BookingPending)))
	require.NoError(t, store.UpsertPayment(ctx, &models.Payment{
		ID: "p1", BookingID: "b1", Amount: 300, Currency: "usd",
		Status: models.PaymentPending, ProviderPaymentID: "pi_1", ClientSecret: "secret",
	}))

	confirmed, err := store.ConfirmBookingPayment(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.True(t, confirmed)

	confirmed, err = store.ConfirmBookingPayment(ctx, "p1", "b1")
	require.NoError(t, err)
	assert.False(t, confirmed)

	b, err := store.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	require.NotNil(t, b.Payment)
	assert.Equal(t, models.PaymentSucceeded, b.Payment.Status)
	require.NotNil(t, b.Room)
	assert.Equal(t, DemoHotelID, b.Room.Hotel.ID)
}

func TestUpsertPaymentReplacesByBooking(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	require.NoError(t, store.InsertBooking(ctx, booking("b1", "3", "2024-12-20", "2024-12-22", models.BookingPending)))

	require.NoError(t, store.UpsertPayment(ctx, &models.Payment{ID: "p1", BookingID: "b1", ProviderPaymentID: "pi_1", Status: models.PaymentRefunded}))
	require.NoError(t, store.UpsertPayment(ctx, &models.Payment{ID: "p2", BookingID: "b1", ProviderPaymentID: "pi_2", Status: models.PaymentPending}))

	p, err := store.GetPaymentByBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID)

	_, err = store.GetPaymentByProviderID(ctx, "pi_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	require.NoError(t, store.InsertBooking(ctx, booking("b1", "3", "2024-12-20", "2024-12-22", models.BookingPending)))

	b, err := store.GetBooking(ctx, "b1")
	require.NoError(t, err)
	b.Status = models.BookingCompleted

	again, err := store.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, again.Status)
}

func TestReviewsAndVotes(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	require.NoError(t, store.UpsertUser(ctx, &models.User{ID: "u1", Email: "a@example.com", Name: "Ann"}))

	now := time.Now()
	require.NoError(t, store.CreateReview(ctx, &models.Review{ID: "r1", RoomID: "1", UserID: "u1", Rating: 3, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.CreateReview(ctx, &models.Review{ID: "r2", RoomID: "1", UserID: "u2", Rating: 5, CreatedAt: now}))
	assert.ErrorIs(t, store.CreateReview(ctx, &models.Review{ID: "r3", RoomID: "1", UserID: "u1", Rating: 1}), ErrConflict)

	review, err := store.RecordReviewVote(ctx, &models.ReviewVote{ReviewID: "r1", UserID: "u2", Helpful: true})
	require.NoError(t, err)
	assert.Equal(t, 1, review.Helpful)

	review, err = store.RecordReviewVote(ctx, &models.ReviewVote{ReviewID: "r1", UserID: "u2", Helpful: false})
	require.NoError(t, err)
	assert.Equal(t, 0, review.Helpful)
	assert.Equal(t, 1, review.NotHelpful)

	_, err = store.RecordReviewVote(ctx, &models.ReviewVote{ReviewID: "r1", UserID: "u3", Helpful: true})
	require.NoError(t, err)

	recent, err := store.ListReviews(ctx, "1", models.SortRecent)
	require.NoError(t, err)
	assert.Equal(t, "r2", recent[0].ID)

	helpful, err := store.ListReviews(ctx, "1", models.SortHelpful)
	require.NoError(t, err)
	assert.Equal(t, "r1", helpful[0].ID)
	require.NotNil(t, helpful[0].User)
	assert.Equal(t, "Ann", helpful[0].User.Name)

	byRating, err := store.ListReviews(ctx, "1", models.SortRating)
	require.NoError(t, err)
	assert.Equal(t, "r2", byRating[0].ID)
}

func TestUserProfile(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.UpsertUser(ctx, &models.User{ID: "u1", Email: "a@example.com", Name: "Ann"}))

	name, phone := "Annie", "+1 555 0100"
	u, err := store.UpdateUserProfile(ctx, "u1", models.ProfileUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.Name)

	require.NoError(t, store.UpsertUser(ctx, &models.User{ID: "u1", Email: "a@example.com", Name: "Ann"}))
	u, err = store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.Name, "sign-in does not overwrite an edited name")
	assert.Equal(t, "+1 555 0100", u.Phone)

	_, err = store.UpdateUserProfile(ctx, "missing", models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}
