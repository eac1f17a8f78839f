package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/storage"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.ProviderIntent, error) {
	args := m.Called(ctx, req)
	if intent, ok := args.Get(0).(*models.ProviderIntent); ok {
		return intent, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) CancelPaymentIntent(ctx context.Context, providerPaymentID string) error {
	args := m.Called(ctx, providerPaymentID)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingConfirmed(ctx context.Context, booking *models.Booking, user *models.User) error {
	args := m.Called(ctx, booking, user)
	return args.Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(event *models.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	store    *storage.InMemoryStore
	events   *recordingPublisher
	provider *MockProvider
	notifier *MockNotifier
	bookings *BookingService
	payments *PaymentService
	rooms    *RoomService
	reviews  *ReviewService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.New(logger.Options{Output: io.Discard})

	store := storage.NewInMemoryStore()
	require.NoError(t, storage.SeedDemoData(ctx, store, log))

	users := NewUserService(store, log)
	require.NoError(t, users.SyncIdentity(ctx, models.Identity{UserID: "alice", Email: "alice@example.com", Name: "Alice"}))
	require.NoError(t, users.SyncIdentity(ctx, models.Identity{UserID: "bob", Email: "bob@example.com", Name: "Bob"}))

	events := &recordingPublisher{}
	provider := &MockProvider{}
	notifier := &MockNotifier{}
	locker := NewLocalLocker()

	return &fixture{
		store:    store,
		events:   events,
		provider: provider,
		notifier: notifier,
		bookings: NewBookingService(store, locker, events, log).WithIntentCanceller(provider),
		payments: NewPaymentService(store, provider, locker, events, log, "usd").WithNotifier(notifier),
		rooms:    NewRoomService(store, log),
		reviews:  NewReviewService(store, log),
		users:    users,
	}
}
