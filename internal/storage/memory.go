package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel-booking/internal/availability"
	"hotel-booking/internal/models"
)

// InMemoryStore keeps everything in maps behind one RWMutex. Values handed
// out are copies, so callers can't mutate stored rows.
type InMemoryStore struct {
	hotels   map[string]*models.Hotel
	rooms    map[string]*models.Room
	users    map[string]*models.User
	bookings map[string]*models.Booking
	payments map[string]*models.Payment
	reviews  map[string]*models.Review
	votes    map[string]*models.ReviewVote
	mutex    sync.RWMutex
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		hotels:   make(map[string]*models.Hotel),
		rooms:    make(map[string]*models.Room),
		users:    make(map[string]*models.User),
		bookings: make(map[string]*models.Booking),
		payments: make(map[string]*models.Payment),
		reviews:  make(map[string]*models.Review),
		votes:    make(map[string]*models.ReviewVote),
		now:      time.Now,
	}
}

func (s *InMemoryStore) CreateHotel(_ context.Context, hotel *models.Hotel) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.hotels[hotel.ID]; exists {
		return ErrConflict
	}
	h := *hotel
	s.hotels[h.ID] = &h
	return nil
}

func (s *InMemoryStore) GetHotel(_ context.Context, id string) (*models.Hotel, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	hotel, exists := s.hotels[id]
	if !exists {
		return nil, ErrNotFound
	}
	h := *hotel
	return &h, nil
}

func (s *InMemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.rooms[room.ID]; exists {
		return ErrConflict
	}
	if _, exists := s.hotels[room.HotelID]; !exists {
		return ErrNotFound
	}
	r := *room
	r.Hotel = nil
	r.Amenities = append([]string(nil), room.Amenities...)
	s.rooms[r.ID] = &r
	return nil
}

func (s *InMemoryStore) GetRoom(_ context.Context, id string) (*models.Room, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	room, exists := s.rooms[id]
	if !exists {
		return nil, ErrNotFound
	}
	return s.roomCopy(room), nil
}

func (s *InMemoryStore) ListRooms(_ context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rooms := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if filter.Matches(room) {
			rooms = append(rooms, s.roomCopy(room))
		}
	}
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Price == rooms[j].Price {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].Price < rooms[j].Price
	})
	return rooms, nil
}

// roomCopy must be called with the mutex held.
func (s *InMemoryStore) roomCopy(room *models.Room) *models.Room {
	r := *room
	r.Amenities = append([]string(nil), room.Amenities...)
	if hotel, ok := s.hotels[room.HotelID]; ok {
		h := *hotel
		r.Hotel = &h
	}
	return &r
}

func (s *InMemoryStore) UpsertUser(_ context.Context, user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, ok := s.users[user.ID]; ok {
		existing.Email = user.Email
		if user.Image != "" {
			existing.Image = user.Image
		}
		if existing.Name == "" {
			existing.Name = user.Name
		}
		existing.UpdatedAt = s.now()
		return nil
	}
	for _, other := range s.users {
		if other.Email == user.Email {
			return ErrConflict
		}
	}
	u := *user
	s.users[u.ID] = &u
	return nil
}

func (s *InMemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *InMemoryStore) UpdateUserProfile(_ context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	user.UpdatedAt = s.now()
	u := *user
	return &u, nil
}

func (s *InMemoryStore) FindBookingsForRoom(_ context.Context, roomID string, statuses []models.BookingStatus) ([]models.DateRange, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.rangesForRoom(roomID, statuses), nil
}

func (s *InMemoryStore) rangesForRoom(roomID string, statuses []models.BookingStatus) []models.DateRange {
	var ranges []models.DateRange
	for _, b := range s.bookings {
		if b.RoomID == roomID && containsStatus(statuses, b.Status) {
			ranges = append(ranges, models.DateRange{BookingID: b.ID, Start: b.CheckIn, End: b.CheckOut})
		}
	}
	return ranges
}

func (s *InMemoryStore) InsertBooking(_ context.Context, booking *models.Booking) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.rooms[booking.RoomID]; !exists {
		return ErrNotFound
	}
	if _, exists := s.bookings[booking.ID]; exists {
		return ErrConflict
	}
	active := s.rangesForRoom(booking.RoomID, models.ActiveBookingStatuses)
	if availability.CountOverlaps(active, booking.CheckIn, booking.CheckOut) > 0 {
		return ErrConflict
	}

	b := *booking
	b.Room, b.Payment = nil, nil
	s.bookings[b.ID] = &b
	return nil
}

func (s *InMemoryStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	booking, exists := s.bookings[id]
	if !exists {
		return nil, ErrNotFound
	}
	return s.bookingCopy(booking), nil
}

// bookingCopy must be called with the mutex held.
func (s *InMemoryStore) bookingCopy(booking *models.Booking) *models.Booking {
	b := *booking
	if room, ok := s.rooms[b.RoomID]; ok {
		b.Room = s.roomCopy(room)
	}
	if payment := s.paymentForBooking(b.ID); payment != nil {
		p := *payment
		b.Payment = &p
	}
	return &b
}

func (s *InMemoryStore) ListBookingsByUser(_ context.Context, userID string) ([]*models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	bookings := []*models.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			bookings = append(bookings, s.bookingCopy(b))
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (s *InMemoryStore) TransitionBookingStatus(_ context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	booking, exists := s.bookings[id]
	if !exists {
		return false, ErrNotFound
	}
	if !containsStatus(from, booking.Status) {
		return false, nil
	}
	booking.Status = to
	booking.UpdatedAt = s.now()
	return true, nil
}

func (s *InMemoryStore) ListPendingBookingsBefore(_ context.Context, cutoff time.Time) ([]*models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var bookings []*models.Booking
	for _, b := range s.bookings {
		if b.Status == models.BookingPending && b.CreatedAt.Before(cutoff) {
			bookings = append(bookings, s.bookingCopy(b))
		}
	}
	return bookings, nil
}

// paymentForBooking must be called with the mutex held.
func (s *InMemoryStore) paymentForBooking(bookingID string) *models.Payment {
	for _, p := range s.payments {
		if p.BookingID == bookingID {
			return p
		}
	}
	return nil
}

func (s *InMemoryStore) GetPaymentByBooking(_ context.Context, bookingID string) (*models.Payment, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	payment := s.paymentForBooking(bookingID)
	if payment == nil {
		return nil, ErrNotFound
	}
	p := *payment
	return &p, nil
}

func (s *InMemoryStore) GetPaymentByProviderID(_ context.Context, providerPaymentID string) (*models.Payment, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, payment := range s.payments {
		if payment.ProviderPaymentID != "" && payment.ProviderPaymentID == providerPaymentID {
			p := *payment
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) UpsertPayment(_ context.Context, payment *models.Payment) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.bookings[payment.BookingID]; !exists {
		return ErrNotFound
	}
	if existing := s.paymentForBooking(payment.BookingID); existing != nil && existing.ID != payment.ID {
		delete(s.payments, existing.ID)
	}
	p := *payment
	s.payments[p.ID] = &p
	return nil
}

func (s *InMemoryStore) TransitionPaymentStatus(_ context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	payment, exists := s.payments[id]
	if !exists {
		return false, ErrNotFound
	}
	if !containsStatus(from, payment.Status) {
		return false, nil
	}
	payment.Status = to
	payment.UpdatedAt = s.now()
	return true, nil
}

func (s *InMemoryStore) ConfirmBookingPayment(_ context.Context, paymentID, bookingID string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	payment, exists := s.payments[paymentID]
	if !exists {
		return false, ErrNotFound
	}
	booking, exists := s.bookings[bookingID]
	if !exists {
		return false, ErrNotFound
	}

	if payment.Status == models.PaymentRefunded {
		return false, nil
	}
	now := s.now()
	if payment.Status != models.PaymentSucceeded {
		payment.Status = models.PaymentSucceeded
		payment.UpdatedAt = now
	}
	if booking.Status != models.BookingPending {
		return false, nil
	}
	booking.Status = models.BookingConfirmed
	booking.UpdatedAt = now
	return true, nil
}

func (s *InMemoryStore) CreateReview(_ context.Context, review *models.Review) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.rooms[review.RoomID]; !exists {
		return ErrNotFound
	}
	for _, other := range s.reviews {
		if other.RoomID == review.RoomID && other.UserID == review.UserID {
			return ErrConflict
		}
	}
	r := *review
	r.User = nil
	s.reviews[r.ID] = &r
	return nil
}

func (s *InMemoryStore) GetReview(_ context.Context, id string) (*models.Review, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	review, exists := s.reviews[id]
	if !exists {
		return nil, ErrNotFound
	}
	return s.reviewCopy(review), nil
}

// reviewCopy must be called with the mutex held.
func (s *InMemoryStore) reviewCopy(review *models.Review) *models.Review {
	r := *review
	if user, ok := s.users[r.UserID]; ok {
		u := *user
		r.User = &u
	}
	return &r
}

func (s *InMemoryStore) ListReviews(_ context.Context, roomID string, order models.ReviewSort) ([]*models.Review, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	reviews := []*models.Review{}
	for _, r := range s.reviews {
		if r.RoomID == roomID {
			reviews = append(reviews, s.reviewCopy(r))
		}
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		switch order {
		case models.SortHelpful:
			if a.Helpful != b.Helpful {
				return a.Helpful > b.Helpful
			}
		case models.SortRating:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return reviews, nil
}

func (s *InMemoryStore) RecordReviewVote(_ context.Context, vote *models.ReviewVote) (*models.Review, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	review, exists := s.reviews[vote.ReviewID]
	if !exists {
		return nil, ErrNotFound
	}
	v := *vote
	s.votes[v.ReviewID+"/"+v.UserID] = &v

	review.Helpful, review.NotHelpful = 0, 0
	for _, other := range s.votes {
		if other.ReviewID != review.ID {
			continue
		}
		if other.Helpful {
			review.Helpful++
		} else {
			review.NotHelpful++
		}
	}
	review.UpdatedAt = s.now()
	return s.reviewCopy(review), nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
