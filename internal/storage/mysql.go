package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	"hotel-booking/internal/config"
	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

const mysqlDuplicateEntry = 1062

type MySQLStore struct {
	db  *bun.DB
	log *logger.Logger
	now func() time.Time
}

func NewMySQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*MySQLStore, error) {
	log.LogDatabase("CONNECT", "mysql", fmt.Sprintf("Connecting to MySQL at %s:%s", cfg.Host, cfg.Port))

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Error("DATABASE", "Failed to open MySQL connection: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Error("DATABASE", "Failed to ping MySQL: "+err.Error())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.LogDatabase("SUCCESS", "mysql", "MySQL connection established")
	return NewMySQLStoreWithDB(sqldb, log), nil
}

// NewMySQLStoreWithDB wraps an already opened handle.
func NewMySQLStoreWithDB(sqldb *sql.DB, log *logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:  bun.NewDB(sqldb, mysqldialect.New()),
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MySQLStore) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	s.log.LogDatabase("INSERT", "mysql", "Saving hotel "+hotel.ID)
	if _, err := s.db.NewInsert().Model(hotel).Exec(ctx); err != nil {
		return s.wrap("save hotel", err)
	}
	return nil
}

func (s *MySQLStore) GetHotel(ctx context.Context, id string) (*models.Hotel, error) {
	hotel := new(models.Hotel)
	if err := s.db.NewSelect().Model(hotel).Where("h.id = ?", id).Scan(ctx); err != nil {
		return nil, s.wrap("get hotel", err)
	}
	return hotel, nil
}

func (s *MySQLStore) CreateRoom(ctx context.Context, room *models.Room) error {
	s.log.LogDatabase("INSERT", "mysql", "Saving room "+room.ID)
	if _, err := s.db.NewInsert().Model(room).Exec(ctx); err != nil {
		return s.wrap("save room", err)
	}
	return nil
}

func (s *MySQLStore) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room := new(models.Room)
	err := s.db.NewSelect().
		Model(room).
		Relation("Hotel").
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, s.wrap("get room", err)
	}
	return room, nil
}

func (s *MySQLStore) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	var rooms []*models.Room
	q := s.db.NewSelect().Model(&rooms).Relation("Hotel")
	if filter.Type != "" {
		q = q.Where("r.type = ?", filter.Type)
	}
	if filter.MinPrice != nil {
		q = q.Where("r.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("r.price <= ?", *filter.MaxPrice)
	}
	if filter.MinCapacity != nil {
		q = q.Where("r.capacity >= ?", *filter.MinCapacity)
	}
	if err := q.Order("r.price ASC").Scan(ctx); err != nil {
		return nil, s.wrap("list rooms", err)
	}
	return rooms, nil
}

// UpsertUser keeps a profile name the user already edited.
func (s *MySQLStore) UpsertUser(ctx context.Context, user *models.User) error {
	_, err := s.db.NewInsert().
		Model(user).
		On("DUPLICATE KEY UPDATE").
		Set("email = VALUES(email)").
		Set("image = IF(VALUES(image) = '', image, VALUES(image))").
		Set("name = IF(name = '', VALUES(name), name)").
		Set("updated_at = VALUES(updated_at)").
		Exec(ctx)
	if err != nil {
		return s.wrap("upsert user", err)
	}
	return nil
}

func (s *MySQLStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := new(models.User)
	if err := s.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx); err != nil {
		return nil, s.wrap("get user", err)
	}
	return user, nil
}

func (s *MySQLStore) UpdateUserProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	q := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("updated_at = ?", s.now()).
		Where("id = ?", id)
	if update.Name != nil {
		q = q.Set("name = ?", *update.Name)
	}
	if update.Phone != nil {
		q = q.Set("phone = ?", *update.Phone)
	}
	if _, err := q.Exec(ctx); err != nil {
		return nil, s.wrap("update user", err)
	}
	return s.GetUser(ctx, id)
}

func (s *MySQLStore) FindBookingsForRoom(ctx context.Context, roomID string, statuses []models.BookingStatus) ([]models.DateRange, error) {
	var bookings []models.Booking
	err := s.db.NewSelect().
		Model(&bookings).
		Column("id", "check_in", "check_out").
		Where("b.room_id = ?", roomID).
		Where("b.status IN (?)", bun.In(statuses)).
		Scan(ctx)
	if err != nil {
		return nil, s.wrap("find bookings", err)
	}

	ranges := make([]models.DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, models.DateRange{BookingID: b.ID, Start: b.CheckIn, End: b.CheckOut})
	}
	return ranges, nil
}

// InsertBooking locks the room row so concurrent inserts for the same room
// serialize on it, then re-runs the overlap count inside the transaction.
func (s *MySQLStore) InsertBooking(ctx context.Context, booking *models.Booking) error {
	s.log.LogDatabase("INSERT", "mysql", fmt.Sprintf("Saving booking %s for room %s", booking.ID, booking.RoomID))

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		room := new(models.Room)
		err := tx.NewSelect().
			Model(room).
			Column("id").
			Where("r.id = ?", booking.RoomID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}

		overlapping, err := tx.NewSelect().
			Model((*models.Booking)(nil)).
			Where("b.room_id = ?", booking.RoomID).
			Where("b.status IN (?)", bun.In(models.ActiveBookingStatuses)).
			Where("b.check_in < ?", booking.CheckOut).
			Where("b.check_out > ?", booking.CheckIn).
			Count(ctx)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrConflict
		}

		_, err = tx.NewInsert().Model(booking).Exec(ctx)
		return err
	})
	if err != nil {
		return s.wrap("save booking", err)
	}
	return nil
}

func (s *MySQLStore) bookingQuery(model interface{}) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(model).
		Relation("Room").
		Relation("Room.Hotel").
		Relation("Payment")
}

func (s *MySQLStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking := new(models.Booking)
	if err := s.bookingQuery(booking).Where("b.id = ?", id).Scan(ctx); err != nil {
		return nil, s.wrap("get booking", err)
	}
	return booking, nil
}

func (s *MySQLStore) ListBookingsByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings := []*models.Booking{}
	err := s.bookingQuery(&bookings).
		Where("b.user_id = ?", userID).
		Order("b.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, s.wrap("list bookings", err)
	}
	return bookings, nil
}

func (s *MySQLStore) TransitionBookingStatus(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", s.now()).
		Where("id = ?", id).
		Where("status IN (?)", bun.In(from)).
		Exec(ctx)
	if err != nil {
		return false, s.wrap("transition booking", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.wrap("transition booking", err)
	}
	return n > 0, nil
}

func (s *MySQLStore) ListPendingBookingsBefore(ctx context.Context, cutoff time.Time) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := s.db.NewSelect().
		Model(&bookings).
		Relation("Payment").
		Where("b.status = ?", models.BookingPending).
		Where("b.created_at < ?", cutoff).
		Scan(ctx)
	if err != nil {
		return nil, s.wrap("list pending bookings", err)
	}
	return bookings, nil
}

func (s *MySQLStore) GetPaymentByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	payment := new(models.Payment)
	if err := s.db.NewSelect().Model(payment).Where("p.booking_id = ?", bookingID).Scan(ctx); err != nil {
		return nil, s.wrap("get payment", err)
	}
	return payment, nil
}

func (s *MySQLStore) GetPaymentByProviderID(ctx context.Context, providerPaymentID string) (*models.Payment, error) {
	payment := new(models.Payment)
	err := s.db.NewSelect().
		Model(payment).
		Where("p.provider_payment_id = ?", providerPaymentID).
		Scan(ctx)
	if err != nil {
		return nil, s.wrap("get payment by provider id", err)
	}
	return payment, nil
}

func (s *MySQLStore) UpsertPayment(ctx context.Context, payment *models.Payment) error {
	s.log.LogDatabase("UPSERT", "mysql", fmt.Sprintf("Saving payment %s for booking %s", payment.ID, payment.BookingID))
	_, err := s.db.NewInsert().
		Model(payment).
		On("DUPLICATE KEY UPDATE").
		Set("id = VALUES(id)").
		Set("amount = VALUES(amount)").
		Set("currency = VALUES(currency)").
		Set("status = VALUES(status)").
		Set("provider_payment_id = VALUES(provider_payment_id)").
		Set("client_secret = VALUES(client_secret)").
		Set("updated_at = VALUES(updated_at)").
		Exec(ctx)
	if err != nil {
		return s.wrap("save payment", err)
	}
	return nil
}

func (s *MySQLStore) TransitionPaymentStatus(ctx context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*models.Payment)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", s.now()).
		Where("id = ?", id).
		Where("status IN (?)", bun.In(from)).
		Exec(ctx)
	if err != nil {
		return false, s.wrap("transition payment", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, s.wrap("transition payment", err)
	}
	return n > 0, nil
}

func (s *MySQLStore) ConfirmBookingPayment(ctx context.Context, paymentID, bookingID string) (bool, error) {
	var confirmed bool
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		payment := new(models.Payment)
		err := tx.NewSelect().
			Model(payment).
			Column("id", "status").
			Where("p.id = ?", paymentID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			return err
		}
		if payment.Status == models.PaymentRefunded {
			return nil
		}

		now := s.now()
		if payment.Status != models.PaymentSucceeded {
			_, err = tx.NewUpdate().
				Model((*models.Payment)(nil)).
				Set("status = ?", models.PaymentSucceeded).
				Set("updated_at = ?", now).
				Where("id = ?", paymentID).
				Exec(ctx)
			if err != nil {
				return err
			}
		}

		res, err := tx.NewUpdate().
			Model((*models.Booking)(nil)).
			Set("status = ?", models.BookingConfirmed).
			Set("updated_at = ?", now).
			Where("id = ?", bookingID).
			Where("status = ?", models.BookingPending).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		confirmed = n > 0
		return nil
	})
	if err != nil {
		return false, s.wrap("confirm payment", err)
	}
	return confirmed, nil
}

func (s *MySQLStore) CreateReview(ctx context.Context, review *models.Review) error {
	if _, err := s.db.NewInsert().Model(review).Exec(ctx); err != nil {
		return s.wrap("save review", err)
	}
	return nil
}

func (s *MySQLStore) GetReview(ctx context.Context, id string) (*models.Review, error) {
	review := new(models.Review)
	if err := s.db.NewSelect().Model(review).Relation("User").Where("rv.id = ?", id).Scan(ctx); err != nil {
		return nil, s.wrap("get review", err)
	}
	return review, nil
}

func (s *MySQLStore) ListReviews(ctx context.Context, roomID string, sort models.ReviewSort) ([]*models.Review, error) {
	reviews := []*models.Review{}
	q := s.db.NewSelect().
		Model(&reviews).
		Relation("User").
		Where("rv.room_id = ?", roomID)
	switch sort {
	case models.SortHelpful:
		q = q.Order("rv.helpful DESC")
	case models.SortRating:
		q = q.Order("rv.rating DESC")
	}
	if err := q.Order("rv.created_at DESC").Scan(ctx); err != nil {
		return nil, s.wrap("list reviews", err)
	}
	return reviews, nil
}

func (s *MySQLStore) RecordReviewVote(ctx context.Context, vote *models.ReviewVote) (*models.Review, error) {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(vote).
			On("DUPLICATE KEY UPDATE").
			Set("helpful = VALUES(helpful)").
			Exec(ctx)
		if err != nil {
			return err
		}

		helpful, err := tx.NewSelect().
			Model((*models.ReviewVote)(nil)).
			Where("rvv.review_id = ?", vote.ReviewID).
			Where("rvv.helpful = ?", true).
			Count(ctx)
		if err != nil {
			return err
		}
		notHelpful, err := tx.NewSelect().
			Model((*models.ReviewVote)(nil)).
			Where("rvv.review_id = ?", vote.ReviewID).
			Where("rvv.helpful = ?", false).
			Count(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*models.Review)(nil)).
			Set("helpful = ?", helpful).
			Set("not_helpful = ?", notHelpful).
			Set("updated_at = ?", s.now()).
			Where("id = ?", vote.ReviewID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, s.wrap("record vote", err)
	}
	return s.GetReview(ctx, vote.ReviewID)
}

func (s *MySQLStore) Close() error {
	s.log.LogDatabase("CLOSE", "mysql", "Closing MySQL connection")
	return s.db.Close()
}

// wrap maps driver errors onto the package sentinels.
func (s *MySQLStore) wrap(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry:
		return ErrConflict
	}
	s.log.Error("DATABASE", fmt.Sprintf("Failed to %s: %v", op, err))
	return fmt.Errorf("failed to %s: %w", op, err)
}
