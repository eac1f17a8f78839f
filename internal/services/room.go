package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/storage"
	"hotel-booking/internal/utils"
)

type RoomService struct {
	store storage.Store
	log   *logger.Logger
}

func NewRoomService(store storage.Store, log *logger.Logger) *RoomService {
	return &RoomService{store: store, log: log}
}

func (s *RoomService) ListRooms(ctx context.Context, filter models.RoomFilter) ([]*models.Room, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, fmt.Errorf("%w: minPrice is greater than maxPrice", ErrInvalidInput)
	}
	return s.store.ListRooms(ctx, filter)
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: room %s", ErrNotFound, id)
	}
	return room, err
}

func (s *RoomService) CreateHotel(ctx context.Context, req models.CreateHotelRequest) (*models.Hotel, error) {
	now := time.Now().UTC()
	hotel := &models.Hotel{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Rating:      req.Rating,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if hotel.ID == "" {
		hotel.ID = utils.GenerateUUID()
	}
	if err := s.store.CreateHotel(ctx, hotel); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: hotel %s already exists", ErrConflict, hotel.ID)
		}
		return nil, err
	}
	s.log.Info("ROOMS", "Hotel created: "+hotel.ID)
	return hotel, nil
}

func (s *RoomService) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.Room, error) {
	roomType := models.RoomType(req.Type)
	if !roomType.Valid() {
		return nil, fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, req.Type)
	}
	if _, err := s.store.GetHotel(ctx, req.HotelID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: hotel %s", ErrNotFound, req.HotelID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	room := &models.Room{
		ID:          utils.GenerateUUID(),
		HotelID:     req.HotelID,
		Name:        req.Name,
		Description: req.Description,
		Type:        roomType,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Size:        req.Size,
		ImageURL:    req.ImageURL,
		Amenities:   req.Amenities,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if room.Amenities == nil {
		room.Amenities = []string{}
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	s.log.Info("ROOMS", fmt.Sprintf("Room %s created in hotel %s", room.ID, room.HotelID))
	return s.GetRoom(ctx, room.ID)
}
