package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/storage"
)

type UserService struct {
	store storage.Store
	log   *logger.Logger
}

func NewUserService(store storage.Store, log *logger.Logger) *UserService {
	return &UserService{store: store, log: log}
}

// SyncIdentity records the signed-in user so bookings and reviews can
// reference them.
func (s *UserService) SyncIdentity(ctx context.Context, id models.Identity) error {
	if id.UserID == "" || id.Email == "" {
		return fmt.Errorf("%w: token is missing subject or email", ErrInvalidInput)
	}
	now := time.Now().UTC()
	err := s.store.UpsertUser(ctx, &models.User{
		ID:        id.UserID,
		Email:     strings.ToLower(id.Email),
		Name:      id.Name,
		Image:     id.Image,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: email %s belongs to another account", ErrConflict, id.Email)
	}
	return err
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return user, err
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		update.Name = &name
	}
	user, err := s.store.UpdateUserProfile(ctx, userID, update)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if err == nil {
		s.log.Info("USER", "Profile updated for "+userID)
	}
	return user, err
}
