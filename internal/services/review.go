package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/storage"
	"hotel-booking/internal/utils"
)

type ReviewService struct {
	store storage.Store
	log   *logger.Logger
}

func NewReviewService(store storage.Store, log *logger.Logger) *ReviewService {
	return &ReviewService{store: store, log: log}
}

// ListReviews returns the room's reviews with their count and mean rating
// rounded to one decimal.
func (s *ReviewService) ListReviews(ctx context.Context, roomID string, sort models.ReviewSort) (*models.ReviewList, error) {
	reviews, err := s.store.ListReviews(ctx, roomID, sort)
	if err != nil {
		return nil, err
	}

	stats := models.ReviewStats{Total: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		stats.Average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	return &models.ReviewList{Reviews: reviews, Stats: stats}, nil
}

func (s *ReviewService) CreateReview(ctx context.Context, userID string, req models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	title, comment := strings.TrimSpace(req.Title), strings.TrimSpace(req.Comment)
	if title == "" || len(comment) < 10 {
		return nil, fmt.Errorf("%w: title and a comment of at least 10 characters are required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	review := &models.Review{
		ID:        utils.GenerateUUID(),
		RoomID:    req.RoomID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     title,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, req.RoomID)
		case errors.Is(err, storage.ErrConflict):
			return nil, fmt.Errorf("%w: you have already reviewed this room", ErrConflict)
		}
		return nil, err
	}
	s.log.Info("REVIEWS", fmt.Sprintf("User %s reviewed room %s (%d/5)", userID, req.RoomID, req.Rating))
	return s.store.GetReview(ctx, review.ID)
}

func (s *ReviewService) Vote(ctx context.Context, reviewID, userID string, helpful bool) (*models.Review, error) {
	review, err := s.store.RecordReviewVote(ctx, &models.ReviewVote{
		ReviewID:  reviewID,
		UserID:    userID,
		Helpful:   helpful,
		CreatedAt: time.Now().UTC(),
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
	}
	return review, err
}
