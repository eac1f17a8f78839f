package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rv"`

	ID         string    `json:"id" bun:"id,pk"`
	RoomID     string    `json:"roomId" bun:"room_id,notnull"`
	UserID     string    `json:"userId" bun:"user_id,notnull"`
	Rating     int       `json:"rating" bun:"rating,notnull"`
	Title      string    `json:"title" bun:"title,notnull"`
	Comment    string    `json:"comment" bun:"comment,notnull"`
	Helpful    int       `json:"helpful" bun:"helpful,notnull"`
	NotHelpful int       `json:"notHelpful" bun:"not_helpful,notnull"`
	CreatedAt  time.Time `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt  time.Time `json:"updatedAt" bun:"updated_at,notnull"`

	User *User `json:"user,omitempty" bun:"rel:belongs-to,join:user_id=id"`
}

type ReviewVote struct {
	bun.BaseModel `bun:"table:review_votes,alias:rvv"`

	ReviewID  string    `json:"reviewId" bun:"review_id,pk"`
	UserID    string    `json:"userId" bun:"user_id,pk"`
	Helpful   bool      `json:"helpful" bun:"helpful,notnull"`
	CreatedAt time.Time `json:"createdAt" bun:"created_at,notnull"`
}

type ReviewSort string

const (
	SortRecent  ReviewSort = "recent"
	SortHelpful ReviewSort = "helpful"
	SortRating  ReviewSort = "rating"
)

func ParseReviewSort(s string) ReviewSort {
	switch ReviewSort(s) {
	case SortHelpful, SortRating:
		return ReviewSort(s)
	}
	return SortRecent
}

type ReviewStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

type ReviewList struct {
	Reviews []*Review   `json:"reviews"`
	Stats   ReviewStats `json:"stats"`
}
