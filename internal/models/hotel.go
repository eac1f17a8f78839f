package models

import (
	"time"

	"github.com/uptrace/bun"
)

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomSuite    RoomType = "suite"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite:
		return true
	}
	return false
}

type Hotel struct {
	bun.BaseModel `bun:"table:hotels,alias:h"`

	ID          string    `json:"id" bun:"id,pk"`
	Name        string    `json:"name" bun:"name,notnull"`
	Description string    `json:"description" bun:"description"`
	Address     string    `json:"address" bun:"address"`
	City        string    `json:"city" bun:"city"`
	Country     string    `json:"country" bun:"country"`
	Rating      float64   `json:"rating" bun:"rating"`
	ImageURL    string    `json:"image" bun:"image_url"`
	CreatedAt   time.Time `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt   time.Time `json:"updatedAt" bun:"updated_at,notnull"`
}

type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID          string    `json:"id" bun:"id,pk"`
	HotelID     string    `json:"hotelId" bun:"hotel_id,notnull"`
	Name        string    `json:"name" bun:"name,notnull"`
	Description string    `json:"description" bun:"description"`
	Type        RoomType  `json:"type" bun:"type,notnull"`
	Price       float64   `json:"price" bun:"price,notnull"`
	Capacity    int       `json:"capacity" bun:"capacity,notnull"`
	Size        int       `json:"size" bun:"size"`
	ImageURL    string    `json:"image" bun:"image_url"`
	Amenities   []string  `json:"amenities" bun:"amenities"`
	CreatedAt   time.Time `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt   time.Time `json:"updatedAt" bun:"updated_at,notnull"`

	Hotel *Hotel `json:"hotel,omitempty" bun:"rel:belongs-to,join:hotel_id=id"`
}

// RoomFilter narrows room listings. Nil pointers mean "no bound".
type RoomFilter struct {
	Type        RoomType
	MinPrice    *float64
	MaxPrice    *float64
	MinCapacity *int
}

func (f RoomFilter) Matches(r *Room) bool {
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.MinPrice != nil && r.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && r.Price > *f.MaxPrice {
		return false
	}
	if f.MinCapacity != nil && r.Capacity < *f.MinCapacity {
		return false
	}
	return true
}
