package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `json:"id" bun:"id,pk"`
	Email     string    `json:"email" bun:"email,notnull,unique"`
	Name      string    `json:"name" bun:"name"`
	Image     string    `json:"image,omitempty" bun:"image"`
	Phone     string    `json:"phone,omitempty" bun:"phone"`
	CreatedAt time.Time `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt time.Time `json:"updatedAt" bun:"updated_at,notnull"`
}

// Identity is what the auth layer knows about the caller.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Image  string
	Role   string
}

// ProfileUpdate carries optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}
