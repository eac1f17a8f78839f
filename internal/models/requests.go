package models

type CreateBookingRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
	Guests   int    `json:"guests" binding:"required,gt=0"`
}

type AvailabilityRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
}

type CreateIntentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

type RoomQuery struct {
	Type     string   `form:"type" binding:"omitempty,roomtype"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Capacity *int     `form:"capacity" binding:"omitempty,gt=0"`
}

func (q RoomQuery) Filter() RoomFilter {
	return RoomFilter{
		Type:        RoomType(q.Type),
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinCapacity: q.Capacity,
	}
}

type CreateHotelRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city" binding:"required"`
	Country     string  `json:"country" binding:"required"`
	Rating      float64 `json:"rating" binding:"gte=0,lte=5"`
	ImageURL    string  `json:"image" binding:"omitempty,url"`
}

type CreateRoomRequest struct {
	HotelID     string   `json:"hotelId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Type        string   `json:"type" binding:"required,roomtype"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	Size        int      `json:"size" binding:"required,gt=0"`
	ImageURL    string   `json:"image" binding:"required,url"`
	Amenities   []string `json:"amenities"`
}

type ReviewQuery struct {
	RoomID string `form:"roomId" binding:"required"`
	SortBy string `form:"sortBy" binding:"omitempty,oneof=recent helpful rating"`
}

type CreateReviewRequest struct {
	RoomID  string `json:"roomId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"required,min=1,max=100"`
	Comment string `json:"comment" binding:"required,min=10,max=1000"`
}

type ReviewVoteRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
}
