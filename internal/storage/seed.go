package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
)

const DemoHotelID = "luxstay-main"

func demoHotel(now time.Time) *models.Hotel {
	return &models.Hotel{
		ID:          DemoHotelID,
		Name:        "LuxStay Grand Hotel",
		Description: "A premium luxury hotel offering world-class amenities and exceptional service in the heart of the city.",
		Address:     "123 Luxury Avenue",
		City:        "Miami",
		Country:     "USA",
		Rating:      4.8,
		ImageURL:    "https://images.unsplash.com/photo-1542314831-068cd1dbfeeb?q=80&w=2670&auto=format&fit=crop",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func demoRooms(now time.Time) []*models.Room {
	rooms := []*models.Room{
		{ID: "1", Name: "Deluxe Ocean View", Type: models.RoomDeluxe, Price: 299, Capacity: 2, Size: 45,
			Description: "Wake up to the sound of the ocean in this spacious deluxe room featuring a private balcony and premium amenities.",
			ImageURL:    "https://images.unsplash.com/photo-1571003123894-1f0594d2b5d9?q=80&w=2698&auto=format&fit=crop",
			Amenities:   []string{"Ocean View", "King Bed", "Free Wi-Fi", "Balcony", "Mini Bar"}},
		{ID: "2", Name: "Executive Suite", Type: models.RoomSuite, Price: 450, Capacity: 3, Size: 75,
			Description: "Experience ultimate luxury in our executive suite with separate living area, workspace, and city views.",
			ImageURL:    "https://images.unsplash.com/photo-1611892440504-42a792e24d32?q=80&w=2670&auto=format&fit=crop",
			Amenities:   []string{"City View", "Living Room", "Workspace", "Jacuzzi", "Butler Service"}},
		{ID: "3", Name: "Standard Cozy Room", Type: models.RoomStandard, Price: 150, Capacity: 2, Size: 30,
			Description: "Perfect for solo travelers or couples, our standard room offers comfort and style at an affordable rate.",
			ImageURL:    "https://images.unsplash.com/photo-1566665797739-1674de7a421a?q=80&w=2674&auto=format&fit=crop",
			Amenities:   []string{"Queen Bed", "Smart TV", "Coffee Maker", "Rain Shower"}},
		{ID: "4", Name: "Family Garden Suite", Type: models.RoomSuite, Price: 380, Capacity: 4, Size: 90,
			Description: "Spacious suite with direct access to the hotel gardens, perfect for families with children.",
			ImageURL:    "https://images.unsplash.com/photo-1596394516093-501ba68a0ba6?q=80&w=2670&auto=format&fit=crop",
			Amenities:   []string{"Garden Access", "2 Bedrooms", "Kitchenette", "Play Area"}},
		{ID: "5", Name: "Penthouse Skyline View", Type: models.RoomSuite, Price: 850, Capacity: 2, Size: 120,
			Description: "Top-floor luxury penthouse offering panoramic city views, private terrace, and exclusive VIP concierge service.",
			ImageURL:    "https://images.unsplash.com/photo-1590490360182-c33d57733427?q=80&w=2574&auto=format&fit=crop",
			Amenities:   []string{"Panoramic View", "Private Terrace", "VIP Service", "Jacuzzi", "King Bed"}},
		{ID: "6", Name: "Budget Solo Room", Type: models.RoomStandard, Price: 99, Capacity: 1, Size: 20,
			Description: "Compact and cozy room designed for the solo traveler who needs a comfortable base to explore the city.",
			ImageURL:    "https://images.unsplash.com/photo-1631049307264-da0ec9d70304?q=80&w=2670&auto=format&fit=crop",
			Amenities:   []string{"Single Bed", "Free Wi-Fi", "Work Desk", "Compact Bath"}},
		{ID: "7", Name: "Double Deluxe Twin", Type: models.RoomDeluxe, Price: 220, Capacity: 4, Size: 50,
			Description: "Spacious room with two queen beds, ideal for friends or colleagues traveling together.",
			ImageURL:    "https://images.unsplash.com/photo-1595526114035-0d45ed16cfbf?q=80&w=2670&auto=format&fit=crop",
			Amenities:   []string{"2 Queen Beds", "City View", "Smart TV", "Mini Fridge"}},
		{ID: "8", Name: "Oceanfront Villa", Type: models.RoomSuite, Price: 1200, Capacity: 6, Size: 200,
			Description: "An exclusive detached villa steps away from the beach, featuring a private pool and outdoor dining area.",
			ImageURL:    "https://images.unsplash.com/photo-1582719508461-905c673771fd?q=80&w=2525&auto=format&fit=crop",
			Amenities:   []string{"Private Pool", "Beach Access", "Full Kitchen", "3 Bedrooms", "BBQ Grill"}},
	}
	for _, r := range rooms {
		r.HotelID = DemoHotelID
		r.CreatedAt, r.UpdatedAt = now, now
	}
	return rooms
}

// SeedDemoData loads the demo hotel and its rooms. Rows that already exist
// are left as they are, so it is safe to run repeatedly.
func SeedDemoData(ctx context.Context, store Store, log *logger.Logger) error {
	now := time.Now().UTC()

	if err := store.CreateHotel(ctx, demoHotel(now)); err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("seed hotel: %w", err)
	}
	log.Info("SEED", "Hotel ready: "+DemoHotelID)

	for _, room := range demoRooms(now) {
		if err := store.CreateRoom(ctx, room); err != nil && !errors.Is(err, ErrConflict) {
			return fmt.Errorf("seed room %s: %w", room.ID, err)
		}
		log.Debug("SEED", "Room ready: "+room.Name)
	}
	log.Info("SEED", "Demo data loaded")
	return nil
}
