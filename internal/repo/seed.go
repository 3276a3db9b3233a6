package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"shangrila/internal/models"
)

// Демонстрационный каталог отеля: им питается fallback-режим,
// им же засеивается пустая БД при первом старте.

func seedRoomTypes() []models.RoomType {
	return []models.RoomType{
		{ID: 1, Name: "Ocean View Deluxe Room", Slug: "ocean-view-deluxe", PricePerNight: 350, MaxOccupancy: 2, ViewType: "ocean"},
		{ID: 2, Name: "Beachfront Suite", Slug: "beachfront-suite", PricePerNight: 550, MaxOccupancy: 2, ViewType: "beachfront"},
		{ID: 3, Name: "Garden View Family Room", Slug: "garden-view-family", PricePerNight: 400, MaxOccupancy: 4, ViewType: "garden"},
		{ID: 4, Name: "Premium Oceanfront Suite", Slug: "premium-oceanfront-suite", PricePerNight: 800, MaxOccupancy: 2, ViewType: "oceanfront"},
		{ID: 5, Name: "Accessible Room", Slug: "accessible-room", PricePerNight: 300, MaxOccupancy: 2, ViewType: "garden"},
	}
}

func seedRoomImages() []models.RoomImage {
	out := make([]models.RoomImage, 0, 5)
	for _, r := range seedRoomTypes() {
		out = append(out, models.RoomImage{
			RoomTypeID:   r.ID,
			ImageURL:     fmt.Sprintf("/images/rooms/%s.jpg", r.Slug),
			DisplayOrder: 0,
		})
	}
	return out
}

func seedSpaCategories() []models.SpaCategory {
	return []models.SpaCategory{
		{ID: 1, Name: "Massages"},
		{ID: 2, Name: "Facials"},
		{ID: 3, Name: "Body Treatments"},
		{ID: 4, Name: "Nail Services"},
		{ID: 5, Name: "Enhancements"},
		{ID: 6, Name: "Wellness"},
	}
}

func seedSpaServices() []models.SpaService {
	return []models.SpaService{
		{ID: 1, CategoryID: 1, Name: "Shangri La Signature Massage", Duration: "90 minutes", Price: 250, Featured: true},
		{ID: 7, CategoryID: 2, Name: "Shangri La Radiance Facial", Duration: "75 minutes", Price: 210, Featured: true},
		{ID: 12, CategoryID: 3, Name: "Tropical Body Wrap", Duration: "60 minutes", Price: 200, Featured: true},
	}
}

// SeedCatalog наполняет пустые таблицы каталога демонстрационными данными.
// Непустые таблицы не трогает.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.RoomType{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count room_types: %w", err)
	}
	if n == 0 {
		rooms := seedRoomTypes()
		if err := db.WithContext(ctx).Create(&rooms).Error; err != nil {
			return fmt.Errorf("seed room_types: %w", err)
		}
		images := seedRoomImages()
		if err := db.WithContext(ctx).Create(&images).Error; err != nil {
			return fmt.Errorf("seed room_images: %w", err)
		}
	}

	if err := db.WithContext(ctx).Model(&models.SpaCategory{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count spa_categories: %w", err)
	}
	if n == 0 {
		cats := seedSpaCategories()
		if err := db.WithContext(ctx).Create(&cats).Error; err != nil {
			return fmt.Errorf("seed spa_categories: %w", err)
		}
		services := seedSpaServices()
		if err := db.WithContext(ctx).Create(&services).Error; err != nil {
			return fmt.Errorf("seed spa_services: %w", err)
		}
	}
	return nil
}
