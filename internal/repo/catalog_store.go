package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shangrila/internal/models"
)

const firstImageSub = "COALESCE((SELECT image_url FROM room_images WHERE room_images.room_type_id = room_types.id ORDER BY display_order ASC LIMIT 1), '')"

type GormCatalogStore struct{ db *gorm.DB }

func NewCatalogStore(db *gorm.DB) *GormCatalogStore { return &GormCatalogStore{db: db} }

func (s *GormCatalogStore) ListRooms(ctx context.Context) ([]models.RoomListItem, error) {
	var rooms []models.RoomListItem
	err := s.db.WithContext(ctx).
		Table("room_types").
		Select("room_types.*, " + firstImageSub + " AS image_url").
		Order("price_per_night ASC").
		Scan(&rooms).Error
	return rooms, err
}

func (s *GormCatalogStore) GetRoomBySlug(ctx context.Context, slug string) (*models.RoomDetails, error) {
	var room models.RoomType
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var amenities []models.RoomAmenity
	if err := s.db.WithContext(ctx).
		Where("room_type_id = ?", room.ID).Find(&amenities).Error; err != nil {
		return nil, err
	}
	var images []models.RoomImage
	if err := s.db.WithContext(ctx).
		Where("room_type_id = ?", room.ID).
		Order("display_order ASC").Find(&images).Error; err != nil {
		return nil, err
	}

	details := &models.RoomDetails{
		RoomType:  room,
		Amenities: make([]string, 0, len(amenities)),
		Images:    make([]string, 0, len(images)),
	}
	for _, a := range amenities {
		details.Amenities = append(details.Amenities, a.Amenity)
	}
	for _, img := range images {
		details.Images = append(details.Images, img.ImageURL)
	}
	return details, nil
}

func (s *GormCatalogStore) GetRoomByID(ctx context.Context, id uint) (*models.RoomType, error) {
	var room models.RoomType
	err := s.db.WithContext(ctx).First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *GormCatalogStore) ListSpaCategories(ctx context.Context) ([]models.SpaCategory, error) {
	var cats []models.SpaCategory
	err := s.db.WithContext(ctx).Order("name").Find(&cats).Error
	return cats, err
}

func (s *GormCatalogStore) spaServiceQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("spa_services").
		Select("spa_services.*, spa_categories.name AS category_name").
		Joins("JOIN spa_categories ON spa_categories.id = spa_services.category_id")
}

func (s *GormCatalogStore) ListSpaServices(ctx context.Context) ([]models.SpaServiceView, error) {
	var services []models.SpaServiceView
	err := s.spaServiceQuery(ctx).
		Order("spa_services.category_id, spa_services.name").
		Scan(&services).Error
	return services, err
}

func (s *GormCatalogStore) ListSpaServicesByCategory(ctx context.Context, categoryID uint) ([]models.SpaServiceView, error) {
	var services []models.SpaServiceView
	err := s.spaServiceQuery(ctx).
		Where("spa_services.category_id = ?", categoryID).
		Order("spa_services.name").
		Scan(&services).Error
	return services, err
}

func (s *GormCatalogStore) ListFeaturedSpaServices(ctx context.Context) ([]models.SpaServiceView, error) {
	var services []models.SpaServiceView
	err := s.spaServiceQuery(ctx).
		Where("spa_services.featured = ?", true).
		Order("spa_services.category_id, spa_services.name").
		Scan(&services).Error
	return services, err
}

func (s *GormCatalogStore) GetSpaService(ctx context.Context, id uint) (*models.SpaServiceView, error) {
	var service models.SpaServiceView
	err := s.spaServiceQuery(ctx).Where("spa_services.id = ?", id).Take(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}
