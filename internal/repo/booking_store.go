package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shangrila/internal/models"
)

const bookingImageSub = "COALESCE((SELECT image_url FROM room_images WHERE room_images.room_type_id = bookings.room_type_id ORDER BY display_order ASC LIMIT 1), '')"

type GormBookingStore struct{ db *gorm.DB }

func NewBookingStore(db *gorm.DB) *GormBookingStore { return &GormBookingStore{db: db} }

func (s *GormBookingStore) ListConfirmedByRoom(ctx context.Context, roomTypeID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("room_type_id = ? AND status = ?", roomTypeID, models.StatusConfirmed).
		Find(&bookings).Error
	return bookings, err
}

func (s *GormBookingStore) Create(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *GormBookingStore) viewQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.*, room_types.name AS room_name, room_types.slug AS room_slug, " + bookingImageSub + " AS room_image").
		Joins("JOIN room_types ON room_types.id = bookings.room_type_id")
}

func (s *GormBookingStore) GetByReference(ctx context.Context, reference string) (*models.BookingView, error) {
	var v models.BookingView
	err := s.viewQuery(ctx).Where("bookings.booking_reference = ?", reference).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *GormBookingStore) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("booking_reference = ?", reference).Count(&n).Error
	return n > 0, err
}

func (s *GormBookingStore) SetCancelled(ctx context.Context, reference string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("booking_reference = ?", reference).
		Updates(map[string]any{
			"status":         models.StatusCancelled,
			"cancelled_date": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *GormBookingStore) SetSpecialRequests(ctx context.Context, reference, text string) error {
	// существование брони проверяет сервис; RowsAffected тут не показателен
	// (MySQL возвращает 0 при записи того же значения)
	return s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("booking_reference = ?", reference).
		Update("special_requests", text).Error
}

func (s *GormBookingStore) ListByEmail(ctx context.Context, email string) ([]models.BookingView, error) {
	var list []models.BookingView
	err := s.viewQuery(ctx).
		Where("bookings.email = ?", email).
		Order("bookings.booking_date DESC").
		Scan(&list).Error
	return list, err
}

func (s *GormBookingStore) ListByUser(ctx context.Context, userID uint) ([]models.BookingView, error) {
	var list []models.BookingView
	err := s.viewQuery(ctx).
		Where("bookings.user_id = ?", userID).
		Order("bookings.booking_date DESC").
		Scan(&list).Error
	return list, err
}
