package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shangrila/internal/models"
)

type GormSpaStore struct{ db *gorm.DB }

func NewSpaStore(db *gorm.DB) *GormSpaStore { return &GormSpaStore{db: db} }

func (s *GormSpaStore) SlotTaken(ctx context.Context, serviceID uint, date, timeSlot string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.SpaAppointment{}).
		Where("service_id = ? AND appointment_date = ? AND appointment_time = ? AND status = ?",
			serviceID, date, timeSlot, models.StatusConfirmed).
		Count(&n).Error
	return n > 0, err
}

func (s *GormSpaStore) BookedTimes(ctx context.Context, serviceID uint, date string) ([]string, error) {
	var times []string
	err := s.db.WithContext(ctx).Model(&models.SpaAppointment{}).
		Where("service_id = ? AND appointment_date = ? AND status = ?",
			serviceID, date, models.StatusConfirmed).
		Pluck("appointment_time", &times).Error
	return times, err
}

func (s *GormSpaStore) Create(ctx context.Context, a *models.SpaAppointment) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *GormSpaStore) viewQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("spa_appointments").
		Select("spa_appointments.*, spa_services.name AS service_name, spa_services.duration AS duration, spa_services.image_url AS image_url, spa_categories.name AS category_name").
		Joins("JOIN spa_services ON spa_services.id = spa_appointments.service_id").
		Joins("JOIN spa_categories ON spa_categories.id = spa_services.category_id")
}

func (s *GormSpaStore) GetByReference(ctx context.Context, reference string) (*models.AppointmentView, error) {
	var v models.AppointmentView
	err := s.viewQuery(ctx).Where("spa_appointments.booking_reference = ?", reference).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *GormSpaStore) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.SpaAppointment{}).
		Where("booking_reference = ?", reference).Count(&n).Error
	return n > 0, err
}

func (s *GormSpaStore) SetCancelled(ctx context.Context, reference string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.SpaAppointment{}).
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

func (s *GormSpaStore) ListByEmail(ctx context.Context, email string) ([]models.AppointmentView, error) {
	var list []models.AppointmentView
	err := s.viewQuery(ctx).
		Where("spa_appointments.guest_email = ?", email).
		Order("spa_appointments.appointment_date DESC, spa_appointments.appointment_time").
		Scan(&list).Error
	return list, err
}

func (s *GormSpaStore) ListByUser(ctx context.Context, userID uint) ([]models.AppointmentView, error) {
	var list []models.AppointmentView
	err := s.viewQuery(ctx).
		Where("spa_appointments.user_id = ?", userID).
		Order("spa_appointments.appointment_date DESC, spa_appointments.appointment_time").
		Scan(&list).Error
	return list, err
}
