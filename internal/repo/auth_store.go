package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shangrila/internal/models"
)

type GormUserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *GormUserStore { return &GormUserStore{db: db} }

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	// уникальные индексы на email/username — последний рубеж
	// против гонки check-then-insert
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrAccountExists
	}
	return err
}

func (s *GormUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type GormTokenStore struct{ db *gorm.DB }

func NewTokenStore(db *gorm.DB) *GormTokenStore { return &GormTokenStore{db: db} }

func (s *GormTokenStore) Create(ctx context.Context, t *models.AuthToken) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormTokenStore) GetValid(ctx context.Context, token string, now time.Time) (*models.AuthToken, error) {
	var t models.AuthToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormTokenStore) Delete(ctx context.Context, token string) error {
	// удаление незнакомого токена — не ошибка, как и в logout
	return s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.AuthToken{}).Error
}
