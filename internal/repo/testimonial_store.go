package repo

import (
	"context"

	"gorm.io/gorm"

	"shangrila/internal/models"
)

type GormTestimonialStore struct{ db *gorm.DB }

func NewTestimonialStore(db *gorm.DB) *GormTestimonialStore { return &GormTestimonialStore{db: db} }

func (s *GormTestimonialStore) ListApproved(ctx context.Context, limit int, featuredOnly bool, category string) ([]models.Testimonial, error) {
	q := s.db.WithContext(ctx).Model(&models.Testimonial{}).Where("approved = ?", true)
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}
	if category != "" && category != "all" {
		q = q.Where("category = ?", category)
	}
	if limit <= 0 {
		limit = 100
	}
	var list []models.Testimonial
	err := q.Order("rating DESC, created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (s *GormTestimonialStore) ListCategories(ctx context.Context) ([]string, error) {
	var cats []string
	err := s.db.WithContext(ctx).Model(&models.Testimonial{}).
		Where("approved = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &cats).Error
	return cats, err
}

func (s *GormTestimonialStore) Create(ctx context.Context, t *models.Testimonial) error {
	return s.db.WithContext(ctx).Create(t).Error
}
