package repo

import (
	"context"
	"time"

	"shangrila/internal/models"
)

// Интерфейсы хранилищ. Две реализации: GORM (sqlite/postgres/mysql)
// и in-memory (fallback-режим и тестовые дублёры). Выбор — на старте,
// никаких проверок "а умеет ли объект" в рантайме.

type CatalogStore interface {
	ListRooms(ctx context.Context) ([]models.RoomListItem, error)
	GetRoomBySlug(ctx context.Context, slug string) (*models.RoomDetails, error)
	GetRoomByID(ctx context.Context, id uint) (*models.RoomType, error)

	ListSpaCategories(ctx context.Context) ([]models.SpaCategory, error)
	ListSpaServices(ctx context.Context) ([]models.SpaServiceView, error)
	ListSpaServicesByCategory(ctx context.Context, categoryID uint) ([]models.SpaServiceView, error)
	ListFeaturedSpaServices(ctx context.Context) ([]models.SpaServiceView, error)
	GetSpaService(ctx context.Context, id uint) (*models.SpaServiceView, error)
}

type BookingStore interface {
	ListConfirmedByRoom(ctx context.Context, roomTypeID uint) ([]models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	GetByReference(ctx context.Context, reference string) (*models.BookingView, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	SetCancelled(ctx context.Context, reference string, at time.Time) error
	SetSpecialRequests(ctx context.Context, reference, text string) error
	ListByEmail(ctx context.Context, email string) ([]models.BookingView, error)
	ListByUser(ctx context.Context, userID uint) ([]models.BookingView, error)
}

type SpaStore interface {
	SlotTaken(ctx context.Context, serviceID uint, date, timeSlot string) (bool, error)
	BookedTimes(ctx context.Context, serviceID uint, date string) ([]string, error)
	Create(ctx context.Context, a *models.SpaAppointment) error
	GetByReference(ctx context.Context, reference string) (*models.AppointmentView, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	SetCancelled(ctx context.Context, reference string, at time.Time) error
	ListByEmail(ctx context.Context, email string) ([]models.AppointmentView, error)
	ListByUser(ctx context.Context, userID uint) ([]models.AppointmentView, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByIdentifier ищет по email ЛИБО username (логин одним полем).
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// GetByEmailOrUsername нужен для проверки конфликтов при регистрации.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
}

type TokenStore interface {
	Create(ctx context.Context, t *models.AuthToken) error
	// GetValid возвращает ErrNotFound и для незнакомого, и для истёкшего токена.
	GetValid(ctx context.Context, token string, now time.Time) (*models.AuthToken, error)
	Delete(ctx context.Context, token string) error
}

type TestimonialStore interface {
	ListApproved(ctx context.Context, limit int, featuredOnly bool, category string) ([]models.Testimonial, error)
	ListCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, t *models.Testimonial) error
}
