package booking

import (
	"context"
	"fmt"
	"time"

	"shangrila/internal/locks"
	"shangrila/internal/logs"
	"shangrila/internal/models"
	"shangrila/internal/reference"
	"shangrila/internal/repo"
)

const maxReferenceAttempts = 5

// Service — проверка доступности и запись броней.
// Мутации по одной комнате сериализуются через Keyed-лок:
// проверка пересечений и вставка выполняются как один шаг.
type Service struct {
	catalog  repo.CatalogStore
	store    repo.BookingStore
	locks    *locks.Keyed
	prefix   string
	degraded bool
	now      func() time.Time
}

func New(catalog repo.CatalogStore, store repo.BookingStore, prefix string, degraded bool) *Service {
	return &Service{
		catalog:  catalog,
		store:    store,
		locks:    locks.NewKeyed(),
		prefix:   prefix,
		degraded: degraded,
		now:      time.Now,
	}
}

// Degraded — работает ли сервис поверх fallback-хранилища.
func (s *Service) Degraded() bool { return s.degraded }

// CreateInput — тело POST /api/bookings (camelCase, как в публичном API).
type CreateInput struct {
	RoomTypeID      uint    `json:"roomTypeId"`
	CheckInDate     string  `json:"checkInDate"`
	CheckOutDate    string  `json:"checkOutDate"`
	Adults          int     `json:"adults"`
	Children        int     `json:"children"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	SpecialRequests string  `json:"specialRequests"`
	PaymentMethod   string  `json:"paymentMethod"`
	TotalPrice      float64 `json:"totalPrice"`

	// Опционально: создать аккаунт прямо из формы бронирования.
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in *CreateInput) missingFields() []string {
	var missing []string
	add := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	add("roomTypeId", in.RoomTypeID != 0)
	add("checkInDate", in.CheckInDate != "")
	add("checkOutDate", in.CheckOutDate != "")
	add("adults", in.Adults != 0)
	add("firstName", in.FirstName != "")
	add("lastName", in.LastName != "")
	add("email", in.Email != "")
	add("phone", in.Phone != "")
	add("paymentMethod", in.PaymentMethod != "")
	add("totalPrice", in.TotalPrice != 0)
	return missing
}

// rangesOverlap — каноническое пересечение полуинтервалов [in, out):
// выезд в день чужого заезда пересечением не считается.
// Строки YYYY-MM-DD сравниваются лексикографически.
func rangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

func (s *Service) roomKey(roomTypeID uint) string {
	return fmt.Sprintf("room:%d", roomTypeID)
}

// validateCreate — все проверки входа без единой записи:
// обязательные поля, разбор дат, существование комнаты. Обработчик
// гоняет её до inline-регистрации аккаунта, чтобы невалидный запрос
// не оставлял за собой пользователя.
func (s *Service) validateCreate(ctx context.Context, in CreateInput) (checkIn, checkOut string, err error) {
	if missing := in.missingFields(); len(missing) > 0 {
		return "", "", models.MissingFieldsError(missing)
	}
	checkIn, err = models.ParseDate(in.CheckInDate)
	if err != nil {
		return "", "", err
	}
	checkOut, err = models.ParseDate(in.CheckOutDate)
	if err != nil {
		return "", "", err
	}
	if checkIn >= checkOut {
		return "", "", models.ErrInvalidRange
	}
	if _, err := s.catalog.GetRoomByID(ctx, in.RoomTypeID); err != nil {
		return "", "", fmt.Errorf("room type: %w", err)
	}
	return checkIn, checkOut, nil
}

// Available — чистое чтение: есть ли подтверждённые брони,
// пересекающие [checkIn, checkOut) по данной комнате.
func (s *Service) Available(ctx context.Context, roomTypeID uint, checkIn, checkOut string) (bool, error) {
	in, err := models.ParseDate(checkIn)
	if err != nil {
		return false, err
	}
	out, err := models.ParseDate(checkOut)
	if err != nil {
		return false, err
	}
	if in >= out {
		return false, models.ErrInvalidRange
	}
	if _, err := s.catalog.GetRoomByID(ctx, roomTypeID); err != nil {
		return false, fmt.Errorf("room type: %w", err)
	}

	if s.degraded {
		// Хранилище броней недоступно: оптимистично считаем комнату
		// свободной. Обработчик обязан пометить ответ fallback-флагом.
		logs.Logger.Warnf("availability check in degraded mode: room=%d, reporting available", roomTypeID)
		return true, nil
	}

	return s.availableLocked(ctx, roomTypeID, in, out)
}

func (s *Service) availableLocked(ctx context.Context, roomTypeID uint, in, out string) (bool, error) {
	existing, err := s.store.ListConfirmedByRoom(ctx, roomTypeID)
	if err != nil {
		return false, fmt.Errorf("list confirmed bookings: %w", err)
	}
	for _, b := range existing {
		if rangesOverlap(in, out, b.CheckInDate, b.CheckOutDate) {
			return false, nil
		}
	}
	return true, nil
}

// Create валидирует вход, повторяет проверку доступности под локом
// комнаты и вставляет бронь со статусом confirmed.
func (s *Service) Create(ctx context.Context, in CreateInput, userID *uint) (*models.BookingView, error) {
	checkIn, checkOut, err := s.validateCreate(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.degraded {
		// Деньги в fallback-режиме не трогаем.
		return nil, models.ErrStoreUnavailable
	}

	mu := s.locks.Get(s.roomKey(in.RoomTypeID))
	mu.Lock()
	defer mu.Unlock()

	ok, err := s.availableLocked(ctx, in.RoomTypeID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrRoomUnavailable
	}

	ref, err := s.uniqueReference(ctx)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		BookingReference: ref,
		RoomTypeID:       in.RoomTypeID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		Adults:           in.Adults,
		Children:         in.Children,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		SpecialRequests:  in.SpecialRequests,
		PaymentMethod:    in.PaymentMethod,
		TotalPrice:       in.TotalPrice,
		Status:           models.StatusConfirmed,
		UserID:           userID,
		BookingDate:      s.now().UTC(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return s.store.GetByReference(ctx, ref)
}

func (s *Service) uniqueReference(ctx context.Context) (string, error) {
	for i := 0; i < maxReferenceAttempts; i++ {
		ref := reference.New(s.prefix, s.now())
		exists, err := s.store.ReferenceExists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("check reference: %w", err)
		}
		if !exists {
			return ref, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique booking reference")
}

// Cancel переводит бронь в cancelled. Повторная отмена — всегда
// одна и та же ошибка, без второго изменения состояния.
func (s *Service) Cancel(ctx context.Context, ref string) (*models.BookingView, error) {
	if s.degraded {
		return nil, models.ErrStoreUnavailable
	}
	v, err := s.store.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	mu := s.locks.Get(s.roomKey(v.RoomTypeID))
	mu.Lock()
	defer mu.Unlock()

	// статус перечитываем уже под локом
	v, err = s.store.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if v.Status == models.StatusCancelled {
		return nil, models.ErrAlreadyCancelled
	}
	if err := s.store.SetCancelled(ctx, ref, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	return s.store.GetByReference(ctx, ref)
}

// UpdateSpecialRequests — единственное изменяемое поле брони.
func (s *Service) UpdateSpecialRequests(ctx context.Context, ref, text string) (*models.BookingView, error) {
	if s.degraded {
		return nil, models.ErrStoreUnavailable
	}
	if _, err := s.store.GetByReference(ctx, ref); err != nil {
		return nil, err
	}
	if err := s.store.SetSpecialRequests(ctx, ref, text); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return s.store.GetByReference(ctx, ref)
}

func (s *Service) GetByReference(ctx context.Context, ref string) (*models.BookingView, error) {
	return s.store.GetByReference(ctx, ref)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]models.BookingView, error) {
	return s.store.ListByEmail(ctx, email)
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.BookingView, error) {
	return s.store.ListByUser(ctx, userID)
}
