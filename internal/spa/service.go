package spa

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

// Рабочие часы спа: дискретная сетка часовых слотов.
var allTimeSlots = []string{
	"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM",
}

// Service — запись и отмена спа-процедур. Конфликт слота — это
// равенство (услуга, дата, время) среди подтверждённых записей;
// мутации по одной услуге сериализуются локом.
type Service struct {
	catalog  repo.CatalogStore
	store    repo.SpaStore
	locks    *locks.Keyed
	prefix   string
	degraded bool
	now      func() time.Time
}

func New(catalog repo.CatalogStore, store repo.SpaStore, prefix string, degraded bool) *Service {
	return &Service{
		catalog:  catalog,
		store:    store,
		locks:    locks.NewKeyed(),
		prefix:   prefix,
		degraded: degraded,
		now:      time.Now,
	}
}

func (s *Service) Degraded() bool { return s.degraded }

func (s *Service) serviceKey(serviceID uint) string {
	return fmt.Sprintf("spa:%d", serviceID)
}

func validSlot(timeSlot string) bool {
	for _, t := range allTimeSlots {
		if t == timeSlot {
			return true
		}
	}
	return false
}

// BookInput — тело POST /api/spa/appointments.
type BookInput struct {
	ServiceID       uint   `json:"serviceId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	GuestName       string `json:"guestName"`
	GuestEmail      string `json:"guestEmail"`
	GuestPhone      string `json:"guestPhone"`
	SpecialRequests string `json:"specialRequests"`

	Username string `json:"username"`
	Password string `json:"password"`
}

func (in *BookInput) missingFields() []string {
	var missing []string
	add := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	add("serviceId", in.ServiceID != 0)
	add("appointmentDate", in.AppointmentDate != "")
	add("appointmentTime", in.AppointmentTime != "")
	add("guestName", in.GuestName != "")
	add("guestEmail", in.GuestEmail != "")
	return missing
}

// validateBook — проверки входа без записи: обязательные поля, дата,
// слот из сетки, существование услуги. Обработчик гоняет её до
// inline-регистрации аккаунта.
func (s *Service) validateBook(ctx context.Context, in BookInput) (date string, svc *models.SpaServiceView, err error) {
	if missing := in.missingFields(); len(missing) > 0 {
		return "", nil, models.MissingFieldsError(missing)
	}
	date, err = models.ParseDate(in.AppointmentDate)
	if err != nil {
		return "", nil, err
	}
	if !validSlot(in.AppointmentTime) {
		return "", nil, fmt.Errorf("%w: invalid time slot: %q", models.ErrValidation, in.AppointmentTime)
	}
	svc, err = s.catalog.GetSpaService(ctx, in.ServiceID)
	if err != nil {
		return "", nil, fmt.Errorf("spa service: %w", err)
	}
	return date, svc, nil
}

// Book валидирует вход и вставляет запись под локом услуги.
// Цена берётся из каталога, не из запроса.
func (s *Service) Book(ctx context.Context, in BookInput, userID *uint) (*models.AppointmentView, error) {
	date, svc, err := s.validateBook(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.degraded {
		return nil, models.ErrStoreUnavailable
	}

	mu := s.locks.Get(s.serviceKey(in.ServiceID))
	mu.Lock()
	defer mu.Unlock()

	taken, err := s.store.SlotTaken(ctx, in.ServiceID, date, in.AppointmentTime)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return nil, models.ErrSlotTaken
	}

	ref, err := s.uniqueReference(ctx)
	if err != nil {
		return nil, err
	}
	a := &models.SpaAppointment{
		BookingReference: ref,
		ServiceID:        in.ServiceID,
		AppointmentDate:  date,
		AppointmentTime:  in.AppointmentTime,
		GuestName:        in.GuestName,
		GuestEmail:       in.GuestEmail,
		GuestPhone:       in.GuestPhone,
		SpecialRequests:  in.SpecialRequests,
		Price:            svc.Price,
		Status:           models.StatusConfirmed,
		UserID:           userID,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
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
	return "", fmt.Errorf("could not generate a unique appointment reference")
}

// AvailableSlots — свободные часы по услуге на дату.
type AvailableSlots struct {
	Date            string   `json:"date"`
	ServiceID       uint     `json:"serviceId"`
	ServiceName     string   `json:"serviceName"`
	ServiceDuration string   `json:"serviceDuration"`
	AvailableSlots  []string `json:"availableSlots"`
}

func (s *Service) SlotsFor(ctx context.Context, serviceID uint, date string) (*AvailableSlots, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetSpaService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("spa service: %w", err)
	}

	out := &AvailableSlots{
		Date:            day,
		ServiceID:       serviceID,
		ServiceName:     svc.Name,
		ServiceDuration: svc.Duration,
	}
	if s.degraded {
		logs.Logger.Warnf("slot listing in degraded mode: service=%d, reporting full grid", serviceID)
		out.AvailableSlots = append([]string(nil), allTimeSlots...)
		return out, nil
	}

	booked, err := s.store.BookedTimes(ctx, serviceID, day)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}
	out.AvailableSlots = make([]string, 0, len(allTimeSlots))
	for _, t := range allTimeSlots {
		if !taken[t] {
			out.AvailableSlots = append(out.AvailableSlots, t)
		}
	}
	return out, nil
}

// checkOwnership: чужую привязанную запись не отдаём и не отменяем.
// Гостевые записи (без user_id) доступны по номеру брони.
func checkOwnership(a *models.AppointmentView, requester *models.User) error {
	if a.UserID != nil && requester != nil && *a.UserID != requester.ID {
		return models.ErrPermission
	}
	return nil
}

func (s *Service) GetByReference(ctx context.Context, ref string, requester *models.User) (*models.AppointmentView, error) {
	a, err := s.store.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(a, requester); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Cancel(ctx context.Context, ref string, requester *models.User) (*models.AppointmentView, error) {
	if s.degraded {
		return nil, models.ErrStoreUnavailable
	}
	a, err := s.store.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(a, requester); err != nil {
		return nil, err
	}

	mu := s.locks.Get(s.serviceKey(a.ServiceID))
	mu.Lock()
	defer mu.Unlock()

	a, err = s.store.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if a.Status == models.StatusCancelled {
		return nil, models.ErrAlreadyCancelled
	}
	if err := s.store.SetCancelled(ctx, ref, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return s.store.GetByReference(ctx, ref)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]models.AppointmentView, error) {
	return s.store.ListByEmail(ctx, email)
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.AppointmentView, error) {
	return s.store.ListByUser(ctx, userID)
}
