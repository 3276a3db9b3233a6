package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shangrila/internal/models"
)

// In-memory реализации хранилищ. Используются в двух ролях:
// fallback-режим без БД (каталог из статических данных) и
// тестовые дублёры сервисов.

type MemoryCatalogStore struct {
	mu        sync.RWMutex
	rooms     []models.RoomType
	images    []models.RoomImage
	amenities []models.RoomAmenity
	cats      []models.SpaCategory
	services  []models.SpaService
}

// NewMemoryCatalogStore создаёт каталог с демонстрационными данными отеля.
func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{
		rooms:    seedRoomTypes(),
		images:   seedRoomImages(),
		cats:     seedSpaCategories(),
		services: seedSpaServices(),
	}
}

// NewEmptyCatalogStore — пустой каталог для тестов.
func NewEmptyCatalogStore() *MemoryCatalogStore { return &MemoryCatalogStore{} }

func (s *MemoryCatalogStore) AddRoom(r models.RoomType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append(s.rooms, r)
}

func (s *MemoryCatalogStore) AddSpaService(c models.SpaCategory, svc models.SpaService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats = append(s.cats, c)
	s.services = append(s.services, svc)
}

func (s *MemoryCatalogStore) firstImage(roomTypeID uint) string {
	best := ""
	bestOrder := int(^uint(0) >> 1)
	for _, img := range s.images {
		if img.RoomTypeID == roomTypeID && img.DisplayOrder < bestOrder {
			best = img.ImageURL
			bestOrder = img.DisplayOrder
		}
	}
	return best
}

func (s *MemoryCatalogStore) ListRooms(_ context.Context) ([]models.RoomListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RoomListItem, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, models.RoomListItem{RoomType: r, ImageURL: s.firstImage(r.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PricePerNight < out[j].PricePerNight })
	return out, nil
}

func (s *MemoryCatalogStore) GetRoomBySlug(_ context.Context, slug string) (*models.RoomDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.Slug == slug {
			d := &models.RoomDetails{RoomType: r, Amenities: []string{}, Images: []string{}}
			for _, a := range s.amenities {
				if a.RoomTypeID == r.ID {
					d.Amenities = append(d.Amenities, a.Amenity)
				}
			}
			imgs := make([]models.RoomImage, 0)
			for _, img := range s.images {
				if img.RoomTypeID == r.ID {
					imgs = append(imgs, img)
				}
			}
			sort.Slice(imgs, func(i, j int) bool { return imgs[i].DisplayOrder < imgs[j].DisplayOrder })
			for _, img := range imgs {
				d.Images = append(d.Images, img.ImageURL)
			}
			return d, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryCatalogStore) GetRoomByID(_ context.Context, id uint) (*models.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.ID == id {
			room := r
			return &room, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryCatalogStore) ListSpaCategories(_ context.Context) ([]models.SpaCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.SpaCategory(nil), s.cats...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryCatalogStore) categoryName(id uint) string {
	for _, c := range s.cats {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (s *MemoryCatalogStore) listServices(filter func(models.SpaService) bool) []models.SpaServiceView {
	out := make([]models.SpaServiceView, 0)
	for _, svc := range s.services {
		if filter != nil && !filter(svc) {
			continue
		}
		out = append(out, models.SpaServiceView{SpaService: svc, CategoryName: s.categoryName(svc.CategoryID)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *MemoryCatalogStore) ListSpaServices(_ context.Context) ([]models.SpaServiceView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listServices(nil), nil
}

func (s *MemoryCatalogStore) ListSpaServicesByCategory(_ context.Context, categoryID uint) ([]models.SpaServiceView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listServices(func(svc models.SpaService) bool { return svc.CategoryID == categoryID }), nil
}

func (s *MemoryCatalogStore) ListFeaturedSpaServices(_ context.Context) ([]models.SpaServiceView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listServices(func(svc models.SpaService) bool { return svc.Featured }), nil
}

func (s *MemoryCatalogStore) GetSpaService(_ context.Context, id uint) (*models.SpaServiceView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, svc := range s.services {
		if svc.ID == id {
			return &models.SpaServiceView{SpaService: svc, CategoryName: s.categoryName(svc.CategoryID)}, nil
		}
	}
	return nil, models.ErrNotFound
}

// ---- bookings ----

type MemoryBookingStore struct {
	mu      sync.RWMutex
	nextID  uint
	items   []models.Booking
	catalog *MemoryCatalogStore // для room_name/room_slug в представлениях
}

func NewMemoryBookingStore(catalog *MemoryCatalogStore) *MemoryBookingStore {
	return &MemoryBookingStore{nextID: 1, catalog: catalog}
}

func (s *MemoryBookingStore) ListConfirmedByRoom(_ context.Context, roomTypeID uint) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0)
	for _, b := range s.items {
		if b.RoomTypeID == roomTypeID && b.Status == models.StatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *MemoryBookingStore) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextID
	s.nextID++
	s.items = append(s.items, *b)
	return nil
}

func (s *MemoryBookingStore) view(b models.Booking) models.BookingView {
	v := models.BookingView{Booking: b}
	if s.catalog != nil {
		if room, err := s.catalog.GetRoomByID(context.Background(), b.RoomTypeID); err == nil {
			v.RoomName = room.Name
			v.RoomSlug = room.Slug
		}
		s.catalog.mu.RLock()
		v.RoomImage = s.catalog.firstImage(b.RoomTypeID)
		s.catalog.mu.RUnlock()
	}
	return v
}

func (s *MemoryBookingStore) GetByReference(_ context.Context, reference string) (*models.BookingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.items {
		if b.BookingReference == reference {
			v := s.view(b)
			return &v, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryBookingStore) ReferenceExists(_ context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.items {
		if b.BookingReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryBookingStore) SetCancelled(_ context.Context, reference string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].BookingReference == reference {
			s.items[i].Status = models.StatusCancelled
			t := at
			s.items[i].CancelledDate = &t
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *MemoryBookingStore) SetSpecialRequests(_ context.Context, reference, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].BookingReference == reference {
			s.items[i].SpecialRequests = text
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *MemoryBookingStore) ListByEmail(_ context.Context, email string) ([]models.BookingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BookingView, 0)
	for _, b := range s.items {
		if strings.EqualFold(b.Email, email) {
			out = append(out, s.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (s *MemoryBookingStore) ListByUser(_ context.Context, userID uint) ([]models.BookingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BookingView, 0)
	for _, b := range s.items {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, s.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

// ---- spa appointments ----

type MemorySpaStore struct {
	mu      sync.RWMutex
	nextID  uint
	items   []models.SpaAppointment
	catalog *MemoryCatalogStore
}

func NewMemorySpaStore(catalog *MemoryCatalogStore) *MemorySpaStore {
	return &MemorySpaStore{nextID: 1, catalog: catalog}
}

func (s *MemorySpaStore) SlotTaken(_ context.Context, serviceID uint, date, timeSlot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.ServiceID == serviceID && a.AppointmentDate == date &&
			a.AppointmentTime == timeSlot && a.Status == models.StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemorySpaStore) BookedTimes(_ context.Context, serviceID uint, date string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0)
	for _, a := range s.items {
		if a.ServiceID == serviceID && a.AppointmentDate == date && a.Status == models.StatusConfirmed {
			out = append(out, a.AppointmentTime)
		}
	}
	return out, nil
}

func (s *MemorySpaStore) Create(_ context.Context, a *models.SpaAppointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID
	s.nextID++
	s.items = append(s.items, *a)
	return nil
}

func (s *MemorySpaStore) view(a models.SpaAppointment) models.AppointmentView {
	v := models.AppointmentView{SpaAppointment: a}
	if s.catalog != nil {
		if svc, err := s.catalog.GetSpaService(context.Background(), a.ServiceID); err == nil {
			v.ServiceName = svc.Name
			v.Duration = svc.Duration
			v.ImageURL = svc.ImageURL
			v.CategoryName = svc.CategoryName
		}
	}
	return v
}

func (s *MemorySpaStore) GetByReference(_ context.Context, reference string) (*models.AppointmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.BookingReference == reference {
			v := s.view(a)
			return &v, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemorySpaStore) ReferenceExists(_ context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.items {
		if a.BookingReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemorySpaStore) SetCancelled(_ context.Context, reference string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].BookingReference == reference {
			s.items[i].Status = models.StatusCancelled
			t := at
			s.items[i].CancelledDate = &t
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *MemorySpaStore) ListByEmail(_ context.Context, email string) ([]models.AppointmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AppointmentView, 0)
	for _, a := range s.items {
		if strings.EqualFold(a.GuestEmail, email) {
			out = append(out, s.view(a))
		}
	}
	sortAppointments(out)
	return out, nil
}

func (s *MemorySpaStore) ListByUser(_ context.Context, userID uint) ([]models.AppointmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AppointmentView, 0)
	for _, a := range s.items {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, s.view(a))
		}
	}
	sortAppointments(out)
	return out, nil
}

func sortAppointments(list []models.AppointmentView) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].AppointmentDate != list[j].AppointmentDate {
			return list[i].AppointmentDate > list[j].AppointmentDate
		}
		return list[i].AppointmentTime < list[j].AppointmentTime
	})
}

// ---- users / tokens ----

type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID uint
	items  []models.User
}

func NewMemoryUserStore() *MemoryUserStore { return &MemoryUserStore{nextID: 1} }

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// те же гарантии, что у уникальных индексов gorm-хранилища
	for _, e := range s.items {
		if e.Email == u.Email || e.Username == u.Username {
			return models.ErrAccountExists
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.items = append(s.items, *u)
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.items {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryUserStore) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.items {
		if u.Email == identifier || u.Username == identifier {
			user := u
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryUserStore) GetByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.items {
		if u.Email == email || u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

type MemoryTokenStore struct {
	mu    sync.RWMutex
	items map[string]models.AuthToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{items: make(map[string]models.AuthToken)}
}

func (s *MemoryTokenStore) Create(_ context.Context, t *models.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[t.Token] = *t
	return nil
}

func (s *MemoryTokenStore) GetValid(_ context.Context, token string, now time.Time) (*models.AuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.items[token]
	if !ok || !t.ExpiresAt.After(now) {
		return nil, models.ErrNotFound
	}
	tok := t
	return &tok, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

// ---- testimonials ----

type MemoryTestimonialStore struct {
	mu     sync.RWMutex
	nextID uint
	items  []models.Testimonial
}

func NewMemoryTestimonialStore() *MemoryTestimonialStore { return &MemoryTestimonialStore{nextID: 1} }

func (s *MemoryTestimonialStore) ListApproved(_ context.Context, limit int, featuredOnly bool, category string) ([]models.Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Testimonial, 0)
	for _, t := range s.items {
		if !t.Approved {
			continue
		}
		if featuredOnly && !t.Featured {
			continue
		}
		if category != "" && category != "all" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryTestimonialStore) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, t := range s.items {
		if t.Approved && !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryTestimonialStore) Create(_ context.Context, t *models.Testimonial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.items = append(s.items, *t)
	return nil
}
