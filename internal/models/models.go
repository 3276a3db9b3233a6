package models

import "time"

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// room_types
type RoomType struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"size:128;not null" json:"name"`
	Slug            string  `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Description     string  `gorm:"type:text" json:"description"`
	FullDescription string  `gorm:"type:text" json:"full_description,omitempty"`
	PricePerNight   float64 `gorm:"not null" json:"price_per_night"`
	SizeSqm         int     `json:"size_sqm,omitempty"`
	SizeSqft        int     `json:"size_sqft,omitempty"`
	BedType         string  `gorm:"size:64" json:"bed_type,omitempty"`
	MaxOccupancy    int     `json:"max_occupancy"`
	ViewType        string  `gorm:"size:64" json:"view_type,omitempty"`
}

// room_images (упорядочены по display_order)
type RoomImage struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	RoomTypeID   uint   `gorm:"index;not null" json:"-"`
	ImageURL     string `gorm:"size:512;not null" json:"image_url"`
	DisplayOrder int    `gorm:"not null;default:0" json:"-"`
}

// room_amenities
type RoomAmenity struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	RoomTypeID uint   `gorm:"index;not null" json:"-"`
	Amenity    string `gorm:"size:128;not null" json:"amenity"`
}

// spa_categories
type SpaCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;uniqueIndex;not null" json:"name"`
}

// spa_services
type SpaService struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CategoryID  uint    `gorm:"index;not null" json:"category_id"`
	Name        string  `gorm:"size:128;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Duration    string  `gorm:"size:32" json:"duration"`
	Price       float64 `gorm:"not null" json:"price"`
	ImageURL    string  `gorm:"size:512" json:"image_url,omitempty"`
	Featured    bool    `gorm:"not null;default:false" json:"featured"`
}

// bookings
type Booking struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	BookingReference string            `gorm:"size:32;uniqueIndex;not null" json:"booking_reference"`
	RoomTypeID       uint              `gorm:"index;not null" json:"room_type_id"`
	CheckInDate      string            `gorm:"size:10;not null;index" json:"check_in_date"`
	CheckOutDate     string            `gorm:"size:10;not null" json:"check_out_date"`
	Adults           int               `gorm:"not null" json:"adults"`
	Children         int               `gorm:"not null;default:0" json:"children"`
	FirstName        string            `gorm:"size:64;not null" json:"first_name"`
	LastName         string            `gorm:"size:64;not null" json:"last_name"`
	Email            string            `gorm:"size:255;not null;index" json:"email"`
	Phone            string            `gorm:"size:32;not null" json:"phone"`
	SpecialRequests  string            `gorm:"type:text" json:"special_requests"`
	PaymentMethod    string            `gorm:"size:32;not null" json:"payment_method"`
	TotalPrice       float64           `gorm:"not null" json:"total_price"`
	Status           ReservationStatus `gorm:"size:16;not null;index" json:"status"`
	UserID           *uint             `gorm:"index" json:"user_id,omitempty"`
	BookingDate      time.Time         `gorm:"not null" json:"booking_date"`
	CancelledDate    *time.Time        `json:"cancelled_date,omitempty"`
}

// spa_appointments
type SpaAppointment struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	BookingReference string            `gorm:"size:32;uniqueIndex;not null" json:"booking_reference"`
	ServiceID        uint              `gorm:"index;not null" json:"service_id"`
	AppointmentDate  string            `gorm:"size:10;not null;index" json:"appointment_date"`
	AppointmentTime  string            `gorm:"size:16;not null" json:"appointment_time"`
	GuestName        string            `gorm:"size:128;not null" json:"guest_name"`
	GuestEmail       string            `gorm:"size:255;not null;index" json:"guest_email"`
	GuestPhone       string            `gorm:"size:32" json:"guest_phone"`
	SpecialRequests  string            `gorm:"type:text" json:"special_requests"`
	Price            float64           `gorm:"not null" json:"price"`
	Status           ReservationStatus `gorm:"size:16;not null;index" json:"status"`
	UserID           *uint             `gorm:"index" json:"user_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	CancelledDate    *time.Time        `json:"cancelled_date,omitempty"`
}

// users
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Salt         string    `gorm:"size:32;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// auth_tokens
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"-"`
}

// testimonials
type Testimonial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"-"`
	Location  string    `gorm:"size:128;not null" json:"location"`
	Rating    int       `gorm:"not null" json:"rating"`
	Category  string    `gorm:"size:64;not null;index" json:"category"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	ImageURL  string    `gorm:"size:512" json:"image_url,omitempty"`
	Featured  bool      `gorm:"not null;default:false" json:"featured"`
	Approved  bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomListItem — строка списка комнат с обложкой.
type RoomListItem struct {
	RoomType `gorm:"embedded"`
	ImageURL string `json:"image_url,omitempty"`
}

// SpaServiceView — услуга с именем категории.
type SpaServiceView struct {
	SpaService   `gorm:"embedded"`
	CategoryName string `json:"category_name"`
}

// BookingView — бронь в том виде, в каком её отдаёт API
// (с именем/слагом комнаты и обложкой).
type BookingView struct {
	Booking   `gorm:"embedded"`
	RoomName  string `json:"room_name"`
	RoomSlug  string `json:"room_slug"`
	RoomImage string `json:"room_image,omitempty"`
}

// AppointmentView — спа-запись с данными услуги.
type AppointmentView struct {
	SpaAppointment `gorm:"embedded"`
	ServiceName    string `json:"service_name"`
	Duration       string `json:"duration"`
	ImageURL       string `json:"image_url,omitempty"`
	CategoryName   string `json:"category_name,omitempty"`
}

// RoomDetails — карточка комнаты с удобствами и галереей.
type RoomDetails struct {
	RoomType
	Amenities []string `json:"amenities"`
	Images    []string `json:"images"`
}
