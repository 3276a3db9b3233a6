package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"shangrila/internal/models"
)

// Authenticator — необязательная аутентификация запроса и
// создание аккаунта прямо из формы бронирования.
type Authenticator interface {
	UserFromRequest(r *http.Request) (*models.User, error)
	RegisterInline(ctx context.Context, email, username, password string) (uint, error)
}

type Handler struct {
	svc  *Service
	auth Authenticator
}

func NewHandler(svc *Service, auth Authenticator) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	if h.svc.Degraded() {
		models.WriteFallback(w, status, data)
		return
	}
	models.WriteSuccess(w, status, data)
}

// GET /api/availability?roomTypeId=&checkIn=&checkOut=
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomTypeID := q.Get("roomTypeId")
	checkIn := q.Get("checkIn")
	checkOut := q.Get("checkOut")
	if roomTypeID == "" || checkIn == "" || checkOut == "" {
		models.WriteError(w, http.StatusBadRequest, "roomTypeId, checkIn, and checkOut parameters are required")
		return
	}
	id, err := strconv.ParseUint(roomTypeID, 10, 32)
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "roomTypeId must be a number")
		return
	}

	available, err := h.svc.Available(r.Context(), uint(id), checkIn, checkOut)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]any{
		"roomTypeId": uint(id),
		"checkIn":    checkIn,
		"checkOut":   checkOut,
		"available":  available,
	})
}

// POST /api/bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// валидация до inline-регистрации: отклонённый запрос
	// не должен оставить после себя созданный аккаунт
	if _, _, err := h.svc.validateCreate(r.Context(), in); err != nil {
		models.WriteFromError(w, err)
		return
	}

	user, err := h.auth.UserFromRequest(r)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	var userID *uint
	if user != nil {
		userID = &user.ID
	} else if in.Username != "" && in.Password != "" {
		// гость попросил аккаунт по пути
		id, err := h.auth.RegisterInline(r.Context(), in.Email, in.Username, in.Password)
		if err != nil {
			models.WriteFromError(w, err)
			return
		}
		userID = &id
	}

	created, err := h.svc.Create(r.Context(), in, userID)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusCreated, created)
}

// GET /api/bookings?email=
func (h *Handler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		models.WriteError(w, http.StatusBadRequest, "email parameter is required")
		return
	}
	list, err := h.svc.ListByEmail(r.Context(), email)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, list)
}

// GET /api/bookings/my-bookings (bearer)
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.UserFromRequest(r)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	if user == nil {
		models.WriteFromError(w, models.ErrAuthRequired)
		return
	}
	list, err := h.svc.ListByUser(r.Context(), user.ID)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, list)
}

// GET /api/booking?reference=
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("reference")
	if ref == "" {
		models.WriteError(w, http.StatusBadRequest, "booking reference is required")
		return
	}
	v, err := h.svc.GetByReference(r.Context(), ref)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, v)
}

type updateRequest struct {
	Action          string  `json:"action"`
	SpecialRequests *string `json:"special_requests"`
}

// PUT /api/booking?reference=  — {action:"cancel"} либо {special_requests}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("reference")
	if ref == "" {
		models.WriteError(w, http.StatusBadRequest, "booking reference is required")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Action == "cancel" {
		v, err := h.svc.Cancel(r.Context(), ref)
		if err != nil {
			models.WriteFromError(w, err)
			return
		}
		models.WriteSuccess(w, http.StatusOK, map[string]any{
			"booking_reference": v.BookingReference,
			"status":            v.Status,
			"cancelled_date":    v.CancelledDate,
			"message":           "Booking cancelled successfully",
		})
		return
	}

	// кроме отмены менять можно только special_requests
	if req.SpecialRequests == nil {
		models.WriteError(w, http.StatusBadRequest, "no valid fields to update")
		return
	}
	v, err := h.svc.UpdateSpecialRequests(r.Context(), ref, *req.SpecialRequests)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusOK, map[string]any{
		"booking_reference": v.BookingReference,
		"special_requests":  v.SpecialRequests,
		"message":           "Booking updated successfully",
	})
}
