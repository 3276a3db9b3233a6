package spa

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"shangrila/internal/models"
	"shangrila/internal/repo"
)

type Authenticator interface {
	UserFromRequest(r *http.Request) (*models.User, error)
	RegisterInline(ctx context.Context, email, username, password string) (uint, error)
}

type Handler struct {
	svc     *Service
	catalog repo.CatalogStore
	auth    Authenticator
}

func NewHandler(svc *Service, catalog repo.CatalogStore, auth Authenticator) *Handler {
	return &Handler{svc: svc, catalog: catalog, auth: auth}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	if h.svc.Degraded() {
		models.WriteFallback(w, status, data)
		return
	}
	models.WriteSuccess(w, status, data)
}

func pathUint(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	return uint(v), err == nil
}

// GET /api/spa/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.ListSpaCategories(r.Context())
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, cats)
}

// GET /api/spa/services
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListSpaServices(r.Context())
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, services)
}

// GET /api/spa/services/featured
func (h *Handler) FeaturedServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListFeaturedSpaServices(r.Context())
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, services)
}

// GET /api/spa/services/category/{categoryId}
func (h *Handler) ServicesByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(r, "categoryId")
	if !ok {
		models.WriteError(w, http.StatusBadRequest, "categoryId must be a number")
		return
	}
	services, err := h.catalog.ListSpaServicesByCategory(r.Context(), id)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, services)
}

// GET /api/spa/services/{serviceId}
func (h *Handler) ServiceByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUint(r, "serviceId")
	if !ok {
		models.WriteError(w, http.StatusBadRequest, "serviceId must be a number")
		return
	}
	svc, err := h.catalog.GetSpaService(r.Context(), id)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, svc)
}

// GET /api/spa/appointment/{reference}
func (h *Handler) AppointmentByReference(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.UserFromRequest(r)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	a, err := h.svc.GetByReference(r.Context(), mux.Vars(r)["reference"], user)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, a)
}

// POST /api/spa/appointments
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var in BookInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// валидация до inline-регистрации: отклонённый запрос
	// не должен оставить после себя созданный аккаунт
	if _, _, err := h.svc.validateBook(r.Context(), in); err != nil {
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
		id, err := h.auth.RegisterInline(r.Context(), in.GuestEmail, in.Username, in.Password)
		if err != nil {
			models.WriteFromError(w, err)
			return
		}
		userID = &id
	}

	a, err := h.svc.Book(r.Context(), in, userID)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusCreated, map[string]any{
		"message":     "Appointment booked successfully",
		"appointment": a,
	})
}

// GET /api/spa/appointments/available?date=&serviceId=
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	serviceID := q.Get("serviceId")
	if date == "" || serviceID == "" {
		models.WriteError(w, http.StatusBadRequest, "date and serviceId parameters are required")
		return
	}
	id, err := strconv.ParseUint(serviceID, 10, 32)
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "serviceId must be a number")
		return
	}
	slots, err := h.svc.SlotsFor(r.Context(), uint(id), date)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, slots)
}

// GET /api/spa/appointments/my-appointments (bearer)
func (h *Handler) MyAppointments(w http.ResponseWriter, r *http.Request) {
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

// GET /api/spa/appointments/user/{email}
func (h *Handler) UserAppointments(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, list)
}

// PUT /api/spa/appointments/{reference}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.UserFromRequest(r)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	a, err := h.svc.Cancel(r.Context(), mux.Vars(r)["reference"], user)
	if err != nil {
		models.WriteFromError(w, err)
		return
	}
	models.WriteSuccess(w, http.StatusOK, map[string]any{
		"booking_reference": a.BookingReference,
		"status":            a.Status,
		"cancelled_date":    a.CancelledDate,
		"message":           "Appointment cancelled successfully",
	})
}
